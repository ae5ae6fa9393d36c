package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookApp(secretHash string) *fiber.App {
	app := fiber.New()
	app.Post("/webhook", ValidateFlutterwaveSignature(secretHash), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"received": true})
	})
	return app
}

func TestValidateFlutterwaveSignatureAccepts(t *testing.T) {
	app := newWebhookApp("top-secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.Header.Set("verif-hash", "top-secret")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidateFlutterwaveSignatureRejectsBadHash(t *testing.T) {
	app := newWebhookApp("top-secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.Header.Set("verif-hash", "wrong")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidateFlutterwaveSignatureMissingHeader(t *testing.T) {
	app := newWebhookApp("top-secret")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/webhook", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidateFlutterwaveSignatureUnconfigured(t *testing.T) {
	app := newWebhookApp("")

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.Header.Set("verif-hash", "anything")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
