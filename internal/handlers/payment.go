package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/services"
)

// PaymentHandler handles checkout and payment webhook requests
type PaymentHandler struct {
	payments *services.PaymentService
	wizard   *services.WizardService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService, wizard *services.WizardService) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		wizard:   wizard,
	}
}

// ProcessPayment handles the demo checkout. On success the wizard moves
// to the success stage; on failure it stays on payment.
func (h *PaymentHandler) ProcessPayment(c *fiber.Ctx) error {
	var req services.DemoPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing payment details.",
		})
	}

	if _, ok := models.FindUseCase(req.UseCase); ok {
		if _, err := h.wizard.EnterPayment(req.UseCase); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong",
			})
		}
	}

	payment, err := h.payments.ProcessDemoPayment(req, c.Get("Idempotency-Key"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingPaymentDetails),
			errors.Is(err, services.ErrUnknownPaymentMethod),
			errors.Is(err, services.ErrAmountMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Payment failed",
		})
	}

	if _, ok := models.FindUseCase(req.UseCase); ok {
		if _, err := h.wizard.CompletePayment(req.UseCase, payment.TxRef); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong",
			})
		}
	}

	return c.JSON(fiber.Map{
		"ok":   true,
		"txId": payment.TxRef,
	})
}

// StartFlutterwavePayment initializes a hosted Flutterwave payment page
func (h *PaymentHandler) StartFlutterwavePayment(c *fiber.Ctx) error {
	var req services.FlutterwaveStartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing payment details.",
		})
	}

	redirectURL, _, err := h.payments.StartFlutterwavePayment(req)
	if err != nil {
		if errors.Is(err, services.ErrMissingPaymentDetails) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing payment details.",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Flutterwave init failed",
		})
	}

	if _, ok := models.FindUseCase(req.UseCase); ok {
		_, _ = h.wizard.EnterPayment(req.UseCase)
	}

	return c.JSON(fiber.Map{
		"ok":          true,
		"redirectUrl": redirectURL,
	})
}

// HandleWebhook applies Flutterwave charge notifications
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	payment, err := h.payments.ProcessWebhook(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payment != nil && payment.Status == models.PaymentStatusCaptured {
		if _, ok := models.FindUseCase(payment.UseCase); ok {
			_, _ = h.wizard.CompletePayment(payment.UseCase, payment.TxRef)
		}
	}

	return c.JSON(fiber.Map{"received": true})
}
