package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ValidateFlutterwaveSignature checks the verif-hash header Flutterwave
// sends with every webhook against the configured secret hash.
func ValidateFlutterwaveSignature(secretHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("verif-hash")
		if signature == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Missing webhook signature",
			})
		}

		if secretHash == "" {
			// Log error but don't expose to client
			log.Println("ERROR: FLW_VERIF_HASH not set")
			return c.Status(500).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		if subtle.ConstantTimeCompare([]byte(signature), []byte(secretHash)) != 1 {
			return c.Status(401).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}
