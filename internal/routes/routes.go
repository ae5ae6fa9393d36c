package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/handlers"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/middleware"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/services"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	app *fiber.App,
	cfg *config.Config,
	store storage.Store,
	wizard *services.WizardService,
	sender *services.SendService,
	payments *services.PaymentService,
	chat *services.ChatService,
) {
	bulkSMSHandler := handlers.NewBulkSMSHandler(wizard, sender, store)
	paymentHandler := handlers.NewPaymentHandler(payments, wizard)
	chatHandler := handlers.NewChatHandler(chat)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to KABS Promotions Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":   "/health",
				"api":      "/api",
				"bulk_sms": "/api/bulk-sms",
				"chat":     "/api/chat",
				"webhook":  "/webhook/flutterwave",
			},
		})
	})

	app.Get("/health", healthHandler.Check)

	// API routes
	api := app.Group("/api")

	// Bulk SMS campaign wizard
	bulk := api.Group("/bulk-sms")
	bulk.Get("/usecases", bulkSMSHandler.ListUseCases)
	bulk.Get("/:useCase/draft", bulkSMSHandler.GetDraft)
	bulk.Put("/:useCase/draft", bulkSMSHandler.SaveDraft)
	bulk.Post("/:useCase/draft/reset", bulkSMSHandler.ResetDraft)
	bulk.Post("/:useCase/recipients", bulkSMSHandler.ImportRecipients)
	bulk.Get("/:useCase/estimate", bulkSMSHandler.GetEstimate)
	bulk.Post("/:useCase/confirm", bulkSMSHandler.Confirm)
	bulk.Post("/:useCase/back", bulkSMSHandler.Back)
	bulk.Get("/:useCase/reports", bulkSMSHandler.GetReports)

	bulk.Post("/pay", paymentHandler.ProcessPayment)
	bulk.Post("/pay/flutterwave/start", paymentHandler.StartFlutterwavePayment)
	bulk.Post("/send", bulkSMSHandler.Send)

	// Chat assistant
	api.Post("/chat", chatHandler.HandleChat)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Flutterwave webhook - ENVIRONMENT-AWARE VALIDATION
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip validation for local testing
		webhooks.Post("/flutterwave", paymentHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  Flutterwave webhook validation DISABLED for development")
		}
	} else {
		// Production: validate webhook signature
		webhooks.Post("/flutterwave", middleware.ValidateFlutterwaveSignature(cfg.FlwVerifHash), paymentHandler.HandleWebhook)
	}
}
