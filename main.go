package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/md2563430-netizen/KABS-WEBSITE/database"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/jobs"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/routes"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/services"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize storage
	var store storage.Store

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect(cfg)

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&storage.DraftRecord{},
			&storage.PaymentRecord{},
			&storage.SendReportRecord{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Initialize SMS dispatch. Twilio is optional; without credentials
	// the send service runs the simulated provider.
	var smsSender services.SMSSender
	if cfg.SMSProvider == "twilio" {
		twilioService, err := services.NewTwilioService(cfg)
		if err != nil {
			log.Println("⚠️  Twilio not configured - falling back to simulated sends")
		} else {
			smsSender = twilioService
			log.Println("✅ Twilio service initialized")
		}
	}

	// Initialize all services
	wizardService := services.NewWizardService(store)
	sendService := services.NewSendService(store, smsSender, cfg.SMSProvider)
	paymentService := services.NewPaymentService(store, cfg)
	chatService := services.NewChatService(cfg)

	// Start the scheduled-campaign dispatcher
	campaignJob := jobs.NewScheduledCampaignJob(store, sendService, wizardService)
	campaignJob.Start()

	log.Println("✅ All services initialized and scheduled jobs started")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "KABS Promotions Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, cfg, store, wizardService, sendService, paymentService, chatService)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping scheduled jobs...")
		campaignJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 KABS Promotions Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("📱 SMS provider: %s", smsProvider(cfg, smsSender))
	log.Printf("🤖 Chat: %s", chatMode(cfg))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func smsProvider(cfg *config.Config, sender services.SMSSender) string {
	if cfg.SMSProvider == "twilio" && sender != nil {
		return "Twilio"
	}
	return "Simulated"
}

func chatMode(cfg *config.Config) string {
	if cfg.OpenAIAPIKey == "" {
		return "Canned replies (no API key)"
	}
	return "OpenAI (" + cfg.OpenAIModel + ")"
}
