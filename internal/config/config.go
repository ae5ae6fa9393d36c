package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every environment-driven setting in one place.
// godotenv is loaded by main before this is processed.
type Config struct {
	Port           string `env:"PORT,default=8080"`
	UseMemoryStore bool   `env:"USE_MEMORY_STORE,default=false"`

	// Database
	DBUser string `env:"DB_USER,default=postgres"`
	DBPass string `env:"DB_PASS"`
	DBName string `env:"DB_NAME,default=kabs"`
	DBHost string `env:"DB_HOST,default=localhost"`
	DBPort string `env:"DB_PORT,default=5432"`

	// Cloud SQL socket connection (set on Cloud Run)
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	// SMS dispatch: "simulated" (default) or "twilio"
	SMSProvider      string `env:"SMS_PROVIDER,default=simulated"`
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_PHONE_NUMBER"`

	// Chat assistant
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4o-mini"`

	// Flutterwave hosted payments
	FlwSecretKey string `env:"FLW_SECRET_KEY"`
	FlwVerifHash string `env:"FLW_VERIF_HASH"`

	// Public base URL used for payment redirects
	BaseURL string `env:"BASE_URL,default=http://localhost:3000"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return cfg, nil
}
