package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// For Cloud Run with Cloud SQL
	socketDir := "/cloudsql"

	var dsn string
	if cfg.InstanceConnectionName != "" {
		// Production: Connect via Unix socket
		dsn = fmt.Sprintf("host=%s/%s user=%s password=%s dbname=%s sslmode=disable",
			socketDir, cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
		log.Printf("Connecting to Cloud SQL via socket: %s", cfg.InstanceConnectionName)
	} else {
		// Local development: Connect via TCP
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)
		log.Println("Connecting to local PostgreSQL")
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		panic(err)
	}

	log.Println("✅ Database connected successfully!")
}
