package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Local development mailer. Production sets CONTACT_ENDPOINT to the email
// service's HTTPS URL.
const defaultContactEndpoint = "http://localhost:3001/send-email"

type Config struct {
	Port            string
	ContactEndpoint string
	ContactTimeout  time.Duration
	ContentFile     string
	DatabasePath    string
	AdminUsername   string
	AdminPassword   string
}

// loadConfig reads the environment. Values from a .env file are already in
// place through godotenv/autoload.
func loadConfig() Config {
	cfg := Config{
		Port:            os.Getenv("PORT"),
		ContactEndpoint: os.Getenv("CONTACT_ENDPOINT"),
		ContentFile:     os.Getenv("CONTENT_FILE"),
		DatabasePath:    os.Getenv("DATABASE_PATH"),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		ContactTimeout:  30 * time.Second,
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "portfolio.db"
	}
	if cfg.ContactEndpoint == "" {
		cfg.ContactEndpoint = defaultContactEndpoint
		log.Printf("WARNING: CONTACT_ENDPOINT not set, contact form posts to %s", cfg.ContactEndpoint)
	}
	if !strings.HasPrefix(cfg.ContactEndpoint, "https://") {
		log.Printf("WARNING: contact endpoint %s is not HTTPS", cfg.ContactEndpoint)
	}
	if v := os.Getenv("CONTACT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Ignoring invalid CONTACT_TIMEOUT %q: %v", v, err)
		} else {
			cfg.ContactTimeout = d
		}
	}

	// Default credentials for development (remove in production)
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return cfg
}
