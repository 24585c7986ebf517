package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := loadConfig()

	content, err := loadContent(cfg.ContentFile)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}

	db, err := openDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	adm := newAdmin(db, cfg.AdminUsername, cfg.AdminPassword)
	// Clean up old tracking data for privacy compliance (run in background)
	go adm.cleanupOldData()

	r := newRouter(&site{
		content: content,
		sender:  NewEmailClient(cfg.ContactEndpoint, cfg.ContactTimeout),
		admin:   adm,
		display: DefaultNotificationDisplay,
	})

	log.Printf("Portfolio listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
