package main

import (
	"log"
	"os"
	"strings"

	"nutrilens/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema sync with env DB_AUTO_MIGRATE (default true). Permission
	// errors are logged and ignored so a restricted runtime role still boots.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.AuthToken{}); err != nil {
			log.Printf("migration warning (auth_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.ConsentRecord{}); err != nil {
			log.Printf("migration warning (consent_records): %v", err)
		}
		if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
			log.Printf("migration warning (audit_logs): %v", err)
		}
		if err := db.AutoMigrate(&models.Scan{}); err != nil {
			log.Printf("migration warning (scans): %v", err)
		}
		if err := db.AutoMigrate(&models.PantryItem{}); err != nil {
			log.Printf("migration warning (pantry_items): %v", err)
		}
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	if err := os.MkdirAll(cfg.UploadBase, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", cfg.UploadBase, err)
	}
}
