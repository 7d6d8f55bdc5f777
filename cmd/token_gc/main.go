// Command token_gc deletes refresh-token records past their expiry and
// audit rows older than the retention window. Liveness checks never depend
// on this job; it only bounds storage growth. Run it from cron.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"nutrilens/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	auditRetention := flag.Duration("audit-retention", 180*24*time.Hour, "delete audit rows older than this")
	dryRun := flag.Bool("dry-run", false, "report counts without deleting")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	now := time.Now()
	if *dryRun {
		var tokens, audits int64
		db.Model(&models.AuthToken{}).Where("expires_at < ?", now).Count(&tokens)
		db.Model(&models.AuditLog{}).Where("created_at < ?", now.Add(-*auditRetention)).Count(&audits)
		log.Printf("dry-run: would delete %d expired tokens, %d old audit rows", tokens, audits)
		return
	}

	res := db.Where("expires_at < ?", now).Delete(&models.AuthToken{})
	if res.Error != nil {
		log.Fatalf("failed to delete expired tokens: %v", res.Error)
	}
	log.Printf("deleted %d expired auth tokens", res.RowsAffected)

	res = db.Where("created_at < ?", now.Add(-*auditRetention)).Delete(&models.AuditLog{})
	if res.Error != nil {
		log.Fatalf("failed to delete old audit rows: %v", res.Error)
	}
	log.Printf("deleted %d audit rows older than %s", res.RowsAffected, *auditRetention)
}
