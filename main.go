package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nutrilens/pkg/openfoodfacts"
	"nutrilens/pkg/tokens"

	"github.com/gin-gonic/gin"
)

var (
	cfg   Config
	codec *tokens.Codec
	svc   *AuthService
	off   *openfoodfacts.Client
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	cfg = loadConfig()
	codec = tokens.NewCodec([]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret), cfg.AccessTTL, cfg.RefreshTTL)
	off = openfoodfacts.NewClient("")

	// Support a lightweight migrate command: `./nutrilens migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration completed")
		return
	}

	initDB()
	svc = NewAuthService(
		&gormUserStore{db: db},
		&gormTokenStore{db: db},
		&gormConsentStore{db: db},
		&gormAuditStore{db: db},
		codec,
		cfg.Password,
	)

	r := gin.Default()

	setupRoutes(r)

	r.Run(":" + cfg.Port)
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
