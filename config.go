package main

import (
	"os"
	"strconv"
	"time"

	"nutrilens/pkg/password"
)

// Config holds all runtime settings read once at startup. Core logic never
// reads the environment directly; the relevant slices of this struct are
// injected at construction time.
type Config struct {
	Port          string
	DBDSN         string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Password      password.Policy
	UploadBase    string
	CORSOrigins   string
}

func loadConfig() Config {
	cfg := Config{
		Port:          envOr("PORT", "3000"),
		DBDSN:         os.Getenv("DB_DSN"),
		AccessSecret:  os.Getenv("JWT_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:     time.Duration(envInt("JWT_EXPIRATION", 3600)) * time.Second,
		RefreshTTL:    time.Duration(envInt("JWT_REFRESH_EXPIRATION", 7*24*3600)) * time.Second,
		Password: password.Policy{
			MinLength:          envInt("PASSWORD_MIN_LENGTH", 8),
			RequireUppercase:   envBool("PASSWORD_REQUIRE_UPPERCASE"),
			RequireNumber:      envBool("PASSWORD_REQUIRE_NUMBER"),
			RequireSpecialChar: envBool("PASSWORD_REQUIRE_SPECIAL_CHAR"),
			Cost:               envInt("BCRYPT_ROUNDS", 10),
		},
		UploadBase:  envOr("UPLOAD_BASE", "uploads"),
		CORSOrigins: envOr("CORS_ORIGIN", "*"),
	}
	if cfg.AccessSecret == "" {
		cfg.AccessSecret = "dev-insecure-secret-change" // development fallback
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret + "-refresh"
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}
