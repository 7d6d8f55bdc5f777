package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"nutrilens/pkg/openfoodfacts"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func setupRoutes(r *gin.Engine) {
	r.Use(requestIDMiddleware(), corsMiddleware())

	r.GET("/health", healthHandler)
	r.GET("/health/db", healthDBHandler)

	v1 := r.Group("/v1")
	v1.GET("/info", infoHandler)

	auth := v1.Group("/auth")
	auth.POST("/signup", signupHandler)
	auth.POST("/login", loginHandler)
	auth.POST("/refresh", refreshHandler)
	auth.POST("/logout", bearerAuthMiddleware(), logoutHandler)

	protected := v1.Group("")
	protected.Use(bearerAuthMiddleware())
	protected.POST("/scans", createScanHandler)
	protected.GET("/scans/:id", getScanHandler)
	protected.GET("/scans/user/:userId", listUserScansHandler)
	protected.GET("/pantry", listPantryHandler)
	protected.POST("/pantry", addPantryItemHandler)
	protected.GET("/products/search", searchProductsHandler)
	protected.GET("/products/:barcode", getProductHandler)
}

// requestIDMiddleware attaches a correlation id to every request, honoring a
// caller-supplied X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("requestId", rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.CORSOrigins)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// bearerAuthMiddleware verifies the access token from the Authorization
// header and stores the caller identity in the request context. Validation
// is signature + expiry only; no database round-trip.
func bearerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractBearer(c.GetHeader("Authorization"))
		if raw == "" {
			failRequest(c, CodeUnauthorized, "No authentication token provided", nil)
			c.Abort()
			return
		}
		claims, err := codec.VerifyAccess(raw)
		if err != nil {
			failRequest(c, CodeInvalidToken, "Invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Set("userID", claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func extractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func requestID(c *gin.Context) string {
	return c.GetString("requestId")
}

// failRequest writes the uniform error body for a known code.
func failRequest(c *gin.Context, code, message string, details map[string]any) {
	body := gin.H{
		"success":   false,
		"error":     code,
		"message":   message,
		"requestId": requestID(c),
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(statusFor(code), body)
}

// respondError maps a service error to the wire. Unexpected errors are
// logged with full detail and surfaced as an opaque SERVER_ERROR.
func respondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		failRequest(c, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	log.Printf("request %s failed: %v", requestID(c), err)
	failRequest(c, CodeServerError, "An unexpected error occurred", nil)
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success":   true,
		"message":   message,
		"data":      data,
		"requestId": requestID(c),
	})
}

func signupHandler(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failRequest(c, CodeValidation, "Invalid request body", nil)
		return
	}
	in.IP = c.ClientIP()
	res, err := svc.Signup(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Account created successfully", res)
}

func loginHandler(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failRequest(c, CodeValidation, "Invalid request body", nil)
		return
	}
	in.IP = c.ClientIP()
	res, err := svc.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Login successful", res)
}

func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failRequest(c, CodeValidation, "Invalid request body", nil)
		return
	}
	res, err := svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Token refreshed successfully", res)
}

func logoutHandler(c *gin.Context) {
	// body is optional: logout without a refresh token still succeeds
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.ShouldBindJSON(&req)
	userID := c.GetString("userID")
	if err := svc.Logout(c.Request.Context(), userID, req.RefreshToken, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Logout successful",
		"requestId": requestID(c),
	})
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": requestID(c),
	})
}

func healthDBHandler(c *gin.Context) {
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "DATABASE_ERROR",
			"message":   "Database connection failed",
			"requestId": requestID(c),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": requestID(c),
	})
}

func infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"api":       "NutriLens Backend API",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": requestID(c),
	})
}

func getProductHandler(c *gin.Context) {
	product, err := off.ByBarcode(c.Request.Context(), c.Param("barcode"))
	if errors.Is(err, openfoodfacts.ErrNotFound) {
		failRequest(c, CodeNotFound, "Product not found", nil)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Product found", product)
}

func searchProductsHandler(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		failRequest(c, CodeValidation, "Query parameter q is required", nil)
		return
	}
	products, err := off.SearchByName(c.Request.Context(), q, c.Query("country"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Search results", products)
}
