package main

import (
	"net/http"

	"nutrilens/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func listPantryHandler(c *gin.Context) {
	userID := c.GetString("userID")
	// userId query param kept for client compatibility; only self is allowed
	if q := c.Query("userId"); q != "" && q != userID {
		failRequest(c, CodeUnauthorized, "Cannot access another user's pantry", nil)
		return
	}
	var items []models.PantryItem
	err := db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Pantry items", items)
}

func addPantryItemHandler(c *gin.Context) {
	userID := c.GetString("userID")
	var req struct {
		Name         string  `json:"name"`
		Quantity     string  `json:"quantity"`
		SourceScanID *string `json:"sourceScanId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || sanitize(req.Name) == "" {
		failRequest(c, CodeValidation, "Item name is required", nil)
		return
	}
	item := models.PantryItem{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         sanitize(req.Name),
		Quantity:     sanitize(req.Quantity),
		SourceScanID: req.SourceScanID,
	}
	if err := db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		if isUniqueConstraintError(err) {
			failRequest(c, CodeValidation, "Item already in pantry", nil)
			return
		}
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Item added", item)
}
