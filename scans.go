package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"nutrilens/models"
	"nutrilens/pkg/extract"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxScanImageBytes = 10 * 1024 * 1024
	maxScanImageWidth = 1600
)

type scanResponse struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	ImageURL             string    `json:"imageUrl"`
	RawOcrText           string    `json:"rawOcrText"`
	ExtractedIngredients []string  `json:"extractedIngredients"`
	CreatedAt            time.Time `json:"createdAt"`
}

func toScanResponse(s *models.Scan) scanResponse {
	var ingredients []string
	if err := json.Unmarshal([]byte(s.Ingredients), &ingredients); err != nil {
		ingredients = []string{}
	}
	return scanResponse{
		ID:                   s.ID,
		UserID:               s.UserID,
		ImageURL:             "/uploads/" + s.ImagePath,
		RawOcrText:           s.RawText,
		ExtractedIngredients: ingredients,
		CreatedAt:            s.CreatedAt,
	}
}

// createScanHandler ingests a label photo: the image is decoded, bounded to
// a sane width, re-encoded as JPEG under the upload base, and an extraction
// pass fills the ingredient list.
func createScanHandler(c *gin.Context) {
	userID := c.GetString("userID")
	file, err := c.FormFile("image")
	if err != nil {
		failRequest(c, CodeValidation, "Image file is required", nil)
		return
	}
	if file.Size > maxScanImageBytes {
		failRequest(c, CodeValidation, "Image too large (max 10MB)", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		failRequest(c, CodeValidation, "Unsupported image format", nil)
		return
	}
	if img.Bounds().Dx() > maxScanImageWidth {
		img = imaging.Resize(img, maxScanImageWidth, 0, imaging.Lanczos)
	}

	scanID := uuid.NewString()
	relPath := filepath.Join("scans", scanID+".jpg")
	fullPath := filepath.Join(cfg.UploadBase, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		respondError(c, err)
		return
	}
	if err := imaging.Save(img, fullPath, imaging.JPEGQuality(85)); err != nil {
		respondError(c, fmt.Errorf("save scan image: %w", err))
		return
	}

	scan := models.Scan{
		ID:          scanID,
		UserID:      userID,
		ImagePath:   relPath,
		ContentType: "image/jpeg",
	}
	rawText, ingredients, err := extract.IngredientsFromImage(fullPath)
	if err != nil {
		// keep the record so the background processor can retry
		scan.Failed = true
		scan.FailedReason = err.Error()
		log.Printf("scan %s extraction failed: %v", scanID, err)
	} else {
		encoded, _ := json.Marshal(ingredients)
		scan.RawText = rawText
		scan.Ingredients = string(encoded)
	}
	if err := db.WithContext(c.Request.Context()).Create(&scan).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Scan created", toScanResponse(&scan))
}

func getScanHandler(c *gin.Context) {
	userID := c.GetString("userID")
	var scan models.Scan
	err := db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		First(&scan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		failRequest(c, CodeNotFound, "Scan not found", nil)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if scan.UserID != userID {
		failRequest(c, CodeNotFound, "Scan not found", nil) // no ownership oracle
		return
	}
	respondData(c, http.StatusOK, "Scan found", toScanResponse(&scan))
}

func listUserScansHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if c.Param("userId") != userID {
		failRequest(c, CodeUnauthorized, "Cannot access another user's scans", nil)
		return
	}
	var scans []models.Scan
	err := db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at desc").Limit(100).
		Find(&scans).Error
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]scanResponse, 0, len(scans))
	for i := range scans {
		out = append(out, toScanResponse(&scans[i]))
	}
	respondData(c, http.StatusOK, "Scans found", out)
}
