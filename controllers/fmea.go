package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecm-api/config"
	"ecm-api/models"
	"ecm-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FmeaRequest struct {
	Title      string `json:"title" binding:"required"`
	Process    string `json:"process"`
	PartNumber string `json:"part_number"`
	Revision   string `json:"revision"`
}

type FmeaItemRequest struct {
	FailureMode   string `json:"failure_mode" binding:"required"`
	FailureEffect string `json:"failure_effect"`
	FailureCause  string `json:"failure_cause"`
	Controls      string `json:"controls"`
	Severity      int    `json:"severity" binding:"required,min=1,max=10"`
	Occurrence    int    `json:"occurrence" binding:"required,min=1,max=10"`
	Detection     int    `json:"detection" binding:"required,min=1,max=10"`
	Actions       string `json:"actions"`
}

// GetFmeas lists FMEA documents.
func GetFmeas(c *gin.Context) {
	var fmeas []models.Fmea
	if err := config.DB.Where("delete_at IS NULL").Order("update_at DESC").Find(&fmeas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FMEA documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"fmeas":   fmeas,
		"total":   len(fmeas),
	})
}

// GetFmea returns one FMEA with its items, sorted by RPN descending.
func GetFmea(c *gin.Context) {
	fmeaID, err := strconv.Atoi(c.Param("id"))
	if err != nil || fmeaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid FMEA ID"})
		return
	}

	var fmea models.Fmea
	if err := config.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("rpn DESC")
	}).Where("fmea_id = ? AND delete_at IS NULL", fmeaID).First(&fmea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "FMEA not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load FMEA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"fmea":    fmea,
	})
}

// CreateFmea creates an FMEA document header.
func CreateFmea(c *gin.Context) {
	var req FmeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	fmea := models.Fmea{
		Title:      utils.SanitizeInput(req.Title),
		Process:    utils.SanitizeInput(req.Process),
		PartNumber: utils.SanitizeInput(req.PartNumber),
		Revision:   utils.SanitizeInput(req.Revision),
		CreatorUID: userID.(int),
		CreateAt:   &now,
		UpdateAt:   &now,
	}

	if err := config.DB.Create(&fmea).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create FMEA"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"fmea":    fmea,
		"message": "FMEA created",
	})
}

// AddFmeaItem appends a failure-mode row to an FMEA document.
func AddFmeaItem(c *gin.Context) {
	fmeaID, err := strconv.Atoi(c.Param("id"))
	if err != nil || fmeaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid FMEA ID"})
		return
	}

	var req FmeaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var fmea models.Fmea
	if err := config.DB.Where("fmea_id = ? AND delete_at IS NULL", fmeaID).First(&fmea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "FMEA not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load FMEA"})
		return
	}

	now := time.Now()
	item := models.FmeaItem{
		FmeaID:        uint(fmeaID),
		FailureMode:   utils.SanitizeInput(req.FailureMode),
		FailureEffect: utils.SanitizeInput(req.FailureEffect),
		FailureCause:  utils.SanitizeInput(req.FailureCause),
		Controls:      utils.SanitizeInput(req.Controls),
		Severity:      req.Severity,
		Occurrence:    req.Occurrence,
		Detection:     req.Detection,
		Actions:       utils.SanitizeInput(req.Actions),
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	item.ComputeRPN()

	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add FMEA item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"item":    item,
		"message": "FMEA item added",
	})
}
