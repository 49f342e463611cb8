package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecm-api/config"
	"ecm-api/models"
	"ecm-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EcoRequest struct {
	EcrID         *uint   `json:"ecr_id"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	ImplementedBy string  `json:"implemented_by"`
	TargetDate    *string `json:"target_date"`
}

func newEcoNumber() string {
	return fmt.Sprintf("ECO-%s-%s", time.Now().Format("200601"), strings.ToUpper(uuid.NewString()[:8]))
}

// GetEcos lists change orders, optionally filtered by status.
func GetEcos(c *gin.Context) {
	query := config.DB.Preload("Ecr").Where("delete_at IS NULL")
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var ecos []models.Eco
	if err := query.Order("update_at DESC").Find(&ecos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ECOs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ecos":    ecos,
		"total":   len(ecos),
	})
}

// CreateEco raises a change order, usually from an approved ECR.
func CreateEco(c *gin.Context) {
	var req EcoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.EcrID != nil {
		var ecr models.Ecr
		if err := config.DB.Where("ecr_id = ? AND delete_at IS NULL", *req.EcrID).First(&ecr).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced ECR not found"})
			return
		}
		if ecr.Status != models.EcrStatusApproved {
			c.JSON(http.StatusConflict, gin.H{"error": "ECO can only be raised from an approved ECR"})
			return
		}
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	eco := models.Eco{
		EcoNumber:     newEcoNumber(),
		EcrID:         req.EcrID,
		Title:         utils.SanitizeInput(req.Title),
		Description:   utils.SanitizeInput(req.Description),
		Status:        models.EcoStatusOpen,
		ImplementedBy: utils.SanitizeInput(req.ImplementedBy),
		TargetDate:    req.TargetDate,
		CreatorUID:    userID.(int),
		CreateAt:      &now,
		UpdateAt:      &now,
	}

	if err := config.DB.Create(&eco).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ECO"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"eco":     eco,
		"message": "ECO created",
	})
}

// UpdateEcoStatus advances an ECO through its lifecycle.
func UpdateEcoStatus(c *gin.Context) {
	ecoID, err := strconv.Atoi(c.Param("id"))
	if err != nil || ecoID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECO ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case models.EcoStatusOpen, models.EcoStatusInProgress, models.EcoStatusCompleted, models.EcoStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECO status"})
		return
	}

	var eco models.Eco
	if err := config.DB.Where("eco_id = ? AND delete_at IS NULL", ecoID).First(&eco).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ECO not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECO"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    status,
		"update_at": now,
	}
	if status == models.EcoStatusCompleted {
		updates["completion_date"] = now.Format("2006-01-02")
	}

	if err := config.DB.Model(&models.Eco{}).Where("eco_id = ?", ecoID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ECO"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ECO updated",
	})
}
