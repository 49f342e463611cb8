package controllers

import (
	"net/http"

	"ecm-api/config"
	"ecm-api/models"

	"github.com/gin-gonic/gin"
)

type statusCount struct {
	Status string `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:count" json:"count"`
}

// GetDashboardStats returns headline counts for the signed-in user's view.
func GetDashboardStats(c *gin.Context) {
	userID, _ := c.Get("userID")

	var ecrByStatus []statusCount
	if err := config.DB.Model(&models.Ecr{}).
		Select("status, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&ecrByStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECR stats"})
		return
	}

	var myEcrs int64
	if err := config.DB.Model(&models.Ecr{}).
		Where("creator_uid = ? AND delete_at IS NULL", userID).
		Count(&myEcrs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECR stats"})
		return
	}

	var openTasks int64
	if err := config.DB.Model(&models.Task{}).
		Where("assignee_uid = ? AND status IN ? AND delete_at IS NULL",
			userID, []string{models.TaskStatusOpen, models.TaskStatusDoing}).
		Count(&openTasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task stats"})
		return
	}

	var openEcos int64
	if err := config.DB.Model(&models.Eco{}).
		Where("status IN ? AND delete_at IS NULL",
			[]string{models.EcoStatusOpen, models.EcoStatusInProgress}).
		Count(&openEcos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECO stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"ecr_by_status": ecrByStatus,
			"my_ecrs":       myEcrs,
			"open_tasks":    openTasks,
			"open_ecos":     openEcos,
		},
	})
}
