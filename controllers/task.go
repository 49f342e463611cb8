package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecm-api/config"
	"ecm-api/models"
	"ecm-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	AssigneeUID  *int    `json:"assignee_uid"`
	RelatedEcrID *uint   `json:"related_ecr_id"`
	RelatedEcoID *uint   `json:"related_eco_id"`
	DueDate      *string `json:"due_date"`
}

// GetTasks lists tasks; by default only the caller's open items.
func GetTasks(c *gin.Context) {
	userID, _ := c.Get("userID")

	query := config.DB.Where("delete_at IS NULL")
	if c.Query("all") != "true" {
		query = query.Where("assignee_uid = ? OR creator_uid = ?", userID, userID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("due_date ASC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"total":   len(tasks),
	})
}

// CreateTask creates a task, optionally tied to an ECR or ECO.
func CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	task := models.Task{
		Title:        utils.SanitizeInput(req.Title),
		Description:  utils.SanitizeInput(req.Description),
		Status:       models.TaskStatusOpen,
		AssigneeUID:  req.AssigneeUID,
		RelatedEcrID: req.RelatedEcrID,
		RelatedEcoID: req.RelatedEcoID,
		DueDate:      req.DueDate,
		CreatorUID:   userID.(int),
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := config.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    task,
		"message": "Task created",
	})
}

// UpdateTaskStatus moves a task between open/doing/done/cancelled.
func UpdateTaskStatus(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
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
	case models.TaskStatusOpen, models.TaskStatusDoing, models.TaskStatusDone, models.TaskStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
		return
	}

	var task models.Task
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Task{}).Where("task_id = ?", taskID).Updates(map[string]interface{}{
		"status":    status,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated",
	})
}
