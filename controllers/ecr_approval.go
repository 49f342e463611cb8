package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ecm-api/config"
	"ecm-api/services"

	"github.com/gin-gonic/gin"
)

type DecisionRequest struct {
	Department string `json:"department" binding:"required"`
	Decision   string `json:"decision" binding:"required"`
	Comment    string `json:"comment"`
}

func callerFromContext(c *gin.Context) *services.Caller {
	userID, exists := c.Get("userID")
	if !exists {
		return nil
	}
	email, _ := c.Get("email")
	name, _ := c.Get("name")
	sector, _ := c.Get("sector")
	role, _ := c.Get("role")
	isSuperAdmin, _ := c.Get("isSuperAdmin")

	caller := &services.Caller{UserID: userID.(int)}
	if v, ok := email.(string); ok {
		caller.Email = v
	}
	if v, ok := name.(string); ok {
		caller.Name = v
	}
	if v, ok := sector.(string); ok {
		caller.Sector = v
	}
	if v, ok := role.(string); ok {
		caller.Role = v
	}
	if v, ok := isSuperAdmin.(bool); ok {
		caller.IsSuperAdmin = v
	}
	return caller
}

// PostEcrDecision records one department's decision on an ECR.
func PostEcrDecision(c *gin.Context) {
	ecrID, err := strconv.Atoi(c.Param("id"))
	if err != nil || ecrID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECR ID"})
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.ApprovalInput{
		EcrID:      uint(ecrID),
		Department: strings.ToLower(strings.TrimSpace(req.Department)),
		Decision:   strings.ToLower(strings.TrimSpace(req.Decision)),
		Comment:    strings.TrimSpace(req.Comment),
	}

	service := services.NewEcrApprovalService(config.DB)
	result, err := service.RecordApproval(c.Request.Context(), input, callerFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		case errors.Is(err, services.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ECR not found"})
		case errors.Is(err, services.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to decide for this department"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record decision"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        result.Message,
		"status":         result.NewStatus,
		"status_changed": result.StatusChanged,
	})
}
