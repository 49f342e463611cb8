package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecm-api/config"
	"ecm-api/models"
	"ecm-api/services"
	"ecm-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EcrRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Affects     map[string]bool    `json:"affects"` // department code -> required
	Fields      []FormFieldPayload `json:"fields"`  // change-form controls as submitted
}

// FormFieldPayload is the wire shape of one form control; it maps onto
// services.FieldControl for extraction.
type FormFieldPayload struct {
	Kind     string   `json:"kind"` // text|checkbox|radio|multi-select|button
	Name     string   `json:"name"`
	Disabled bool     `json:"disabled"`
	Value    string   `json:"value"`
	Checked  bool     `json:"checked"`
	Selected []string `json:"selected"`
}

func fieldKind(kind string) (services.FieldKind, error) {
	switch kind {
	case "checkbox":
		return services.FieldCheckbox, nil
	case "radio":
		return services.FieldRadio, nil
	case "multi-select":
		return services.FieldMultiSelect, nil
	case "button", "submit", "reset":
		return services.FieldButton, nil
	case "text", "date", "select", "":
		return services.FieldText, nil
	}
	return 0, fmt.Errorf("unknown field kind '%s'", kind)
}

// extractFormPayload runs the submitted controls through the form-data
// extraction rules and returns the captured record as JSON. Nil when the
// request carried no fields, so updates without them leave stored data alone.
func extractFormPayload(fields []FormFieldPayload) (json.RawMessage, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	controls := make([]services.FieldControl, 0, len(fields))
	for _, f := range fields {
		kind, err := fieldKind(f.Kind)
		if err != nil {
			return nil, err
		}
		controls = append(controls, services.FieldControl{
			Kind:     kind,
			Name:     f.Name,
			Disabled: f.Disabled,
			Value:    f.Value,
			Checked:  f.Checked,
			Selected: f.Selected,
		})
	}

	return json.Marshal(services.ExtractFormData(controls))
}

func applyAffects(ecr *models.Ecr, affects map[string]bool) error {
	for code, required := range affects {
		if !models.IsValidDepartment(code) {
			return fmt.Errorf("unknown department '%s'", code)
		}
		switch code {
		case models.DeptIngProducto:
			ecr.AfectaIngProducto = required
		case models.DeptIngManufatura:
			ecr.AfectaIngManufatura = required
		case models.DeptHSE:
			ecr.AfectaHSE = required
		case models.DeptCalidad:
			ecr.AfectaCalidad = required
		case models.DeptCompras:
			ecr.AfectaCompras = required
		case models.DeptSQA:
			ecr.AfectaSQA = required
		case models.DeptTooling:
			ecr.AfectaTooling = required
		case models.DeptLogistica:
			ecr.AfectaLogistica = required
		case models.DeptFinanciero:
			ecr.AfectaFinanciero = required
		case models.DeptComercial:
			ecr.AfectaComercial = required
		case models.DeptMantenimiento:
			ecr.AfectaMantenimiento = required
		case models.DeptProduccion:
			ecr.AfectaProduccion = required
		case models.DeptCalidadCliente:
			ecr.AfectaCalidadCliente = required
		}
	}
	return nil
}

func newEcrNumber() string {
	return fmt.Sprintf("ECR-%s-%s", time.Now().Format("200601"), strings.ToUpper(uuid.NewString()[:8]))
}

// GetEcrs lists ECRs, optionally filtered by status or creator.
func GetEcrs(c *gin.Context) {
	query := config.DB.Preload("Approvals").Where("delete_at IS NULL")

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if mine := c.Query("mine"); mine == "true" {
		userID, _ := c.Get("userID")
		query = query.Where("creator_uid = ?", userID)
	}

	var ecrs []models.Ecr
	if err := query.Order("update_at DESC").Find(&ecrs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ECRs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ecrs":    ecrs,
		"total":   len(ecrs),
	})
}

// GetEcr returns one ECR with its approvals.
func GetEcr(c *gin.Context) {
	ecrID, err := strconv.Atoi(c.Param("id"))
	if err != nil || ecrID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECR ID"})
		return
	}

	var ecr models.Ecr
	if err := config.DB.Preload("Approvals").Preload("Creator").
		Where("ecr_id = ? AND delete_at IS NULL", ecrID).
		First(&ecr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ECR not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ecr":     ecr,
	})
}

// CreateEcr creates a new ECR in draft state.
func CreateEcr(c *gin.Context) {
	var req EcrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := c.Get("userID")

	now := time.Now()
	ecr := models.Ecr{
		EcrNumber:   newEcrNumber(),
		Title:       utils.SanitizeInput(req.Title),
		Description: utils.SanitizeInput(req.Description),
		Status:      models.EcrStatusDraft,
		CreatorUID:  userID.(int),
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := applyAffects(&ecr, req.Affects); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	formData, err := extractFormPayload(req.Fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ecr.FormData = formData

	if err := config.DB.Create(&ecr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ECR"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"ecr":     ecr,
		"message": "ECR created",
	})
}

// UpdateEcr edits title, description or affected departments. Only the
// creator or an admin may edit, and only while the workflow is still open.
func UpdateEcr(c *gin.Context) {
	ecrID, err := strconv.Atoi(c.Param("id"))
	if err != nil || ecrID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECR ID"})
		return
	}

	var req EcrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := c.Get("userID")
	role, _ := c.Get("role")

	var ecr models.Ecr
	if err := config.DB.Where("ecr_id = ? AND delete_at IS NULL", ecrID).First(&ecr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ECR not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECR"})
		return
	}

	if ecr.CreatorUID != userID.(int) && role.(string) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an admin may edit this ECR"})
		return
	}
	if ecr.Status == models.EcrStatusApproved || ecr.Status == models.EcrStatusRejected {
		c.JSON(http.StatusConflict, gin.H{"error": "ECR workflow is already finalized"})
		return
	}

	now := time.Now()
	ecr.Title = utils.SanitizeInput(req.Title)
	ecr.Description = utils.SanitizeInput(req.Description)
	ecr.UpdateAt = &now
	if err := applyAffects(&ecr, req.Affects); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	formData, err := extractFormPayload(req.Fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if formData != nil {
		ecr.FormData = formData
	}

	if err := config.DB.Save(&ecr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ECR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ecr":     ecr,
		"message": "ECR updated",
	})
}

// SubmitEcr moves a draft ECR into the approval workflow.
func SubmitEcr(c *gin.Context) {
	ecrID, err := strconv.Atoi(c.Param("id"))
	if err != nil || ecrID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECR ID"})
		return
	}

	userID, _ := c.Get("userID")
	role, _ := c.Get("role")

	var ecr models.Ecr
	if err := config.DB.Where("ecr_id = ? AND delete_at IS NULL", ecrID).First(&ecr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ECR not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ECR"})
		return
	}

	if ecr.CreatorUID != userID.(int) && role.(string) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an admin may submit this ECR"})
		return
	}
	if ecr.Status != models.EcrStatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft ECRs can be submitted"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    models.EcrStatusPending,
		"update_at": now,
	}
	if err := config.DB.Model(&models.Ecr{}).Where("ecr_id = ?", ecrID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit ECR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ECR submitted for approval",
	})
}

// DeleteEcr soft-deletes an ECR. Admin only; routed behind RequireRole.
func DeleteEcr(c *gin.Context) {
	ecrID, err := strconv.Atoi(c.Param("id"))
	if err != nil || ecrID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ECR ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Ecr{}).
		Where("ecr_id = ? AND delete_at IS NULL", ecrID).
		Update("delete_at", now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ECR"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "ECR not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ECR deleted",
	})
}
