package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ecm-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Caller is the identity of the user submitting a decision, as resolved by
// the auth middleware.
type Caller struct {
	UserID       int
	Email        string
	Name         string
	Sector       string
	Role         string
	IsSuperAdmin bool
}

// ApprovalInput is one department's decision on one ECR.
type ApprovalInput struct {
	EcrID      uint
	Department string
	Decision   string
	Comment    string
}

// ApprovalResult reports the outcome of a recorded decision. Message doubles
// as the toast text shown to the acting user.
type ApprovalResult struct {
	StatusChanged bool
	NewStatus     string
	Message       string
}

// EcrApprovalService records departmental decisions on ECRs and keeps the
// overall status consistent under concurrent approvers.
type EcrApprovalService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewEcrApprovalService(db *gorm.DB) *EcrApprovalService {
	return &EcrApprovalService{db: db, notifier: NewNotificationService(db)}
}

func validDecision(decision string) bool {
	switch decision {
	case models.DecisionApproved, models.DecisionRejected, models.DecisionStandBy:
		return true
	}
	return false
}

// RecordApproval applies one department's decision in a single transactional
// read-modify-write. Authorization runs inside the transaction, against the
// freshest record state, so a revoked permission cannot slip through a stale
// pre-read. The whole body re-runs on serialization conflicts via
// RunInTxWithRetry, which is what keeps two near-simultaneous approvers from
// both missing each other's entry.
//
// Post-commit notification to the ECR creator is best effort: its failure is
// logged and never surfaced as the operation's result.
func (s *EcrApprovalService) RecordApproval(ctx context.Context, input ApprovalInput, caller *Caller) (*ApprovalResult, error) {
	if caller == nil || caller.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if input.EcrID == 0 || input.Department == "" || input.Decision == "" {
		return nil, fmt.Errorf("%w: ecr id, department and decision are required", ErrInvalidArgument)
	}
	if !models.IsValidDepartment(input.Department) {
		return nil, fmt.Errorf("%w: unknown department %q", ErrInvalidArgument, input.Department)
	}
	if !validDecision(input.Decision) {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidArgument, input.Decision)
	}

	var (
		prevStatus    string
		newStatus     string
		statusChanged bool
		creatorUID    int
	)

	err := RunInTxWithRetry(s.db.WithContext(ctx), defaultTxAttempts, func(tx *gorm.DB) error {
		var ecr models.Ecr
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ecr_id = ? AND delete_at IS NULL", input.EcrID).
			First(&ecr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ecr %d", ErrNotFound, input.EcrID)
			}
			return fmt.Errorf("failed to load ecr %d: %w", input.EcrID, err)
		}

		// Re-checked on every retry so the decision is authorized against
		// the state the write will actually land on.
		if caller.Sector != input.Department && caller.Role != models.RoleAdmin && !caller.IsSuperAdmin {
			return fmt.Errorf("%w: sector %q may not decide for %q", ErrPermissionDenied, caller.Sector, input.Department)
		}

		var approvals []models.EcrApproval
		if err := tx.Where("ecr_id = ?", input.EcrID).Find(&approvals).Error; err != nil {
			return fmt.Errorf("failed to load approvals for ecr %d: %w", input.EcrID, err)
		}

		now := time.Now()
		entry := models.EcrApproval{
			EcrID:      input.EcrID,
			Department: input.Department,
			Status:     input.Decision,
			UserName:   caller.Name,
			Date:       now.Format("2006-01-02"),
			Comment:    input.Comment,
			CreateAt:   &now,
			UpdateAt:   &now,
		}

		// Working copy with the incoming entry merged in; the evaluator
		// sees the state as it will exist after this write.
		merged := make([]models.EcrApproval, 0, len(approvals)+1)
		replaced := false
		for _, a := range approvals {
			if a.Department == input.Department {
				merged = append(merged, entry)
				replaced = true
				continue
			}
			merged = append(merged, a)
		}
		if !replaced {
			merged = append(merged, entry)
		}

		prevStatus = ecr.Status
		creatorUID = ecr.CreatorUID
		newStatus, statusChanged = EvaluateEcrStatus(&ecr, merged, input.Decision)

		// A department that decides again overwrites its previous entry.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ecr_id"}, {Name: "department"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "user_name", "decision_date", "comment", "update_at",
			}),
		}).Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to store approval: %w", err)
		}

		updates := map[string]interface{}{
			"last_modified": now,
			"modified_by":   caller.Email,
		}
		if statusChanged {
			updates["status"] = newStatus
		}
		if err := tx.Model(&models.Ecr{}).Where("ecr_id = ?", input.EcrID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update ecr %d: %w", input.EcrID, err)
		}
		return nil
	})
	if err != nil {
		log.Printf("record approval failed: ecr=%d department=%s decision=%s: %v",
			input.EcrID, input.Department, input.Decision, err)
		return nil, err
	}

	result := &ApprovalResult{
		StatusChanged: statusChanged,
		NewStatus:     prevStatus,
		Message:       "Decision recorded",
	}
	if result.StatusChanged {
		result.NewStatus = newStatus
		result.Message = fmt.Sprintf("ECR is now %s", newStatus)
		s.notifyCreator(creatorUID, input.EcrID, newStatus)
	}
	return result, nil
}

func (s *EcrApprovalService) notifyCreator(creatorUID int, ecrID uint, newStatus string) {
	ntype := "success"
	if newStatus == models.EcrStatusRejected {
		ntype = "warning"
	}
	title := fmt.Sprintf("ECR #%d %s", ecrID, newStatus)
	message := fmt.Sprintf("Your engineering change request #%d is now %s.", ecrID, newStatus)

	if err := s.notifier.Notify(uint(creatorUID), title, message, ntype, "ecr-detail", &ecrID); err != nil {
		log.Printf("creator notification failed for ecr %d: %v", ecrID, err)
	}
}
