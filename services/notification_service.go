package services

import (
	"fmt"
	"log"
	"time"

	"ecm-api/config"
	"ecm-api/models"

	"gorm.io/gorm"
)

// NotificationService persists in-app notifications and mirrors them to the
// recipient's mailbox when SMTP is configured. Delivery is best effort; a
// failed email never fails the notification row.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify stores a notification for userID. ecrID, when non-nil, links the
// notification to an ECR so the frontend can deep-link into targetView.
func (s *NotificationService) Notify(userID uint, title, message, ntype, targetView string, ecrID *uint) error {
	notification := models.Notification{
		UserID:       userID,
		Title:        title,
		Message:      message,
		Type:         ntype,
		RelatedEcrID: ecrID,
		TargetView:   targetView,
		IsRead:       false,
		CreateAt:     time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.sendEmailCopy(userID, title, message)
	return nil
}

func (s *NotificationService) sendEmailCopy(userID uint, title, message string) {
	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		log.Printf("notification email skipped: user %d not found: %v", userID, err)
		return
	}

	html := fmt.Sprintf("<p>%s</p><p>%s</p>", title, message)
	if err := config.SendMail([]string{user.Email}, title, html); err != nil {
		log.Printf("notification email to %s failed: %v", user.Email, err)
	}
}
