package models

import "time"

// ECO lifecycle statuses. ECOs are raised from approved ECRs and track the
// execution of the change rather than its authorization.
const (
	EcoStatusOpen       = "open"
	EcoStatusInProgress = "in-progress"
	EcoStatusCompleted  = "completed"
	EcoStatusCancelled  = "cancelled"
)

type Eco struct {
	EcoID          uint       `gorm:"primaryKey;column:eco_id" json:"eco_id"`
	EcoNumber      string     `gorm:"column:eco_number;unique" json:"eco_number"`
	EcrID          *uint      `gorm:"column:ecr_id" json:"ecr_id,omitempty"`
	Title          string     `gorm:"column:title" json:"title"`
	Description    string     `gorm:"column:description" json:"description"`
	Status         string     `gorm:"column:status" json:"status"`
	ImplementedBy  string     `gorm:"column:implemented_by" json:"implemented_by"`
	TargetDate     *string    `gorm:"column:target_date" json:"target_date,omitempty"` // YYYY-MM-DD
	CompletionDate *string    `gorm:"column:completion_date" json:"completion_date,omitempty"`
	CreatorUID     int        `gorm:"column:creator_uid" json:"creator_uid"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Ecr *Ecr `gorm:"foreignKey:EcrID" json:"ecr,omitempty"`
}

func (Eco) TableName() string {
	return "ecos"
}
