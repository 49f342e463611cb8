package models

import "time"

const (
	TaskStatusOpen      = "open"
	TaskStatusDoing     = "doing"
	TaskStatusDone      = "done"
	TaskStatusCancelled = "cancelled"
)

type Task struct {
	TaskID       uint       `gorm:"primaryKey;column:task_id" json:"task_id"`
	Title        string     `gorm:"column:title" json:"title"`
	Description  string     `gorm:"column:description" json:"description"`
	Status       string     `gorm:"column:status" json:"status"`
	AssigneeUID  *int       `gorm:"column:assignee_uid" json:"assignee_uid,omitempty"`
	RelatedEcrID *uint      `gorm:"column:related_ecr_id" json:"related_ecr_id,omitempty"`
	RelatedEcoID *uint      `gorm:"column:related_eco_id" json:"related_eco_id,omitempty"`
	DueDate      *string    `gorm:"column:due_date" json:"due_date,omitempty"` // YYYY-MM-DD
	CreatorUID   int        `gorm:"column:creator_uid" json:"creator_uid"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
