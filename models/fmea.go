package models

import "time"

type Fmea struct {
	FmeaID     uint       `gorm:"primaryKey;column:fmea_id" json:"fmea_id"`
	Title      string     `gorm:"column:title" json:"title"`
	Process    string     `gorm:"column:process" json:"process"`
	PartNumber string     `gorm:"column:part_number" json:"part_number"`
	Revision   string     `gorm:"column:revision" json:"revision"`
	CreatorUID int        `gorm:"column:creator_uid" json:"creator_uid"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Items []FmeaItem `gorm:"foreignKey:FmeaID" json:"items,omitempty"`
}

func (Fmea) TableName() string {
	return "fmeas"
}

// FmeaItem is one failure-mode row of an FMEA document. RPN is stored
// denormalized (severity * occurrence * detection) so listings can sort on it.
type FmeaItem struct {
	ItemID        uint       `gorm:"primaryKey;column:item_id" json:"item_id"`
	FmeaID        uint       `gorm:"column:fmea_id" json:"fmea_id"`
	FailureMode   string     `gorm:"column:failure_mode" json:"failure_mode"`
	FailureEffect string     `gorm:"column:failure_effect" json:"failure_effect"`
	FailureCause  string     `gorm:"column:failure_cause" json:"failure_cause"`
	Controls      string     `gorm:"column:controls" json:"controls"`
	Severity      int        `gorm:"column:severity" json:"severity"`     // 1..10
	Occurrence    int        `gorm:"column:occurrence" json:"occurrence"` // 1..10
	Detection     int        `gorm:"column:detection" json:"detection"`   // 1..10
	RPN           int        `gorm:"column:rpn" json:"rpn"`
	Actions       string     `gorm:"column:actions" json:"actions"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (FmeaItem) TableName() string {
	return "fmea_items"
}

// ComputeRPN refreshes the stored risk priority number.
func (i *FmeaItem) ComputeRPN() {
	i.RPN = i.Severity * i.Occurrence * i.Detection
}
