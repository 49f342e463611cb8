package models

import (
	"encoding/json"
	"time"
)

// Overall ECR workflow statuses. Draft records exist before the approval
// workflow starts; once approved or rejected the workflow never reopens.
const (
	EcrStatusDraft    = "draft"
	EcrStatusPending  = "pending-approval"
	EcrStatusApproved = "approved"
	EcrStatusRejected = "rejected"
)

// Per-department decision values.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionStandBy  = "stand-by"
)

type Ecr struct {
	EcrID       uint   `gorm:"primaryKey;column:ecr_id" json:"ecr_id"`
	EcrNumber   string `gorm:"column:ecr_number;unique" json:"ecr_number"`
	Title       string `gorm:"column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Status      string `gorm:"column:status" json:"status"`

	// Captured change-form field values, keyed by field name.
	FormData json.RawMessage `gorm:"column:form_data" json:"form_data,omitempty"`

	// One flag per department: true means that department's sign-off is
	// required before the ECR can reach approved.
	AfectaIngProducto    bool `gorm:"column:afecta_ing_producto" json:"afecta_ing_producto"`
	AfectaIngManufatura  bool `gorm:"column:afecta_ing_manufatura" json:"afecta_ing_manufatura"`
	AfectaHSE            bool `gorm:"column:afecta_hse" json:"afecta_hse"`
	AfectaCalidad        bool `gorm:"column:afecta_calidad" json:"afecta_calidad"`
	AfectaCompras        bool `gorm:"column:afecta_compras" json:"afecta_compras"`
	AfectaSQA            bool `gorm:"column:afecta_sqa" json:"afecta_sqa"`
	AfectaTooling        bool `gorm:"column:afecta_tooling" json:"afecta_tooling"`
	AfectaLogistica      bool `gorm:"column:afecta_logistica" json:"afecta_logistica"`
	AfectaFinanciero     bool `gorm:"column:afecta_financiero" json:"afecta_financiero"`
	AfectaComercial      bool `gorm:"column:afecta_comercial" json:"afecta_comercial"`
	AfectaMantenimiento  bool `gorm:"column:afecta_mantenimiento" json:"afecta_mantenimiento"`
	AfectaProduccion     bool `gorm:"column:afecta_produccion" json:"afecta_produccion"`
	AfectaCalidadCliente bool `gorm:"column:afecta_calidad_cliente" json:"afecta_calidad_cliente"`

	CreatorUID   int        `gorm:"column:creator_uid" json:"creator_uid"`
	LastModified *time.Time `gorm:"column:last_modified" json:"last_modified"`
	ModifiedBy   string     `gorm:"column:modified_by" json:"modified_by"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Approvals []EcrApproval `gorm:"foreignKey:EcrID" json:"approvals,omitempty"`
	Creator   *User         `gorm:"foreignKey:CreatorUID" json:"creator,omitempty"`
}

func (Ecr) TableName() string {
	return "ecrs"
}

// AffectsDepartment reports whether the given department's sign-off is
// required, read from the record's current flags.
func (e *Ecr) AffectsDepartment(code string) bool {
	switch code {
	case DeptIngProducto:
		return e.AfectaIngProducto
	case DeptIngManufatura:
		return e.AfectaIngManufatura
	case DeptHSE:
		return e.AfectaHSE
	case DeptCalidad:
		return e.AfectaCalidad
	case DeptCompras:
		return e.AfectaCompras
	case DeptSQA:
		return e.AfectaSQA
	case DeptTooling:
		return e.AfectaTooling
	case DeptLogistica:
		return e.AfectaLogistica
	case DeptFinanciero:
		return e.AfectaFinanciero
	case DeptComercial:
		return e.AfectaComercial
	case DeptMantenimiento:
		return e.AfectaMantenimiento
	case DeptProduccion:
		return e.AfectaProduccion
	case DeptCalidadCliente:
		return e.AfectaCalidadCliente
	}
	return false
}

// RequiredDepartments returns the department codes whose afecta flag is set,
// in the fixed department order.
func (e *Ecr) RequiredDepartments() []string {
	required := make([]string, 0, len(DepartmentCodes))
	for _, code := range DepartmentCodes {
		if e.AffectsDepartment(code) {
			required = append(required, code)
		}
	}
	return required
}

// EcrApproval is one department's current decision on one ECR. A department
// that decides again overwrites its previous row; no decision history is kept.
type EcrApproval struct {
	ApprovalID uint       `gorm:"primaryKey;column:approval_id" json:"approval_id"`
	EcrID      uint       `gorm:"column:ecr_id;uniqueIndex:uniq_ecr_department" json:"ecr_id"`
	Department string     `gorm:"column:department;uniqueIndex:uniq_ecr_department" json:"department"`
	Status     string     `gorm:"column:status" json:"status"` // approved|rejected|stand-by
	UserName   string     `gorm:"column:user_name" json:"user"`
	Date       string     `gorm:"column:decision_date" json:"date"` // YYYY-MM-DD
	Comment    string     `gorm:"column:comment" json:"comment"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (EcrApproval) TableName() string {
	return "ecr_approvals"
}
