package approval

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionApprove  = "APPROVE"
	ActionOverride = "OVERRIDE"
	ActionRollback = "ROLLBACK"
)

var overrideCategories = map[string]struct{}{
	"DATA_CORRECTION":     {},
	"TIMING_ADJUSTMENT":   {},
	"EXCEPTIONAL_PAYMENT": {},
	"POLICY_EXCEPTION":    {},
	"EMERGENCY_CLOSURE":   {},
	"OTHER":               {},
}

func ValidOverrideCategory(category string) bool {
	_, ok := overrideCategories[category]
	return ok
}

// MatrixStage is one row of a tenant's approval matrix. Stages fire in
// StageOrder; mandatory stages gate run approval.
type MatrixStage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_approval_stage_order" json:"company_id"`
	StageOrder     int       `gorm:"not null;uniqueIndex:uq_approval_stage_order" json:"stage_order"`
	StageCode      string    `gorm:"size:50;not null" json:"stage_code"`
	ApproverRole   string    `gorm:"size:50;not null" json:"approver_role"`
	Mandatory      bool      `gorm:"not null;default:true" json:"mandatory"`
	AllowRollback  bool      `gorm:"not null;default:false" json:"allow_rollback"`
	SlaHours       int       `gorm:"not null;default:24" json:"sla_hours"`
	EscalationRole string    `gorm:"size:50" json:"escalation_role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MatrixStage) TableName() string {
	return "approval_matrix_stages"
}

// Action is one entry of the append-only approval ledger. Rows are never
// updated or deleted; rollbacks are themselves new rows pointing at the
// entry they void.
type Action struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;index" json:"run_id"`
	StageID    uuid.UUID `gorm:"type:uuid;not null" json:"stage_id"`
	ActionType string    `gorm:"size:20;not null" json:"action_type"`

	ActorID   uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	ActorRole string    `gorm:"size:50;not null" json:"actor_role"`

	OverrideCategory  *string `gorm:"size:30" json:"override_category,omitempty"`
	OverrideReason    *string `gorm:"size:300" json:"override_reason,omitempty"`
	OverrideReference *string `gorm:"size:20" json:"override_reference,omitempty"`

	RolledBackActionID *uuid.UUID `gorm:"type:uuid" json:"rolled_back_action_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Action) TableName() string {
	return "payroll_approval_actions"
}

// RunRef is a read model over payroll_runs; approval only needs the status.
type RunRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid"`
	Status    string
}

func (RunRef) TableName() string {
	return "payroll_runs"
}
