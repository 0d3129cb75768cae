package approval

type MatrixStageInput struct {
	StageOrder     int    `json:"stage_order" binding:"required,min=1"`
	StageCode      string `json:"stage_code" binding:"required,min=2,max=50"`
	ApproverRole   string `json:"approver_role" binding:"required,min=2,max=50"`
	Mandatory      bool   `json:"mandatory"`
	AllowRollback  bool   `json:"allow_rollback"`
	SlaHours       int    `json:"sla_hours" binding:"omitempty,min=1,max=720"`
	EscalationRole string `json:"escalation_role" binding:"omitempty,max=50"`
}

type ConfigureMatrixRequest struct {
	Stages []MatrixStageInput `json:"stages" binding:"required,min=1,dive"`
}

type ApproveStageRequest struct {
	StageID string `json:"stage_id" binding:"required,uuid"`
}

type OverrideStageRequest struct {
	StageID     string `json:"stage_id" binding:"required,uuid"`
	Category    string `json:"category" binding:"required"`
	Reason      string `json:"reason" binding:"required,min=8,max=300"`
	ReferenceID string `json:"reference_id" binding:"omitempty"`
}

type RollbackRequest struct {
	ActionID string `json:"action_id" binding:"required,uuid"`
	Reason   string `json:"reason" binding:"omitempty,max=300"`
}

type StageResponse struct {
	ID             string `json:"id"`
	StageOrder     int    `json:"stage_order"`
	StageCode      string `json:"stage_code"`
	ApproverRole   string `json:"approver_role"`
	Mandatory      bool   `json:"mandatory"`
	AllowRollback  bool   `json:"allow_rollback"`
	SlaHours       int    `json:"sla_hours"`
	EscalationRole string `json:"escalation_role,omitempty"`
}

type ActionResponse struct {
	ID                 string  `json:"id"`
	RunID              string  `json:"run_id"`
	StageID            string  `json:"stage_id"`
	ActionType         string  `json:"action_type"`
	ActorID            string  `json:"actor_id"`
	ActorRole          string  `json:"actor_role"`
	OverrideCategory   *string `json:"override_category,omitempty"`
	OverrideReason     *string `json:"override_reason,omitempty"`
	OverrideReference  *string `json:"override_reference,omitempty"`
	RolledBackActionID *string `json:"rolled_back_action_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// StageStatus is the fold of the ledger for one stage of one run.
type StageStatus struct {
	Stage     StageResponse `json:"stage"`
	Satisfied bool          `json:"satisfied"`
	// SatisfiedBy is the surviving APPROVE or OVERRIDE, when any.
	SatisfiedBy *ActionResponse `json:"satisfied_by,omitempty"`
}

type RunApprovalStatusResponse struct {
	RunID      string           `json:"run_id"`
	Approvable bool             `json:"approvable"`
	Stages     []StageStatus    `json:"stages"`
	Actions    []ActionResponse `json:"actions"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type GovernanceReportResponse struct {
	WindowDays        int             `json:"window_days"`
	ApproveCount      int             `json:"approve_count"`
	OverrideCount     int             `json:"override_count"`
	RollbackCount     int             `json:"rollback_count"`
	OverrideRatio     float64         `json:"override_ratio"`
	ReferenceCoverage float64         `json:"reference_coverage"`
	TopCategories     []CategoryCount `json:"top_categories"`

	BriefProvider     string `json:"brief_provider"`
	BriefUsedFallback bool   `json:"brief_used_fallback"`
	Brief             string `json:"brief"`
}
