package events

import "time"

const RunApprovedTopic = "payroll.run.approved.v1"

type RunApprovedEvent struct {
	EventType  string    `json:"event_type"`
	RunID      string    `json:"run_id"`
	PeriodID   string    `json:"period_id"`
	CompanyID  string    `json:"company_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	ApprovedBy string    `json:"approved_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
