package events

import "time"

const ExportRequestedTopic = "payroll.export.requested.v1"

type ExportRequestedEvent struct {
	EventType   string    `json:"event_type"`
	ArtifactID  string    `json:"artifact_id"`
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	Kind        string    `json:"kind"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
