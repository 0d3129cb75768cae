package export

type EnqueueExportRequest struct {
	RunID string `json:"run_id" binding:"required,uuid"`
	Kind  string `json:"kind" binding:"required"`
}

type ArtifactResponse struct {
	ID           string  `json:"id"`
	RunID        string  `json:"run_id"`
	Kind         string  `json:"kind"`
	Status       string  `json:"status"`
	FileName     string  `json:"file_name,omitempty"`
	ContentType  string  `json:"content_type,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
	StartedAt    *string `json:"started_at,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
