package adjustment

type UpsertAdjustmentRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Year       int    `json:"year" binding:"required,min=2000,max=2100"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Type       string `json:"type" binding:"required,oneof=ALLOWANCE DEDUCTION"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Reason     string `json:"reason"`
}

type AdjustmentResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}
