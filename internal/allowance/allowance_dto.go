package allowance

type CreatePolicyRequest struct {
	EmployeeID      string  `json:"employee_id" binding:"required,uuid"`
	Name            string  `json:"name" binding:"required"`
	MonthlyAmount   int64   `json:"monthly_amount" binding:"required,gt=0"`
	ProrationMethod string  `json:"proration_method" binding:"required,oneof=NONE CALENDAR_DAYS"`
	EffectiveFrom   string  `json:"effective_from" binding:"required"`
	EffectiveTo     *string `json:"effective_to"`
}

type EndPolicyRequest struct {
	EffectiveTo string `json:"effective_to" binding:"required"`
}

type PolicyResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Name            string  `json:"name"`
	MonthlyAmount   int64   `json:"monthly_amount"`
	ProrationMethod string  `json:"proration_method"`
	EffectiveFrom   string  `json:"effective_from"`
	EffectiveTo     *string `json:"effective_to,omitempty"`
}
