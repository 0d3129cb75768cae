package settlement

type EstimateRequest struct {
	EmployeeID                string `json:"employee_id" binding:"required,uuid"`
	TerminationDate           string `json:"termination_date" binding:"omitempty"`
	AdditionalManualDeduction int64  `json:"additional_manual_deduction" binding:"omitempty,min=0"`
}

type EstimateResponse struct {
	EmployeeID      string `json:"employee_id"`
	EmployeeNumber  string `json:"employee_number"`
	EmployeeName    string `json:"employee_name"`
	HireDate        string `json:"hire_date"`
	TerminationDate string `json:"termination_date"`

	ServiceYears string `json:"service_years"`
	EosMonths    string `json:"eos_months"`
	EosAmount    int64  `json:"eos_amount"`

	UnpaidLeaveDeduction        int64 `json:"unpaid_leave_deduction"`
	ManualDeductionsFromPayroll int64 `json:"manual_deductions_from_payroll"`
	AdditionalManualDeduction   int64 `json:"additional_manual_deduction"`

	NetSettlement int64 `json:"net_settlement"`
}
