package payroll

type CreatePeriodRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type PeriodResponse struct {
	ID    string `json:"id"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

type LineResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeNumber string `json:"employee_number"`
	EmployeeName   string `json:"employee_name"`
	Nationality    string `json:"nationality"`
	BankName       string `json:"bank_name"`
	BankIban       string `json:"bank_iban"`

	BasePay              int64 `json:"base_pay"`
	AllowanceTotal       int64 `json:"allowance_total"`
	OvertimePay          int64 `json:"overtime_pay"`
	ManualDeduction      int64 `json:"manual_deduction"`
	UnpaidLeaveDeduction int64 `json:"unpaid_leave_deduction"`
	LoanDeduction        int64 `json:"loan_deduction"`

	GosiEligible         bool  `json:"gosi_eligible"`
	GosiBasicWage        int64 `json:"gosi_basic_wage"`
	GosiHousingAllowance int64 `json:"gosi_housing_allowance"`
	GosiWageBase         int64 `json:"gosi_wage_base"`
	GosiEmployee         int64 `json:"gosi_employee"`
	GosiEmployer         int64 `json:"gosi_employer"`

	UnpaidLeaveDays int    `json:"unpaid_leave_days"`
	OvertimeHours   string `json:"overtime_hours"`

	NetPay int64 `json:"net_pay"`
}

type RunResponse struct {
	ID       string `json:"id"`
	PeriodID string `json:"period_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Status   string `json:"status"`

	CalculatedAt *string `json:"calculated_at,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	LockedAt     *string `json:"locked_at,omitempty"`

	TotalNetPay int64          `json:"total_net_pay"`
	LineCount   int            `json:"line_count"`
	Lines       []LineResponse `json:"lines,omitempty"`
}
