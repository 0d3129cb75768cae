package loan

type CreateLoanRequest struct {
	EmployeeID        string `json:"employee_id" binding:"required,uuid"`
	Principal         int64  `json:"principal" binding:"required,gt=0"`
	InstallmentAmount int64  `json:"installment_amount" binding:"required,gt=0"`
	TotalInstallments int    `json:"total_installments" binding:"required,gt=0"`
	StartYear         int    `json:"start_year" binding:"required,min=2000,max=2100"`
	StartMonth        int    `json:"start_month" binding:"required,min=1,max=12"`
	Reason            string `json:"reason"`
}

type RescheduleLoanRequest struct {
	StartYear  int `json:"start_year" binding:"required,min=2000,max=2100"`
	StartMonth int `json:"start_month" binding:"required,min=1,max=12"`
}

type SkipInstallmentRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type InstallmentResponse struct {
	ID           string  `json:"id"`
	Sequence     int     `json:"sequence"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Amount       int64   `json:"amount"`
	Status       string  `json:"status"`
	PayrollRunID *string `json:"payroll_run_id,omitempty"`
}

type LoanResponse struct {
	ID                string                `json:"id"`
	EmployeeID        string                `json:"employee_id"`
	Principal         int64                 `json:"principal"`
	InstallmentAmount int64                 `json:"installment_amount"`
	TotalInstallments int                   `json:"total_installments"`
	PaidInstallments  int                   `json:"paid_installments"`
	RemainingBalance  int64                 `json:"remaining_balance"`
	Status            string                `json:"status"`
	StartYear         int                   `json:"start_year"`
	StartMonth        int                   `json:"start_month"`
	Reason            string                `json:"reason"`
	Installments      []InstallmentResponse `json:"installments,omitempty"`
}
