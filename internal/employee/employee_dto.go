package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`

	Nationality string `json:"nationality" binding:"required,oneof=SAUDI NON_SAUDI"`
	HireDate    string `json:"hire_date" binding:"required"`

	BaseSalary           int64 `json:"base_salary" binding:"required,gt=0"`
	IsGosiEligible       bool  `json:"is_gosi_eligible"`
	GosiBasicWage        int64 `json:"gosi_basic_wage" binding:"gte=0"`
	GosiHousingAllowance int64 `json:"gosi_housing_allowance" binding:"gte=0"`

	BankName string `json:"bank_name"`
	BankIban string `json:"bank_iban"`
}

type UpdateEmployeeRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`

	Nationality string `json:"nationality" binding:"required,oneof=SAUDI NON_SAUDI"`

	BaseSalary           int64 `json:"base_salary" binding:"required,gt=0"`
	IsGosiEligible       bool  `json:"is_gosi_eligible"`
	GosiBasicWage        int64 `json:"gosi_basic_wage" binding:"gte=0"`
	GosiHousingAllowance int64 `json:"gosi_housing_allowance" binding:"gte=0"`

	BankName string `json:"bank_name"`
	BankIban string `json:"bank_iban"`
}

type TerminateEmployeeRequest struct {
	TerminationDate string `json:"termination_date" binding:"required"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`

	Nationality      string `json:"nationality"`
	EmploymentStatus string `json:"employment_status"`

	BaseSalary           int64 `json:"base_salary"`
	IsGosiEligible       bool  `json:"is_gosi_eligible"`
	GosiBasicWage        int64 `json:"gosi_basic_wage"`
	GosiHousingAllowance int64 `json:"gosi_housing_allowance"`

	BankName string `json:"bank_name"`
	BankIban string `json:"bank_iban"`

	HireDate        string  `json:"hire_date"`
	TerminationDate *string `json:"termination_date,omitempty"`
}
