package company

type UpdateProfileRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"omitempty,email"`
	BankName           string `json:"bank_name"`
	BankIban           string `json:"bank_iban"`
	MolEstablishmentID string `json:"mol_establishment_id"`
}

type ProfileResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	IsActive           bool   `json:"is_active"`
	BankName           string `json:"bank_name"`
	BankIban           string `json:"bank_iban"`
	MolEstablishmentID string `json:"mol_establishment_id"`
}

type UpsertSettingsRequest struct {
	GosiSaudiEmployeePct    string `json:"gosi_saudi_employee_pct" binding:"required"`
	GosiSaudiEmployerPct    string `json:"gosi_saudi_employer_pct" binding:"required"`
	GosiNonSaudiEmployeePct string `json:"gosi_non_saudi_employee_pct" binding:"required"`
	GosiNonSaudiEmployerPct string `json:"gosi_non_saudi_employer_pct" binding:"required"`

	OvertimeWeekdayMultiplier string `json:"overtime_weekday_multiplier" binding:"required"`
	OvertimeWeekendMultiplier string `json:"overtime_weekend_multiplier" binding:"required"`
	OvertimeHolidayMultiplier string `json:"overtime_holiday_multiplier" binding:"required"`

	EosFirstFiveYearsMonthFactor string `json:"eos_first_five_years_month_factor" binding:"required"`
	EosAfterFiveYearsMonthFactor string `json:"eos_after_five_years_month_factor" binding:"required"`
}

type SettingsResponse struct {
	GosiSaudiEmployeePct    string `json:"gosi_saudi_employee_pct"`
	GosiSaudiEmployerPct    string `json:"gosi_saudi_employer_pct"`
	GosiNonSaudiEmployeePct string `json:"gosi_non_saudi_employee_pct"`
	GosiNonSaudiEmployerPct string `json:"gosi_non_saudi_employer_pct"`

	OvertimeWeekdayMultiplier string `json:"overtime_weekday_multiplier"`
	OvertimeWeekendMultiplier string `json:"overtime_weekend_multiplier"`
	OvertimeHolidayMultiplier string `json:"overtime_holiday_multiplier"`

	EosFirstFiveYearsMonthFactor string `json:"eos_first_five_years_month_factor"`
	EosAfterFiveYearsMonthFactor string `json:"eos_after_five_years_month_factor"`
}
