package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RunStatusDraft      = "DRAFT"
	RunStatusCalculated = "CALCULATED"
	RunStatusApproved   = "APPROVED"
	RunStatusLocked     = "LOCKED"
)

type Period struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_period,priority:1"`
	Year      int       `gorm:"not null;uniqueIndex:uq_payroll_period,priority:2"`
	Month     int       `gorm:"not null;uniqueIndex:uq_payroll_period,priority:3"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Period) TableName() string {
	return "payroll_periods"
}

// Start and End are the first and last calendar day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

type Run struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Status string `gorm:"type:varchar(12);not null;default:'DRAFT'"`

	CalculatedAt *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	LockedAt     *time.Time
	LockedBy     *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Period *Period `gorm:"foreignKey:PeriodID"`
	Lines  []Line  `gorm:"foreignKey:RunID"`
}

func (Run) TableName() string {
	return "payroll_runs"
}

// Line is the per-employee result. Every input is snapshotted so the line
// stays meaningful after master data changes; once the run is approved it is
// never rewritten.
type Line struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_line,priority:1"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_payroll_line,priority:2"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_line,priority:3"`

	EmployeeNumber string `gorm:"type:varchar(20);not null"`
	EmployeeName   string `gorm:"type:varchar(150);not null"`
	Nationality    string `gorm:"type:varchar(20);not null"`
	BankName       string `gorm:"type:varchar(120)"`
	BankIban       string `gorm:"type:varchar(34)"`

	// halalas
	BasePay              int64 `gorm:"not null"`
	AllowanceTotal       int64 `gorm:"not null;default:0"`
	OvertimePay          int64 `gorm:"not null;default:0"`
	ManualDeduction      int64 `gorm:"not null;default:0"`
	UnpaidLeaveDeduction int64 `gorm:"not null;default:0"`
	LoanDeduction        int64 `gorm:"not null;default:0"`

	GosiEligible         bool  `gorm:"not null;default:false"`
	GosiBasicWage        int64 `gorm:"not null;default:0"`
	GosiHousingAllowance int64 `gorm:"not null;default:0"`
	GosiWageBase         int64 `gorm:"not null;default:0"`
	GosiEmployee         int64 `gorm:"not null;default:0"`
	GosiEmployer         int64 `gorm:"not null;default:0"`

	UnpaidLeaveDays int             `gorm:"not null;default:0"`
	OvertimeHours   decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	NetPay int64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Line) TableName() string {
	return "payroll_lines"
}

// Read models over other features' tables. Calculation never imports those
// packages; it reads the columns it needs under its own types.

type CalcEmployee struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID            uuid.UUID `gorm:"type:uuid"`
	EmployeeNumber       string    `gorm:"column:employee_number"`
	FullName             string    `gorm:"column:full_name"`
	Nationality          string    `gorm:"column:nationality"`
	EmploymentStatus     string    `gorm:"column:employment_status"`
	BaseSalary           int64     `gorm:"column:base_salary"`
	IsGosiEligible       bool      `gorm:"column:is_gosi_eligible"`
	GosiBasicWage        int64     `gorm:"column:gosi_basic_wage"`
	GosiHousingAllowance int64     `gorm:"column:gosi_housing_allowance"`
	BankName             string    `gorm:"column:bank_name"`
	BankIban             string    `gorm:"column:bank_iban"`
}

func (CalcEmployee) TableName() string {
	return "employees"
}

type OvertimeSum struct {
	DayType string
	Hours   decimal.Decimal
}

type PolicyRead struct {
	MonthlyAmount   int64      `gorm:"column:monthly_amount"`
	ProrationMethod string     `gorm:"column:proration_method"`
	EffectiveFrom   time.Time  `gorm:"column:effective_from"`
	EffectiveTo     *time.Time `gorm:"column:effective_to"`
}
