package export

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindWpsCSV      = "WPS_CSV"
	KindGosiCSV     = "GOSI_CSV"
	KindRegisterCSV = "REGISTER_CSV"
	KindPayslipPDF  = "PAYSLIP_PDF"
)

const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

func ValidKind(kind string) bool {
	switch kind {
	case KindWpsCSV, KindGosiCSV, KindRegisterCSV, KindPayslipPDF:
		return true
	}
	return false
}

// Artifact is one queued export file. Retrying a failed export creates a
// fresh artifact rather than mutating the failed one.
type Artifact struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	RunID     uuid.UUID `gorm:"type:uuid;not null;index" json:"run_id"`
	Kind      string    `gorm:"size:20;not null" json:"kind"`
	Status    string    `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	RequestedBy uuid.UUID `gorm:"type:uuid;not null" json:"requested_by"`

	FileName     string  `gorm:"size:120" json:"file_name,omitempty"`
	ContentType  string  `gorm:"size:60" json:"content_type,omitempty"`
	FileBytes    []byte  `gorm:"type:bytea" json:"-"`
	ErrorMessage *string `gorm:"size:500" json:"error_message,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Artifact) TableName() string {
	return "export_artifacts"
}

// Read models over payroll and employee tables; export never imports those
// packages.

type RunRead struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid"`
	PeriodID  uuid.UUID `gorm:"type:uuid"`
	Status    string
}

func (RunRead) TableName() string {
	return "payroll_runs"
}

type PeriodRead struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year  int
	Month int
}

func (PeriodRead) TableName() string {
	return "payroll_periods"
}

type LineRead struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid"`

	EmployeeNumber string
	EmployeeName   string
	Nationality    string
	BankName       string
	BankIban       string

	BasePay              int64
	AllowanceTotal       int64
	OvertimePay          int64
	ManualDeduction      int64
	UnpaidLeaveDeduction int64
	LoanDeduction        int64

	GosiEligible         bool
	GosiBasicWage        int64
	GosiHousingAllowance int64
	GosiWageBase         int64
	GosiEmployee         int64
	GosiEmployer         int64

	UnpaidLeaveDays int
	OvertimeHours   decimal.Decimal

	NetPay int64
}

func (LineRead) TableName() string {
	return "payroll_lines"
}

type EmployeeGosiRead struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber       string
	FullName             string
	GosiBasicWage        int64
	GosiHousingAllowance int64
}

func (EmployeeGosiRead) TableName() string {
	return "employees"
}

type CompanyRead struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string
	BankName           string
	BankIban           string
	MolEstablishmentID string `gorm:"column:mol_establishment_id"`
}

func (CompanyRead) TableName() string {
	return "companies"
}
