package loan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LoanStatusActive    = "ACTIVE"
	LoanStatusSettled   = "SETTLED"
	LoanStatusCancelled = "CANCELLED"
)

const (
	InstallmentPending   = "PENDING"
	InstallmentDeducted  = "DEDUCTED"
	InstallmentSkipped   = "SKIPPED"
	InstallmentSettled   = "SETTLED"
	InstallmentCancelled = "CANCELLED"
)

type Loan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	// halalas
	Principal         int64 `gorm:"not null"`
	InstallmentAmount int64 `gorm:"not null"`
	TotalInstallments int   `gorm:"not null"`
	PaidInstallments  int   `gorm:"not null;default:0"`
	RemainingBalance  int64 `gorm:"not null"`

	Status     string `gorm:"type:varchar(12);not null;default:'ACTIVE'"`
	StartYear  int    `gorm:"not null"`
	StartMonth int    `gorm:"not null"`
	Reason     string `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Installments []Installment `gorm:"foreignKey:LoanID"`
}

func (Loan) TableName() string {
	return "employee_loans"
}

// Installment is one month of the amortization schedule. The status column
// is the mutual-exclusion point between payroll calculation and loan
// lifecycle operations.
type Installment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LoanID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_installment_due,priority:1"`

	Sequence int   `gorm:"not null"`
	Year     int   `gorm:"not null;index:idx_installment_due,priority:2"`
	Month    int   `gorm:"not null;index:idx_installment_due,priority:3"`
	Amount   int64 `gorm:"not null"`

	Status       string     `gorm:"type:varchar(12);not null;default:'PENDING'"`
	PayrollRunID *uuid.UUID `gorm:"type:uuid;index"`
	DeductedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Installment) TableName() string {
	return "loan_installments"
}
