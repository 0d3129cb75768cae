package company

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Company struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(150);not null"`
	Email    string    `gorm:"type:varchar(255);index"`
	IsActive bool      `gorm:"not null;default:true"`

	// WPS bank profile; all three are required before a WPS export can be
	// queued.
	BankName           string `gorm:"type:varchar(120)"`
	BankIban           string `gorm:"type:varchar(34)"`
	MolEstablishmentID string `gorm:"type:varchar(40)"`

	CreatedAt time.Time      `gorm:"not null;default:now()"`
	UpdatedAt time.Time      `gorm:"not null;default:now()"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}

// PayrollSettings carries the statutory inputs payroll calculation depends on.
// GOSI percentages, overtime multipliers and EOS factors are policy data that
// differs per tenant and changes over time, so they are rows, not constants.
type PayrollSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	GosiSaudiEmployeePct    decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	GosiSaudiEmployerPct    decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	GosiNonSaudiEmployeePct decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	GosiNonSaudiEmployerPct decimal.Decimal `gorm:"type:numeric(6,4);not null"`

	OvertimeWeekdayMultiplier decimal.Decimal `gorm:"type:numeric(4,2);not null"`
	OvertimeWeekendMultiplier decimal.Decimal `gorm:"type:numeric(4,2);not null"`
	OvertimeHolidayMultiplier decimal.Decimal `gorm:"type:numeric(4,2);not null"`

	EosFirstFiveYearsMonthFactor decimal.Decimal `gorm:"type:numeric(4,2);not null"`
	EosAfterFiveYearsMonthFactor decimal.Decimal `gorm:"type:numeric(4,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (PayrollSettings) TableName() string {
	return "company_payroll_settings"
}
