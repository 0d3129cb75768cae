package allowance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProrationNone         = "NONE"
	ProrationCalendarDays = "CALENDAR_DAYS"
)

// Policy is a recurring monthly allowance for one employee. Payroll picks up
// every policy whose effective window overlaps the pay period.
type Policy struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name            string `gorm:"type:varchar(60);not null"`
	MonthlyAmount   int64  `gorm:"not null"` // halalas
	ProrationMethod string `gorm:"type:varchar(20);not null;default:'NONE'"`

	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Policy) TableName() string {
	return "allowance_policies"
}

// EmployeeRef is the slice of the employees table this package reads when
// seeding default policies.
type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid"`
	BaseSalary int64     `gorm:"column:base_salary"`
	HireDate   time.Time `gorm:"column:hire_date"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
