package adjustment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeAllowance = "ALLOWANCE"
	TypeDeduction = "DEDUCTION"
)

// Adjustment is a one-off payroll amount for a single month. Calculation
// reads it, never mutates it; replacing it means writing a new value over
// the same key.
type Adjustment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_adjustment_period,priority:1"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_adjustment_period,priority:2"`
	Year       int       `gorm:"not null;uniqueIndex:uq_adjustment_period,priority:3"`
	Month      int       `gorm:"not null;uniqueIndex:uq_adjustment_period,priority:4"`
	Type       string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_adjustment_period,priority:5"`

	// halalas
	Amount int64  `gorm:"not null"`
	Reason string `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Adjustment) TableName() string {
	return "payroll_adjustments"
}
