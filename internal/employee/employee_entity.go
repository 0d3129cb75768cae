package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive     = "ACTIVE"
	StatusTerminated = "TERMINATED"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_employee_number,priority:1"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number,priority:2"`
	FullName       string    `gorm:"type:varchar(150);not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex:uq_employee_email"`
	Phone          string    `gorm:"type:varchar(30)"`

	// SAUDI / NON_SAUDI drives the GOSI rate row used at calculation time.
	Nationality      string `gorm:"type:varchar(20);not null"`
	EmploymentStatus string `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	// Monetary amounts are stored in halalas.
	BaseSalary           int64 `gorm:"not null"`
	IsGosiEligible       bool  `gorm:"not null;default:false"`
	GosiBasicWage        int64 `gorm:"not null;default:0"`
	GosiHousingAllowance int64 `gorm:"not null;default:0"`

	BankName string `gorm:"type:varchar(120)"`
	BankIban string `gorm:"type:varchar(34)"`

	HireDate        time.Time  `gorm:"type:date;not null"`
	TerminationDate *time.Time `gorm:"type:date"`

	CreatedAt time.Time      `gorm:"not null;default:now()"`
	UpdatedAt time.Time      `gorm:"not null;default:now()"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
