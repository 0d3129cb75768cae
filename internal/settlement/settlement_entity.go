package settlement

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeRead is the slice of the employee record the settlement estimate
// needs.
type EmployeeRead struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID `gorm:"type:uuid"`
	EmployeeNumber   string
	FullName         string
	EmploymentStatus string
	BaseSalary       int64
	HireDate         time.Time  `gorm:"type:date"`
	TerminationDate  *time.Time `gorm:"type:date"`
}

func (EmployeeRead) TableName() string {
	return "employees"
}
