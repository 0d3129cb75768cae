package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DayTypeWeekday = "WEEKDAY"
	DayTypeWeekend = "WEEKEND"
	DayTypeHoliday = "HOLIDAY"
)

// WorkRecord is one attested day of work. Overtime hours only reach payroll
// once the record is approved.
type WorkRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null;index;uniqueIndex:uq_work_record_day,priority:1"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index;uniqueIndex:uq_work_record_day,priority:2"`
	WorkDate   time.Time `gorm:"column:work_date;type:date;not null;uniqueIndex:uq_work_record_day,priority:3"`

	DayType       string          `gorm:"column:day_type;type:varchar(10);not null;default:WEEKDAY"`
	OvertimeHours decimal.Decimal `gorm:"column:overtime_hours;type:numeric(5,2);not null;default:0"`
	IsApproved    bool            `gorm:"column:is_approved;not null;default:false"`

	Source string  `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	Notes  *string `gorm:"column:notes;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee  *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (WorkRecord) TableName() string {
	return "work_records"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func ValidDayType(dayType string) bool {
	switch dayType {
	case DayTypeWeekday, DayTypeWeekend, DayTypeHoliday:
		return true
	}
	return false
}
