package settlement

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=settlement_repo.go -destination=mock/settlement_repo_mock.go -package=mock
type Repository interface {
	FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRead, error)
	// PayrollDeductionSums aggregates, over all of the employee's payroll
	// lines, the unpaid-leave and manual deductions already withheld.
	PayrollDeductionSums(ctx context.Context, companyID, employeeID string) (unpaidLeave, manual int64, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRead, error) {
	var empl EmployeeRead
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		First(&empl, "id = ?", employeeID).Error
	return &empl, err
}

func (r *repository) PayrollDeductionSums(ctx context.Context, companyID, employeeID string) (int64, int64, error) {
	var row struct {
		UnpaidLeave sql.NullInt64
		Manual      sql.NullInt64
	}
	err := r.db.WithContext(ctx).
		Table("payroll_lines").
		Select("COALESCE(SUM(unpaid_leave_deduction), 0) AS unpaid_leave, COALESCE(SUM(manual_deduction), 0) AS manual").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.UnpaidLeave.Int64, row.Manual.Int64, nil
}
