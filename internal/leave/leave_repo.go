package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Leave, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, companyID, id string) error
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	ApprovedUnpaidDaysInRange(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Leave{}, "id = ?", id).Error
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusCanceled).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// ApprovedUnpaidDaysInRange counts the approved UNPAID leave days that fall
// inside [from, to]. Leaves straddling the range boundary are clamped so a
// leave spanning two pay periods only charges each period for its own days.
func (r *repository) ApprovedUnpaidDaysInRange(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("COALESCE(SUM(LEAST(end_date, ?::date) - GREATEST(start_date, ?::date) + 1), 0)",
			to.Format("2006-01-02"), from.Format("2006-01-02")).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", TypeUnpaid).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}
