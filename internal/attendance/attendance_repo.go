package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-rateb/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *WorkRecord) error
	Update(ctx context.Context, record *WorkRecord) error
	FindByID(ctx context.Context, companyID, id string) (*WorkRecord, error)
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*WorkRecord, error)
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]WorkRecord, error)
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

func (r *repository) Create(ctx context.Context, record *WorkRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *WorkRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*WorkRecord, error) {
	var record WorkRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*WorkRecord, error) {
	var record WorkRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&record).Error
	return &record, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]WorkRecord, error) {
	var records []WorkRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("work_date ASC").
		Find(&records).Error
	return records, err
}
