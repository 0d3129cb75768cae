package adjustment

import (
	"context"
	"database/sql"

	"go-rateb/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, adj *Adjustment) error
	FindByID(ctx context.Context, companyID, id string) (*Adjustment, error)
	FindForPeriod(ctx context.Context, companyID string, year, month int) ([]Adjustment, error)
	Delete(ctx context.Context, companyID, id string) error
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	RunStatusForPeriod(ctx context.Context, companyID string, year, month int) (string, error)
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

func (r *repository) Upsert(ctx context.Context, adj *Adjustment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"}, {Name: "employee_id"},
				{Name: "year"}, {Name: "month"}, {Name: "type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "reason", "updated_at"}),
		}).
		Create(adj).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Adjustment, error) {
	var adj Adjustment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&adj, "id = ?", id).Error
	return &adj, err
}

func (r *repository) FindForPeriod(ctx context.Context, companyID string, year, month int) ([]Adjustment, error) {
	var adjs []Adjustment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("year = ?", year).
		Where("month = ?", month).
		Order("created_at ASC").
		Find(&adjs).Error
	return adjs, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Adjustment{}, "id = ?", id).Error
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

// RunStatusForPeriod reports the payroll run status of the month the
// adjustment targets; empty string when the period has no run yet.
func (r *repository) RunStatusForPeriod(ctx context.Context, companyID string, year, month int) (string, error) {
	var status sql.NullString
	err := r.db.WithContext(ctx).
		Table("payroll_runs").
		Select("payroll_runs.status").
		Joins("JOIN payroll_periods ON payroll_periods.id = payroll_runs.period_id").
		Where("payroll_runs.company_id = ?", companyID).
		Where("payroll_periods.year = ?", year).
		Where("payroll_periods.month = ?", month).
		Scan(&status).Error
	if err != nil {
		return "", err
	}
	return status.String, nil
}
