package allowance

import (
	"context"
	"database/sql"

	"go-rateb/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=allowance_repo.go -destination=mock/allowance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Policy) error
	FindByID(ctx context.Context, companyID, id string) (*Policy, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]Policy, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Policy, error)
	Update(ctx context.Context, p *Policy) error
	Delete(ctx context.Context, companyID, id string) error
	HasPolicyNamed(ctx context.Context, companyID, employeeID, name string) (bool, error)
	FindEmployeeRef(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error)
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

func (r *repository) Create(ctx context.Context, p *Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Policy, error) {
	var p Policy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]Policy, error) {
	var policies []Policy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("effective_from ASC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Policy, error) {
	var policies []Policy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("employee_id, effective_from ASC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) Update(ctx context.Context, p *Policy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Policy{}, "id = ?", id).Error
}

func (r *repository) HasPolicyNamed(ctx context.Context, companyID, employeeID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Policy{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindEmployeeRef(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	var ref EmployeeRef
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		First(&ref, "id = ?", employeeID).Error
	return &ref, err
}
