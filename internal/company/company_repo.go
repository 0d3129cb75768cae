package company

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, companyID string) (*Company, error)
	Update(ctx context.Context, company *Company) error
	FindSettings(ctx context.Context, companyID string) (*PayrollSettings, error)
	UpsertSettings(ctx context.Context, settings *PayrollSettings) error
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

func (r *repository) FindByID(ctx context.Context, companyID string) (*Company, error) {
	var c Company
	err := r.db.WithContext(ctx).
		First(&c, "id = ?", companyID).Error
	return &c, err
}

func (r *repository) Update(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *repository) FindSettings(ctx context.Context, companyID string) (*PayrollSettings, error) {
	var s PayrollSettings
	err := r.db.WithContext(ctx).
		First(&s, "company_id = ?", companyID).Error
	return &s, err
}

func (r *repository) UpsertSettings(ctx context.Context, settings *PayrollSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}
