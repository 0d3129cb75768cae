package approval

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	ReplaceStages(ctx context.Context, companyID string, stages []MatrixStage) error
	FindStages(ctx context.Context, companyID string) ([]MatrixStage, error)
	FindStageByID(ctx context.Context, companyID, id string) (*MatrixStage, error)

	CreateAction(ctx context.Context, a *Action) error
	FindActionByID(ctx context.Context, companyID, id string) (*Action, error)
	FindActionsForRun(ctx context.Context, companyID, runID string) ([]Action, error)
	FindActionsSince(ctx context.Context, companyID string, since time.Time) ([]Action, error)

	FindRunRef(ctx context.Context, companyID, runID string) (*RunRef, error)
	FindRunRefForUpdate(ctx context.Context, companyID, runID string) (*RunRef, error)
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

// conn binds the statement to the caller's transaction when one was attached
// through WithTx, the same way gorm's own Begin does.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) ReplaceStages(ctx context.Context, companyID string, stages []MatrixStage) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).Delete(&MatrixStage{}).Error; err != nil {
			return err
		}
		if len(stages) == 0 {
			return nil
		}
		return tx.Create(&stages).Error
	})
}

func (r *repository) FindStages(ctx context.Context, companyID string) ([]MatrixStage, error) {
	var stages []MatrixStage
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Order("stage_order ASC").
		Find(&stages).Error
	return stages, err
}

func (r *repository) FindStageByID(ctx context.Context, companyID, id string) (*MatrixStage, error) {
	var stage MatrixStage
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&stage, "id = ?", id).Error
	return &stage, err
}

func (r *repository) CreateAction(ctx context.Context, a *Action) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindActionByID(ctx context.Context, companyID, id string) (*Action, error) {
	var a Action
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindActionsForRun(ctx context.Context, companyID, runID string) ([]Action, error) {
	var actions []Action
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

func (r *repository) FindActionsSince(ctx context.Context, companyID string, since time.Time) ([]Action, error) {
	var actions []Action
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

func (r *repository) FindRunRef(ctx context.Context, companyID, runID string) (*RunRef, error) {
	var ref RunRef
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&ref, "id = ?", runID).Error
	return &ref, err
}

// FindRunRefForUpdate locks the run row for the duration of the transaction,
// serializing ledger writes against a concurrent approval of the same run.
func (r *repository) FindRunRefForUpdate(ctx context.Context, companyID, runID string) (*RunRef, error) {
	var ref RunRef
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&ref, "id = ?", runID).Error
	return &ref, err
}
