package export

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=export_repo.go -destination=mock/export_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateArtifact(ctx context.Context, a *Artifact) error
	FindArtifactByID(ctx context.Context, companyID, id string) (*Artifact, error)
	FindArtifactsByRun(ctx context.Context, companyID, runID string) ([]Artifact, error)

	// ClaimArtifact flips PENDING to PROCESSING; false means another worker
	// got there first or the artifact is past that state.
	ClaimArtifact(ctx context.Context, companyID, id string) (bool, error)
	CompleteArtifact(ctx context.Context, companyID, id, fileName, contentType string, fileBytes []byte) error
	FailArtifact(ctx context.Context, companyID, id, errorMessage string) error
	ReapStuckProcessing(ctx context.Context, olderThan time.Time) (int64, error)

	FindRun(ctx context.Context, companyID, runID string) (*RunRead, error)
	FindPeriod(ctx context.Context, periodID string) (*PeriodRead, error)
	FindLines(ctx context.Context, companyID, runID string) ([]LineRead, error)
	FindEmployeeGosi(ctx context.Context, companyID string, employeeIDs []string) ([]EmployeeGosiRead, error)
	FindCompany(ctx context.Context, companyID string) (*CompanyRead, error)
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

func (r *repository) CreateArtifact(ctx context.Context, a *Artifact) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindArtifactByID(ctx context.Context, companyID, id string) (*Artifact, error) {
	var a Artifact
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindArtifactsByRun(ctx context.Context, companyID, runID string) ([]Artifact, error) {
	var artifacts []Artifact
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("run_id = ?", runID).
		Order("created_at DESC").
		Find(&artifacts).Error
	return artifacts, err
}

func (r *repository) ClaimArtifact(ctx context.Context, companyID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Artifact{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]interface{}{
			"status":     StatusProcessing,
			"started_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CompleteArtifact(ctx context.Context, companyID, id, fileName, contentType string, fileBytes []byte) error {
	return r.db.WithContext(ctx).
		Model(&Artifact{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", StatusProcessing).
		Updates(map[string]interface{}{
			"status":       StatusCompleted,
			"file_name":    fileName,
			"content_type": contentType,
			"file_bytes":   fileBytes,
			"completed_at": time.Now().UTC(),
		}).Error
}

func (r *repository) FailArtifact(ctx context.Context, companyID, id, errorMessage string) error {
	if len(errorMessage) > 500 {
		errorMessage = errorMessage[:500]
	}
	return r.db.WithContext(ctx).
		Model(&Artifact{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status IN ?", []string{StatusPending, StatusProcessing}).
		Updates(map[string]interface{}{
			"status":        StatusFailed,
			"error_message": errorMessage,
			"completed_at":  time.Now().UTC(),
		}).Error
}

func (r *repository) ReapStuckProcessing(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Artifact{}).
		Where("status = ?", StatusProcessing).
		Where("started_at < ?", olderThan).
		Updates(map[string]interface{}{
			"status":        StatusFailed,
			"error_message": "export generation timed out",
			"completed_at":  time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) FindRun(ctx context.Context, companyID, runID string) (*RunRead, error) {
	var run RunRead
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&run, "id = ?", runID).Error
	return &run, err
}

func (r *repository) FindPeriod(ctx context.Context, periodID string) (*PeriodRead, error) {
	var period PeriodRead
	err := r.db.WithContext(ctx).
		First(&period, "id = ?", periodID).Error
	return &period, err
}

func (r *repository) FindLines(ctx context.Context, companyID, runID string) ([]LineRead, error) {
	var lines []LineRead
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("run_id = ?", runID).
		Order("employee_number ASC").
		Find(&lines).Error
	return lines, err
}

func (r *repository) FindEmployeeGosi(ctx context.Context, companyID string, employeeIDs []string) ([]EmployeeGosiRead, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var employees []EmployeeGosiRead
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id IN ?", employeeIDs).
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindCompany(ctx context.Context, companyID string) (*CompanyRead, error) {
	var c CompanyRead
	err := r.db.WithContext(ctx).
		First(&c, "id = ?", companyID).Error
	return &c, err
}
