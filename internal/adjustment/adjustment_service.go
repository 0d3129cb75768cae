package adjustment

import (
	"context"
	"database/sql"
	"errors"

	adjustmenterrors "go-rateb/internal/adjustment/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, companyID, actorID string, req UpsertAdjustmentRequest) (AdjustmentResponse, error)
	GetForPeriod(ctx context.Context, companyID string, year, month int) ([]AdjustmentResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("adjustment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("adjustment.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// frozenRunStatus reports whether the month's payroll can no longer absorb
// input changes.
func frozenRunStatus(status string) bool {
	return status == "APPROVED" || status == "LOCKED"
}

func (s *service) Upsert(ctx context.Context, companyID, actorID string, req UpsertAdjustmentRequest) (AdjustmentResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if !belongs {
		return AdjustmentResponse{}, adjustmenterrors.ErrEmployeeNotInCompany
	}

	status, err := qtx.RunStatusForPeriod(ctx, companyID, req.Year, req.Month)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if frozenRunStatus(status) {
		return AdjustmentResponse{}, adjustmenterrors.ErrPeriodLocked
	}

	adj := &Adjustment{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(req.EmployeeID),
		Year:       req.Year,
		Month:      req.Month,
		Type:       req.Type,
		Amount:     req.Amount,
		Reason:     req.Reason,
		CreatedBy:  actorUUID,
	}

	if err := qtx.Upsert(ctx, adj); err != nil {
		s.logger.Error("upsert adjustment failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AdjustmentResponse{}, err
	}

	s.logger.Info("adjustment upserted",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.String("type", req.Type),
	)
	return mapToResponse(*adj), nil
}

func (s *service) GetForPeriod(ctx context.Context, companyID string, year, month int) ([]AdjustmentResponse, error) {
	adjs, err := s.repo.FindForPeriod(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}

	resp := make([]AdjustmentResponse, 0, len(adjs))
	for _, adj := range adjs {
		resp = append(resp, mapToResponse(adj))
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return adjustmenterrors.ErrInvalidAdjustmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	adj, err := qtx.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adjustmenterrors.ErrAdjustmentNotFound
		}
		return err
	}

	status, err := qtx.RunStatusForPeriod(ctx, companyID, adj.Year, adj.Month)
	if err != nil {
		return err
	}
	if frozenRunStatus(status) {
		return adjustmenterrors.ErrPeriodLocked
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("adjustment deleted", zap.String("adjustment_id", id))
	return nil
}

func mapToResponse(a Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Year:       a.Year,
		Month:      a.Month,
		Type:       a.Type,
		Amount:     a.Amount,
		Reason:     a.Reason,
	}
}
