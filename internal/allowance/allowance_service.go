package allowance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	allowanceerrors "go-rateb/internal/allowance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Default transport allowance seeded for new hires: 10% of base salary,
// prorated for the hire month.
const defaultTransportPolicyName = "TRANSPORT"

var defaultTransportPct = decimal.NewFromFloat(0.10)

//go:generate mockgen -source=allowance_service.go -destination=mock/allowance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePolicyRequest) (PolicyResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) ([]PolicyResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error)
	End(ctx context.Context, companyID, id string, req EndPolicyRequest) (PolicyResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	SeedDefaultPolicies(ctx context.Context, companyID, employeeID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("allowance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allowance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreatePolicyRequest) (PolicyResponse, error) {
	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return PolicyResponse{}, allowanceerrors.ErrInvalidDateFormat
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		to, err := time.Parse("2006-01-02", *req.EffectiveTo)
		if err != nil {
			return PolicyResponse{}, allowanceerrors.ErrInvalidDateFormat
		}
		if to.Before(effectiveFrom) {
			return PolicyResponse{}, allowanceerrors.ErrInvalidEffectiveRange
		}
		effectiveTo = &to
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PolicyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindEmployeeRef(ctx, companyID, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyResponse{}, allowanceerrors.ErrEmployeeNotInCompany
		}
		return PolicyResponse{}, err
	}

	p := &Policy{
		ID:              uuid.New(),
		CompanyID:       uuid.MustParse(companyID),
		EmployeeID:      uuid.MustParse(req.EmployeeID),
		Name:            req.Name,
		MonthlyAmount:   req.MonthlyAmount,
		ProrationMethod: req.ProrationMethod,
		EffectiveFrom:   effectiveFrom,
		EffectiveTo:     effectiveTo,
	}

	if err := qtx.Create(ctx, p); err != nil {
		s.logger.Error("create allowance policy failed", zap.Error(err))
		return PolicyResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("allowance policy created",
		zap.String("policy_id", p.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("name", req.Name),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) ([]PolicyResponse, error) {
	policies, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(policies), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error) {
	policies, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(policies), nil
}

// End closes the policy's effective window instead of deleting it, so past
// payroll runs keep their audit trail.
func (s *service) End(ctx context.Context, companyID, id string, req EndPolicyRequest) (PolicyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PolicyResponse{}, allowanceerrors.ErrInvalidPolicyID
	}

	effectiveTo, err := time.Parse("2006-01-02", req.EffectiveTo)
	if err != nil {
		return PolicyResponse{}, allowanceerrors.ErrInvalidDateFormat
	}

	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyResponse{}, allowanceerrors.ErrPolicyNotFound
		}
		return PolicyResponse{}, err
	}
	if p.EffectiveTo != nil {
		return PolicyResponse{}, allowanceerrors.ErrPolicyAlreadyEnded
	}
	if effectiveTo.Before(p.EffectiveFrom) {
		return PolicyResponse{}, allowanceerrors.ErrInvalidEffectiveRange
	}

	p.EffectiveTo = &effectiveTo
	if err := s.repo.Update(ctx, p); err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("allowance policy ended",
		zap.String("policy_id", id),
		zap.String("effective_to", req.EffectiveTo),
	)
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return allowanceerrors.ErrInvalidPolicyID
	}

	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return allowanceerrors.ErrPolicyNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, companyID, id)
}

// SeedDefaultPolicies creates the default transport allowance for a newly
// hired employee. Safe to call more than once; redelivered events are
// detected by the policy name.
func (s *service) SeedDefaultPolicies(ctx context.Context, companyID, employeeID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.HasPolicyNamed(ctx, companyID, employeeID, defaultTransportPolicyName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	ref, err := qtx.FindEmployeeRef(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return allowanceerrors.ErrEmployeeNotInCompany
		}
		return err
	}

	amount := decimal.NewFromInt(ref.BaseSalary).Mul(defaultTransportPct).Round(0).IntPart()
	if amount <= 0 {
		return nil
	}

	p := &Policy{
		ID:              uuid.New(),
		CompanyID:       ref.CompanyID,
		EmployeeID:      ref.ID,
		Name:            defaultTransportPolicyName,
		MonthlyAmount:   amount,
		ProrationMethod: ProrationCalendarDays,
		EffectiveFrom:   ref.HireDate,
	}

	if err := qtx.Create(ctx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("default transport allowance seeded",
		zap.String("employee_id", employeeID),
		zap.Int64("monthly_amount", amount),
	)
	return nil
}

func mapToResponse(p Policy) PolicyResponse {
	resp := PolicyResponse{
		ID:              p.ID.String(),
		EmployeeID:      p.EmployeeID.String(),
		Name:            p.Name,
		MonthlyAmount:   p.MonthlyAmount,
		ProrationMethod: p.ProrationMethod,
		EffectiveFrom:   p.EffectiveFrom.Format("2006-01-02"),
	}
	if p.EffectiveTo != nil {
		v := p.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}

func mapToListResponse(policies []Policy) []PolicyResponse {
	resp := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		resp = append(resp, mapToResponse(p))
	}
	return resp
}
