package settlement

import (
	"context"
	"errors"
	"time"

	"go-rateb/internal/company"
	"go-rateb/internal/eos"
	settlementerrors "go-rateb/internal/settlement/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PolicySource hands the estimate the tenant's EOS month factors.
type PolicySource interface {
	ResolvePayrollPolicy(ctx context.Context, companyID string) (company.PayrollPolicy, error)
}

//go:generate mockgen -source=settlement_service.go -destination=mock/settlement_service_mock.go -package=mock
type Service interface {
	Estimate(ctx context.Context, companyID string, req EstimateRequest) (EstimateResponse, error)
}

type service struct {
	repo     Repository
	policies PolicySource
	logger   *zap.Logger
}

func NewService(repo Repository, policies PolicySource, logger ...*zap.Logger) Service {
	l := zap.L().Named("settlement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settlement.service")
	}
	return &service{repo: repo, policies: policies, logger: l}
}

// Estimate computes a final-settlement preview. It never writes anything:
// the figure depends on termination date and live policy, so callers rerun
// it rather than trusting a stored value.
func (s *service) Estimate(ctx context.Context, companyID string, req EstimateRequest) (EstimateResponse, error) {
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return EstimateResponse{}, settlementerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EstimateResponse{}, settlementerrors.ErrEmployeeNotFound
		}
		return EstimateResponse{}, err
	}

	terminationDate, err := resolveTerminationDate(req.TerminationDate, empl)
	if err != nil {
		return EstimateResponse{}, err
	}

	policy, err := s.policies.ResolvePayrollPolicy(ctx, companyID)
	if err != nil {
		return EstimateResponse{}, err
	}

	unpaidLeave, manual, err := s.repo.PayrollDeductionSums(ctx, companyID, req.EmployeeID)
	if err != nil {
		return EstimateResponse{}, err
	}

	result, err := eos.CalculateSettlement(eos.SettlementInput{
		Input: eos.Input{
			StartDate:       empl.HireDate,
			TerminationDate: terminationDate,
			BaseSalary:      empl.BaseSalary,
		},
		UnpaidLeaveDeduction:        unpaidLeave,
		ManualDeductionsFromPayroll: manual,
		AdditionalManualDeduction:   req.AdditionalManualDeduction,
	}, policy.EosFactors)
	if err != nil {
		return EstimateResponse{}, err
	}

	s.logger.Info("settlement estimated",
		zap.String("employee_id", req.EmployeeID),
		zap.String("termination_date", terminationDate.Format("2006-01-02")),
		zap.Int64("net_settlement", result.NetSettlement),
	)

	return EstimateResponse{
		EmployeeID:      empl.ID.String(),
		EmployeeNumber:  empl.EmployeeNumber,
		EmployeeName:    empl.FullName,
		HireDate:        empl.HireDate.Format("2006-01-02"),
		TerminationDate: terminationDate.Format("2006-01-02"),

		ServiceYears: result.Eos.ServiceYears.StringFixed(2),
		EosMonths:    result.Eos.EosMonths.StringFixed(2),
		EosAmount:    result.Eos.EosAmount,

		UnpaidLeaveDeduction:        unpaidLeave,
		ManualDeductionsFromPayroll: manual,
		AdditionalManualDeduction:   req.AdditionalManualDeduction,

		NetSettlement: result.NetSettlement,
	}, nil
}

func resolveTerminationDate(raw string, empl *EmployeeRead) (time.Time, error) {
	if raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, settlementerrors.ErrInvalidTerminationDate
		}
		return parsed, nil
	}
	if empl.TerminationDate != nil {
		return *empl.TerminationDate, nil
	}
	return time.Time{}, settlementerrors.ErrNoTerminationDate
}
