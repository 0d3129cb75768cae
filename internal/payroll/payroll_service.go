package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-rateb/internal/company"
	"go-rateb/internal/events"
	"go-rateb/internal/messaging/kafka"
	payrollerrors "go-rateb/internal/payroll/errors"
	"go-rateb/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const calcLockTTL = 5 * time.Minute

func calcLockKey(runID string) string {
	return "payroll:calc:" + runID
}

// PolicySource resolves the tenant's statutory rates and bank profile.
type PolicySource interface {
	ResolvePayrollPolicy(ctx context.Context, companyID string) (company.PayrollPolicy, error)
}

// LoanLedger is the slice of the loan feature calculation depends on. Both
// operations join the calculation's transaction so installment claims commit
// or roll back with the lines.
type LoanLedger interface {
	ConsumeDueForRun(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year, month int, runID string) (int64, error)
	ReleaseForRun(ctx context.Context, tx *sql.Tx, companyID, runID string) error
}

// ApprovalGate answers whether governance allows approving a run. The fold
// reads the ledger on the approving transaction.
type ApprovalGate interface {
	IsRunApprovable(ctx context.Context, tx *sql.Tx, companyID, runID string) (bool, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreatePeriod(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error)
	ListPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error)
	Calculate(ctx context.Context, companyID, periodID string) (RunResponse, error)
	Approve(ctx context.Context, companyID, runID, actorID string) (RunResponse, error)
	Lock(ctx context.Context, companyID, runID, actorID string) (RunResponse, error)
	GetRun(ctx context.Context, companyID, runID string) (RunResponse, error)
	ListRuns(ctx context.Context, companyID string) ([]RunResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	policies PolicySource
	loans    LoanLedger
	gate     ApprovalGate
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	policies PolicySource,
	loans LoanLedger,
	gate ApprovalGate,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		policies: policies,
		loans:    loans,
		gate:     gate,
		outbox:   outboxRepo,
		rdb:      rdb,
		logger:   l,
	}
}

func (s *service) CreatePeriod(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error) {
	p := &Period{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Year:      req.Year,
		Month:     req.Month,
	}

	if err := s.repo.CreatePeriod(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return PeriodResponse{}, payrollerrors.ErrPeriodAlreadyExists
		}
		s.logger.Error("create payroll period failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	s.logger.Info("payroll period created",
		zap.String("period_id", p.ID.String()),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
	)
	return mapPeriod(*p), nil
}

func (s *service) ListPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error) {
	periods, err := s.repo.FindPeriods(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, mapPeriod(p))
	}
	return resp, nil
}

// Calculate builds (or rebuilds) every line of the period's run. The redis
// lock keeps concurrent calculations of the same run out; the line unique
// index is the backstop when the lock expires mid-flight, in which case the
// violated insert is retried once on a fresh snapshot.
func (s *service) Calculate(ctx context.Context, companyID, periodID string) (RunResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(periodID); err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidPeriodID
	}

	period, err := s.repo.FindPeriodByID(ctx, companyID, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return RunResponse{}, err
	}

	run, err := s.findOrCreateRun(ctx, companyID, period)
	if err != nil {
		return RunResponse{}, err
	}
	if run.Status != RunStatusDraft && run.Status != RunStatusCalculated {
		return RunResponse{}, payrollerrors.ErrRunNotCalculable
	}

	if s.rdb != nil {
		acquired, err := s.rdb.SetNX(ctx, calcLockKey(run.ID.String()), rid, calcLockTTL).Result()
		if err != nil {
			s.logger.Error("acquire calculation lock failed", zap.Error(err))
			return RunResponse{}, err
		}
		if !acquired {
			return RunResponse{}, payrollerrors.ErrCalculationInProgress
		}
		defer s.rdb.Del(context.WithoutCancel(ctx), calcLockKey(run.ID.String()))
	}

	err = s.calculateOnce(ctx, companyID, period, run)
	if err != nil && isUniqueViolation(err) {
		s.logger.Warn("calculation hit unique violation, retrying once",
			zap.String("run_id", run.ID.String()),
		)
		err = s.calculateOnce(ctx, companyID, period, run)
		if err != nil && isUniqueViolation(err) {
			return RunResponse{}, payrollerrors.ErrCalculationConflict
		}
	}
	if err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run calculated",
		zap.String("request_id", rid),
		zap.String("run_id", run.ID.String()),
		zap.Int("year", period.Year),
		zap.Int("month", period.Month),
	)
	return s.GetRun(ctx, companyID, run.ID.String())
}

func (s *service) calculateOnce(ctx context.Context, companyID string, period *Period, run *Run) error {
	policy, err := s.policies.ResolvePayrollPolicy(ctx, companyID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Give back the installments the previous calculation consumed, then
	// let this pass re-consume from a clean ledger.
	if err := s.loans.ReleaseForRun(ctx, tx, companyID, run.ID.String()); err != nil {
		return err
	}

	employees, err := qtx.ListActiveEmployees(ctx, companyID)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return payrollerrors.ErrNoActiveEmployees
	}

	periodStart, periodEnd := period.Start(), period.End()
	lines := make([]Line, 0, len(employees))

	for _, emp := range employees {
		employeeID := emp.ID.String()

		overtime, err := qtx.ApprovedOvertimeSums(ctx, companyID, employeeID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		unpaidDays, err := qtx.ApprovedUnpaidDays(ctx, companyID, employeeID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		adjAllowance, adjDeduction, err := qtx.AdjustmentSums(ctx, companyID, employeeID, period.Year, period.Month)
		if err != nil {
			return err
		}
		policies, err := qtx.AllowancePolicies(ctx, companyID, employeeID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		loanDeduction, err := s.loans.ConsumeDueForRun(ctx, tx, companyID, employeeID, period.Year, period.Month, run.ID.String())
		if err != nil {
			return err
		}

		line, err := BuildLine(run.ID, LineInputs{
			Employee:        emp,
			PeriodStart:     periodStart,
			PeriodEnd:       periodEnd,
			Policies:        policies,
			OvertimeSums:    overtime,
			AdjAllowance:    adjAllowance,
			AdjDeduction:    adjDeduction,
			UnpaidLeaveDays: unpaidDays,
			LoanDeduction:   loanDeduction,
		}, policy)
		if err != nil {
			s.logger.Error("build payroll line failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return err
		}

		lines = append(lines, line)
	}

	if err := qtx.DeleteLinesForRun(ctx, companyID, run.ID.String()); err != nil {
		return err
	}
	if err := qtx.CreateLines(ctx, lines); err != nil {
		return err
	}

	now := time.Now().UTC()
	run.Status = RunStatusCalculated
	run.CalculatedAt = &now
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return err
	}

	return tx.Commit()
}

// Approve moves CALCULATED to APPROVED after the governance engine confirms
// every mandatory stage is satisfied. The run row is re-read under FOR UPDATE
// and the fold runs on the same transaction, so a concurrent rollback either
// commits before the lock and is seen, or waits behind it.
func (s *service) Approve(ctx context.Context, companyID, runID, actorID string) (RunResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	run, err := s.findRun(ctx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}
	if run.Status != RunStatusCalculated {
		return RunResponse{}, payrollerrors.ErrRunNotApprovable
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err = qtx.FindRunByIDForUpdate(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	if run.Status != RunStatusCalculated {
		return RunResponse{}, payrollerrors.ErrRunNotApprovable
	}

	approvable, err := s.gate.IsRunApprovable(ctx, tx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}
	if !approvable {
		return RunResponse{}, payrollerrors.ErrGovernanceNotSatisfied
	}

	now := time.Now().UTC()
	run.Status = RunStatusApproved
	run.ApprovedAt = &now
	run.ApprovedBy = &actorUUID
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if s.outbox != nil {
		event := events.RunApprovedEvent{
			EventType:  "payroll_run_approved",
			RunID:      runID,
			PeriodID:   run.PeriodID.String(),
			CompanyID:  companyID,
			ApprovedBy: actorID,
			OccurredAt: now,
		}
		if run.Period != nil {
			event.Year = run.Period.Year
			event.Month = run.Period.Month
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return RunResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll_run",
			AggregateID:   runID,
			EventType:     event.EventType,
			Topic:         events.RunApprovedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run approved",
		zap.String("request_id", rid),
		zap.String("run_id", runID),
		zap.String("approved_by", actorID),
	)
	return s.GetRun(ctx, companyID, runID)
}

// Lock is terminal. A locked run never changes again.
func (s *service) Lock(ctx context.Context, companyID, runID, actorID string) (RunResponse, error) {
	run, err := s.findRun(ctx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}
	if run.Status != RunStatusApproved {
		return RunResponse{}, payrollerrors.ErrRunNotLockable
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	now := time.Now().UTC()
	run.Status = RunStatusLocked
	run.LockedAt = &now
	run.LockedBy = &actorUUID
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run locked",
		zap.String("run_id", runID),
		zap.String("locked_by", actorID),
	)
	return s.GetRun(ctx, companyID, runID)
}

func (s *service) GetRun(ctx context.Context, companyID, runID string) (RunResponse, error) {
	run, err := s.findRun(ctx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}

	lines, err := s.repo.FindLinesForRun(ctx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}

	return mapRun(*run, lines, true), nil
}

func (s *service) ListRuns(ctx context.Context, companyID string) ([]RunResponse, error) {
	runs, err := s.repo.FindRunsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, mapRun(run, nil, false))
	}
	return resp, nil
}

func (s *service) findOrCreateRun(ctx context.Context, companyID string, period *Period) (*Run, error) {
	run, err := s.repo.FindRunByPeriod(ctx, companyID, period.ID.String())
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	run = &Run{
		ID:        uuid.New(),
		CompanyID: period.CompanyID,
		PeriodID:  period.ID,
		Status:    RunStatusDraft,
		Period:    period,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		// Concurrent creation lost the race; use the winner's run.
		if isUniqueViolation(err) {
			return s.repo.FindRunByPeriod(ctx, companyID, period.ID.String())
		}
		return nil, err
	}
	return run, nil
}

func (s *service) findRun(ctx context.Context, companyID, runID string) (*Run, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, payrollerrors.ErrInvalidRunID
	}
	run, err := s.repo.FindRunByID(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapPeriod(p Period) PeriodResponse {
	return PeriodResponse{
		ID:    p.ID.String(),
		Year:  p.Year,
		Month: p.Month,
	}
}

func mapRun(run Run, lines []Line, withLines bool) RunResponse {
	resp := RunResponse{
		ID:       run.ID.String(),
		PeriodID: run.PeriodID.String(),
		Status:   run.Status,
	}
	if run.Period != nil {
		resp.Year = run.Period.Year
		resp.Month = run.Period.Month
	}
	if run.CalculatedAt != nil {
		v := run.CalculatedAt.Format(time.RFC3339)
		resp.CalculatedAt = &v
	}
	if run.ApprovedAt != nil {
		v := run.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if run.LockedAt != nil {
		v := run.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &v
	}

	resp.LineCount = len(lines)
	for _, line := range lines {
		resp.TotalNetPay += line.NetPay
	}
	if withLines {
		resp.Lines = make([]LineResponse, 0, len(lines))
		for _, line := range lines {
			resp.Lines = append(resp.Lines, mapLine(line))
		}
	}
	return resp
}

func mapLine(l Line) LineResponse {
	return LineResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		EmployeeNumber: l.EmployeeNumber,
		EmployeeName:   l.EmployeeName,
		Nationality:    l.Nationality,
		BankName:       l.BankName,
		BankIban:       l.BankIban,

		BasePay:              l.BasePay,
		AllowanceTotal:       l.AllowanceTotal,
		OvertimePay:          l.OvertimePay,
		ManualDeduction:      l.ManualDeduction,
		UnpaidLeaveDeduction: l.UnpaidLeaveDeduction,
		LoanDeduction:        l.LoanDeduction,

		GosiEligible:         l.GosiEligible,
		GosiBasicWage:        l.GosiBasicWage,
		GosiHousingAllowance: l.GosiHousingAllowance,
		GosiWageBase:         l.GosiWageBase,
		GosiEmployee:         l.GosiEmployee,
		GosiEmployer:         l.GosiEmployer,

		UnpaidLeaveDays: l.UnpaidLeaveDays,
		OvertimeHours:   l.OvertimeHours.String(),

		NetPay: l.NetPay,
	}
}
