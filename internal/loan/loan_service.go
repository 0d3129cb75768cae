package loan

import (
	"context"
	"database/sql"
	"errors"

	loanerrors "go-rateb/internal/loan/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLoanRequest) (LoanResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LoanResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) ([]LoanResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LoanResponse, error)
	Reschedule(ctx context.Context, companyID, id string, req RescheduleLoanRequest) (LoanResponse, error)
	SkipInstallment(ctx context.Context, companyID, id string, req SkipInstallmentRequest) (LoanResponse, error)
	Settle(ctx context.Context, companyID, id string) (LoanResponse, error)

	// Payroll-facing ledger operations. Both run on the calculation's
	// transaction when one is given, so a mid-run abort leaves no
	// half-consumed installments behind.
	ConsumeDueForRun(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year, month int, runID string) (int64, error)
	ReleaseForRun(ctx context.Context, tx *sql.Tx, companyID, runID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLoanRequest) (LoanResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidActorID
	}

	if err := ValidateTerms(req.Principal, req.InstallmentAmount, req.TotalInstallments); err != nil {
		return LoanResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return LoanResponse{}, err
	}
	if !belongs {
		return LoanResponse{}, loanerrors.ErrEmployeeNotInCompany
	}

	l := &Loan{
		ID:                uuid.New(),
		CompanyID:         uuid.MustParse(companyID),
		EmployeeID:        uuid.MustParse(req.EmployeeID),
		Principal:         req.Principal,
		InstallmentAmount: req.InstallmentAmount,
		TotalInstallments: req.TotalInstallments,
		RemainingBalance:  req.Principal,
		Status:            LoanStatusActive,
		StartYear:         req.StartYear,
		StartMonth:        req.StartMonth,
		Reason:            req.Reason,
		CreatedBy:         actorUUID,
	}

	if err := qtx.CreateLoan(ctx, l); err != nil {
		s.logger.Error("create loan persist failed", zap.Error(err))
		return LoanResponse{}, err
	}

	installments := BuildSchedule(l)
	if err := qtx.CreateInstallments(ctx, installments); err != nil {
		s.logger.Error("create loan schedule persist failed", zap.Error(err))
		return LoanResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	l.Installments = installments
	s.logger.Info("loan created",
		zap.String("loan_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("principal", req.Principal),
		zap.Int("total_installments", req.TotalInstallments),
	)
	return mapToResponse(*l, true), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LoanResponse, error) {
	loans, err := s.repo.FindLoansByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(loans), nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) ([]LoanResponse, error) {
	loans, err := s.repo.FindLoansByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(loans), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LoanResponse, error) {
	l, err := s.findLoan(ctx, companyID, id)
	if err != nil {
		return LoanResponse{}, err
	}
	return mapToResponse(*l, true), nil
}

// Reschedule moves all still-pending installments to a new consecutive
// window. Deducted history stays where it is.
func (s *service) Reschedule(ctx context.Context, companyID, id string, req RescheduleLoanRequest) (LoanResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.findLoanWith(ctx, qtx, companyID, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if err := s.guardLifecycle(ctx, qtx, companyID, l); err != nil {
		return LoanResponse{}, err
	}

	if err := qtx.ShiftPendingInstallments(ctx, id, req.StartYear, req.StartMonth); err != nil {
		s.logger.Error("reschedule loan failed", zap.String("loan_id", id), zap.Error(err))
		return LoanResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan rescheduled",
		zap.String("loan_id", id),
		zap.Int("start_year", req.StartYear),
		zap.Int("start_month", req.StartMonth),
	)
	return s.GetByID(ctx, companyID, id)
}

// SkipInstallment pushes one month's installment to the end of the
// schedule: the skipped row is marked SKIPPED and an equal replacement is
// appended after the current last installment.
func (s *service) SkipInstallment(ctx context.Context, companyID, id string, req SkipInstallmentRequest) (LoanResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.findLoanWith(ctx, qtx, companyID, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if err := s.guardLifecycle(ctx, qtx, companyID, l); err != nil {
		return LoanResponse{}, err
	}

	inst, err := qtx.FindPendingInstallment(ctx, companyID, id, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoanResponse{}, loanerrors.ErrInstallmentNotFound
		}
		return LoanResponse{}, err
	}

	lastSeq := 0
	lastYear, lastMonth := req.Year, req.Month
	for _, existing := range l.Installments {
		if existing.Sequence > lastSeq {
			lastSeq = existing.Sequence
			lastYear, lastMonth = existing.Year, existing.Month
		}
	}
	nextYear, nextMonth := followingMonth(lastYear, lastMonth)

	inst.Status = InstallmentSkipped
	if err := qtx.UpdateInstallment(ctx, inst); err != nil {
		return LoanResponse{}, err
	}

	replacement := []Installment{{
		ID:         uuid.New(),
		CompanyID:  inst.CompanyID,
		LoanID:     inst.LoanID,
		EmployeeID: inst.EmployeeID,
		Sequence:   lastSeq + 1,
		Year:       nextYear,
		Month:      nextMonth,
		Amount:     inst.Amount,
		Status:     InstallmentPending,
	}}
	if err := qtx.CreateInstallments(ctx, replacement); err != nil {
		return LoanResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan installment skipped",
		zap.String("loan_id", id),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
	)
	return s.GetByID(ctx, companyID, id)
}

// Settle closes the loan outside payroll, e.g. a cash repayment or an end
// of service offset. Pending installments are retired.
func (s *service) Settle(ctx context.Context, companyID, id string) (LoanResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.findLoanWith(ctx, qtx, companyID, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if err := s.guardLifecycle(ctx, qtx, companyID, l); err != nil {
		return LoanResponse{}, err
	}

	if err := qtx.CancelPendingInstallments(ctx, id); err != nil {
		return LoanResponse{}, err
	}

	l.Status = LoanStatusSettled
	l.RemainingBalance = 0
	if err := qtx.UpdateLoan(ctx, l); err != nil {
		return LoanResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan settled", zap.String("loan_id", id))
	return s.GetByID(ctx, companyID, id)
}

// ConsumeDueForRun deducts at most one pending installment due in the given
// month. Returns the deducted amount, 0 when nothing is due or a concurrent
// calculation already consumed it.
func (s *service) ConsumeDueForRun(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year, month int, runID string) (int64, error) {
	repo := s.ledgerRepo(tx)

	inst, err := repo.FindDueInstallment(ctx, companyID, employeeID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	claimed, err := repo.MarkInstallmentDeducted(ctx, inst.ID.String(), runID)
	if err != nil {
		return 0, err
	}
	if !claimed {
		return 0, nil
	}

	if err := repo.AdjustLoanProgress(ctx, inst.LoanID.String(), 1, inst.Amount); err != nil {
		return 0, err
	}

	s.logger.Debug("loan installment consumed",
		zap.String("installment_id", inst.ID.String()),
		zap.String("run_id", runID),
		zap.Int64("amount", inst.Amount),
	)
	return inst.Amount, nil
}

// ReleaseForRun undoes a run's consumption before recalculation.
func (s *service) ReleaseForRun(ctx context.Context, tx *sql.Tx, companyID, runID string) error {
	repo := s.ledgerRepo(tx)

	released, err := repo.ReleaseInstallmentsForRun(ctx, companyID, runID)
	if err != nil {
		return err
	}

	for _, inst := range released {
		if err := repo.AdjustLoanProgress(ctx, inst.LoanID.String(), -1, -inst.Amount); err != nil {
			return err
		}
	}

	if len(released) > 0 {
		s.logger.Info("loan installments released for recalculation",
			zap.String("run_id", runID),
			zap.Int("count", len(released)),
		)
	}
	return nil
}

func (s *service) ledgerRepo(tx *sql.Tx) Repository {
	if tx != nil {
		return s.repo.WithTx(tx)
	}
	return s.repo
}

func (s *service) findLoan(ctx context.Context, companyID, id string) (*Loan, error) {
	return s.findLoanWith(ctx, s.repo, companyID, id)
}

func (s *service) findLoanWith(ctx context.Context, repo Repository, companyID, id string) (*Loan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, loanerrors.ErrInvalidLoanID
	}
	l, err := repo.FindLoanByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanerrors.ErrLoanNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) guardLifecycle(ctx context.Context, repo Repository, companyID string, l *Loan) error {
	if l.Status != LoanStatusActive {
		return loanerrors.ErrLoanNotActive
	}
	inFlight, err := repo.HasInstallmentInOpenRun(ctx, companyID, l.ID.String())
	if err != nil {
		return err
	}
	if inFlight {
		return loanerrors.ErrLoanInFlightRun
	}
	return nil
}

func followingMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

func mapToResponse(l Loan, withInstallments bool) LoanResponse {
	resp := LoanResponse{
		ID:                l.ID.String(),
		EmployeeID:        l.EmployeeID.String(),
		Principal:         l.Principal,
		InstallmentAmount: l.InstallmentAmount,
		TotalInstallments: l.TotalInstallments,
		PaidInstallments:  l.PaidInstallments,
		RemainingBalance:  l.RemainingBalance,
		Status:            l.Status,
		StartYear:         l.StartYear,
		StartMonth:        l.StartMonth,
		Reason:            l.Reason,
	}
	if withInstallments {
		resp.Installments = make([]InstallmentResponse, 0, len(l.Installments))
		for _, inst := range l.Installments {
			item := InstallmentResponse{
				ID:       inst.ID.String(),
				Sequence: inst.Sequence,
				Year:     inst.Year,
				Month:    inst.Month,
				Amount:   inst.Amount,
				Status:   inst.Status,
			}
			if inst.PayrollRunID != nil {
				v := inst.PayrollRunID.String()
				item.PayrollRunID = &v
			}
			resp.Installments = append(resp.Installments, item)
		}
	}
	return resp
}

func mapToListResponse(loans []Loan) []LoanResponse {
	resp := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, mapToResponse(l, false))
	}
	return resp
}
