package payroll_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-rateb/internal/company"
	"go-rateb/internal/events"
	"go-rateb/internal/messaging/kafka"
	"go-rateb/internal/payroll"
	payrollerrors "go-rateb/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn               func(tx *sql.Tx) payroll.Repository
	createPeriodFn         func(ctx context.Context, p *payroll.Period) error
	findPeriodByIDFn       func(ctx context.Context, companyID, id string) (*payroll.Period, error)
	findPeriodsFn          func(ctx context.Context, companyID string) ([]payroll.Period, error)
	createRunFn            func(ctx context.Context, r *payroll.Run) error
	findRunByIDFn          func(ctx context.Context, companyID, id string) (*payroll.Run, error)
	findRunByIDForUpdateFn func(ctx context.Context, companyID, id string) (*payroll.Run, error)
	findRunByPeriodFn      func(ctx context.Context, companyID, periodID string) (*payroll.Run, error)
	findRunsByCompanyFn    func(ctx context.Context, companyID string) ([]payroll.Run, error)
	updateRunFn            func(ctx context.Context, r *payroll.Run) error
	deleteLinesForRunFn    func(ctx context.Context, companyID, runID string) error
	createLinesFn          func(ctx context.Context, lines []payroll.Line) error
	findLinesForRunFn      func(ctx context.Context, companyID, runID string) ([]payroll.Line, error)
	listActiveEmployeesFn  func(ctx context.Context, companyID string) ([]payroll.CalcEmployee, error)
	approvedOvertimeSumsFn func(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]payroll.OvertimeSum, error)
	approvedUnpaidDaysFn   func(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error)
	adjustmentSumsFn       func(ctx context.Context, companyID, employeeID string, year, month int) (int64, int64, error)
	allowancePoliciesFn    func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]payroll.PolicyRead, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) CreatePeriod(ctx context.Context, p *payroll.Period) error {
	if f.createPeriodFn != nil {
		return f.createPeriodFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindPeriodByID(ctx context.Context, companyID, id string) (*payroll.Period, error) {
	if f.findPeriodByIDFn != nil {
		return f.findPeriodByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindPeriods(ctx context.Context, companyID string) ([]payroll.Period, error) {
	if f.findPeriodsFn != nil {
		return f.findPeriodsFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) CreateRun(ctx context.Context, r *payroll.Run) error {
	if f.createRunFn != nil {
		return f.createRunFn(ctx, r)
	}
	return nil
}

func (f *fakePayrollRepository) FindRunByID(ctx context.Context, companyID, id string) (*payroll.Run, error) {
	if f.findRunByIDFn != nil {
		return f.findRunByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindRunByIDForUpdate(ctx context.Context, companyID, id string) (*payroll.Run, error) {
	if f.findRunByIDForUpdateFn != nil {
		return f.findRunByIDForUpdateFn(ctx, companyID, id)
	}
	return f.FindRunByID(ctx, companyID, id)
}

func (f *fakePayrollRepository) FindRunByPeriod(ctx context.Context, companyID, periodID string) (*payroll.Run, error) {
	if f.findRunByPeriodFn != nil {
		return f.findRunByPeriodFn(ctx, companyID, periodID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindRunsByCompany(ctx context.Context, companyID string) ([]payroll.Run, error) {
	if f.findRunsByCompanyFn != nil {
		return f.findRunsByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) UpdateRun(ctx context.Context, r *payroll.Run) error {
	if f.updateRunFn != nil {
		return f.updateRunFn(ctx, r)
	}
	return nil
}

func (f *fakePayrollRepository) DeleteLinesForRun(ctx context.Context, companyID, runID string) error {
	if f.deleteLinesForRunFn != nil {
		return f.deleteLinesForRunFn(ctx, companyID, runID)
	}
	return nil
}

func (f *fakePayrollRepository) CreateLines(ctx context.Context, lines []payroll.Line) error {
	if f.createLinesFn != nil {
		return f.createLinesFn(ctx, lines)
	}
	return nil
}

func (f *fakePayrollRepository) FindLinesForRun(ctx context.Context, companyID, runID string) ([]payroll.Line, error) {
	if f.findLinesForRunFn != nil {
		return f.findLinesForRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) ListActiveEmployees(ctx context.Context, companyID string) ([]payroll.CalcEmployee, error) {
	if f.listActiveEmployeesFn != nil {
		return f.listActiveEmployeesFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) ApprovedOvertimeSums(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]payroll.OvertimeSum, error) {
	if f.approvedOvertimeSumsFn != nil {
		return f.approvedOvertimeSumsFn(ctx, companyID, employeeID, from, to)
	}
	return nil, nil
}

func (f *fakePayrollRepository) ApprovedUnpaidDays(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error) {
	if f.approvedUnpaidDaysFn != nil {
		return f.approvedUnpaidDaysFn(ctx, companyID, employeeID, from, to)
	}
	return 0, nil
}

func (f *fakePayrollRepository) AdjustmentSums(ctx context.Context, companyID, employeeID string, year, month int) (int64, int64, error) {
	if f.adjustmentSumsFn != nil {
		return f.adjustmentSumsFn(ctx, companyID, employeeID, year, month)
	}
	return 0, 0, nil
}

func (f *fakePayrollRepository) AllowancePolicies(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]payroll.PolicyRead, error) {
	if f.allowancePoliciesFn != nil {
		return f.allowancePoliciesFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil, nil
}

type fakePolicySource struct {
	resolveFn func(ctx context.Context, companyID string) (company.PayrollPolicy, error)
}

func (f *fakePolicySource) ResolvePayrollPolicy(ctx context.Context, companyID string) (company.PayrollPolicy, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, companyID)
	}
	return testPolicy(), nil
}

type fakeLoanLedger struct {
	consumeFn func(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year, month int, runID string) (int64, error)
	releaseFn func(ctx context.Context, tx *sql.Tx, companyID, runID string) error
}

func (f *fakeLoanLedger) ConsumeDueForRun(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year, month int, runID string) (int64, error) {
	if f.consumeFn != nil {
		return f.consumeFn(ctx, tx, companyID, employeeID, year, month, runID)
	}
	return 0, nil
}

func (f *fakeLoanLedger) ReleaseForRun(ctx context.Context, tx *sql.Tx, companyID, runID string) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, tx, companyID, runID)
	}
	return nil
}

type fakeApprovalGate struct {
	isApprovableFn func(ctx context.Context, tx *sql.Tx, companyID, runID string) (bool, error)
}

func (f *fakeApprovalGate) IsRunApprovable(ctx context.Context, tx *sql.Tx, companyID, runID string) (bool, error) {
	if f.isApprovableFn != nil {
		return f.isApprovableFn(ctx, tx, companyID, runID)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payroll.Service
	repo    *fakePayrollRepository
	loans   *fakeLoanLedger
	gate    *fakeApprovalGate
	outbox  *fakeOutboxRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	loans := &fakeLoanLedger{}
	gate := &fakeApprovalGate{}
	outbox := &fakeOutboxRepository{}
	svc := payroll.NewService(db, repo, &fakePolicySource{}, loans, gate, outbox, nil)

	return &payrollServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		loans:   loans,
		gate:    gate,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPayrollService_CreatePeriod_Duplicate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.createPeriodFn = func(ctx context.Context, p *payroll.Period) error {
		return errors.New(`ERROR: duplicate key value violates unique constraint "uq_payroll_period"`)
	}

	_, err := deps.service.CreatePeriod(ctx, companyID, payroll.CreatePeriodRequest{Year: 2025, Month: 8})

	assert.ErrorIs(t, err, payrollerrors.ErrPeriodAlreadyExists)
}

func TestPayrollService_Calculate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	period := &payroll.Period{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Year:      2025,
		Month:     4,
	}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findPeriodByIDFn = func(ctx context.Context, cid, id string) (*payroll.Period, error) {
		return period, nil
	}

	var createdRun *payroll.Run
	deps.repo.createRunFn = func(ctx context.Context, r *payroll.Run) error {
		createdRun = r
		return nil
	}
	deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
		return createdRun, nil
	}

	emp := testEmployee()
	deps.repo.listActiveEmployeesFn = func(ctx context.Context, cid string) ([]payroll.CalcEmployee, error) {
		return []payroll.CalcEmployee{emp}, nil
	}
	deps.loans.consumeFn = func(ctx context.Context, tx *sql.Tx, cid, eid string, year, month int, runID string) (int64, error) {
		assert.NotNil(t, tx)
		assert.Equal(t, emp.ID.String(), eid)
		assert.Equal(t, 2025, year)
		assert.Equal(t, 4, month)
		return 30000, nil
	}

	var savedLines []payroll.Line
	deps.repo.createLinesFn = func(ctx context.Context, lines []payroll.Line) error {
		savedLines = lines
		return nil
	}
	deps.repo.findLinesForRunFn = func(ctx context.Context, cid, runID string) ([]payroll.Line, error) {
		return savedLines, nil
	}

	resp, err := deps.service.Calculate(ctx, companyID, period.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusCalculated, resp.Status)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, 4, resp.Month)
	assert.Equal(t, 1, resp.LineCount)
	assert.Len(t, savedLines, 1)
	assert.Equal(t, int64(30000), savedLines[0].LoanDeduction)
	assert.Equal(t, savedLines[0].NetPay, resp.TotalNetPay)
	assert.NotNil(t, createdRun.CalculatedAt)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_Recalculation(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	period := &payroll.Period{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Year: 2025, Month: 4}
	run := &payroll.Run{
		ID:        uuid.New(),
		CompanyID: period.CompanyID,
		PeriodID:  period.ID,
		Status:    payroll.RunStatusCalculated,
		Period:    period,
	}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findPeriodByIDFn = func(ctx context.Context, cid, id string) (*payroll.Period, error) {
		return period, nil
	}
	deps.repo.findRunByPeriodFn = func(ctx context.Context, cid, periodID string) (*payroll.Run, error) {
		return run, nil
	}
	deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
		return run, nil
	}
	deps.repo.listActiveEmployeesFn = func(ctx context.Context, cid string) ([]payroll.CalcEmployee, error) {
		return []payroll.CalcEmployee{testEmployee()}, nil
	}

	released := false
	deps.loans.releaseFn = func(ctx context.Context, tx *sql.Tx, cid, runID string) error {
		released = true
		assert.NotNil(t, tx)
		assert.Equal(t, run.ID.String(), runID)
		return nil
	}
	deleted := false
	deps.repo.deleteLinesForRunFn = func(ctx context.Context, cid, runID string) error {
		deleted = true
		return nil
	}

	_, err := deps.service.Calculate(ctx, companyID, period.ID.String())

	assert.NoError(t, err)
	assert.True(t, released)
	assert.True(t, deleted)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_ApprovedRunRejected(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	period := &payroll.Period{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Year: 2025, Month: 4}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findPeriodByIDFn = func(ctx context.Context, cid, id string) (*payroll.Period, error) {
		return period, nil
	}
	deps.repo.findRunByPeriodFn = func(ctx context.Context, cid, periodID string) (*payroll.Run, error) {
		return &payroll.Run{ID: uuid.New(), Status: payroll.RunStatusApproved, Period: period}, nil
	}

	_, err := deps.service.Calculate(ctx, companyID, period.ID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrRunNotCalculable)
}

func TestPayrollService_Calculate_NoActiveEmployees(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	period := &payroll.Period{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Year: 2025, Month: 4}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	deps.repo.findPeriodByIDFn = func(ctx context.Context, cid, id string) (*payroll.Period, error) {
		return period, nil
	}
	deps.repo.findRunByPeriodFn = func(ctx context.Context, cid, periodID string) (*payroll.Run, error) {
		return &payroll.Run{ID: uuid.New(), Status: payroll.RunStatusDraft, Period: period}, nil
	}

	_, err := deps.service.Calculate(ctx, companyID, period.ID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrNoActiveEmployees)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	period := &payroll.Period{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Year: 2025, Month: 4}
	run := &payroll.Run{
		ID:        uuid.New(),
		CompanyID: period.CompanyID,
		PeriodID:  period.ID,
		Status:    payroll.RunStatusCalculated,
		Period:    period,
	}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
		return run, nil
	}
	deps.gate.isApprovableFn = func(ctx context.Context, tx *sql.Tx, cid, runID string) (bool, error) {
		assert.NotNil(t, tx)
		return true, nil
	}

	var published kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		published = event
		return nil
	}

	resp, err := deps.service.Approve(ctx, companyID, run.ID.String(), actorID)

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusApproved, resp.Status)
	assert.NotNil(t, resp.ApprovedAt)
	assert.Equal(t, events.RunApprovedTopic, published.Topic)
	assert.Equal(t, run.ID.String(), published.AggregateID)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Approve_GovernanceNotSatisfied(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	run := &payroll.Run{ID: uuid.New(), Status: payroll.RunStatusCalculated}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
		return run, nil
	}
	deps.gate.isApprovableFn = func(ctx context.Context, tx *sql.Tx, cid, runID string) (bool, error) {
		return false, nil
	}

	_, err := deps.service.Approve(ctx, companyID, run.ID.String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrGovernanceNotSatisfied)
	assert.Equal(t, payroll.RunStatusCalculated, run.Status)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Approve_StatusChangedUnderLock(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	run := &payroll.Run{ID: uuid.New(), Status: payroll.RunStatusCalculated}

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
		return run, nil
	}
	// A concurrent approval won the row lock first.
	deps.repo.findRunByIDForUpdateFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
		return &payroll.Run{ID: run.ID, Status: payroll.RunStatusApproved}, nil
	}
	deps.gate.isApprovableFn = func(ctx context.Context, tx *sql.Tx, cid, runID string) (bool, error) {
		t.Fatal("gate must not run once the locked re-read fails")
		return false, nil
	}

	_, err := deps.service.Approve(ctx, companyID, run.ID.String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrRunNotApprovable)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Approve_OnlyCalculated(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	for _, status := range []string{payroll.RunStatusDraft, payroll.RunStatusApproved, payroll.RunStatusLocked} {
		deps := setupPayrollServiceTest(t)

		deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
			return &payroll.Run{ID: uuid.MustParse(id), Status: status}, nil
		}

		_, err := deps.service.Approve(ctx, companyID, uuid.New().String(), uuid.New().String())

		assert.ErrorIs(t, err, payrollerrors.ErrRunNotApprovable, status)
		deps.db.Close()
	}
}

func TestPayrollService_Lock(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("approved run locks", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		run := &payroll.Run{ID: uuid.New(), Status: payroll.RunStatusApproved}
		deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
			return run, nil
		}

		resp, err := deps.service.Lock(ctx, companyID, run.ID.String(), actorID)

		assert.NoError(t, err)
		assert.Equal(t, payroll.RunStatusLocked, resp.Status)
		assert.NotNil(t, resp.LockedAt)
	})

	t.Run("calculated run rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findRunByIDFn = func(ctx context.Context, cid, id string) (*payroll.Run, error) {
			return &payroll.Run{ID: uuid.MustParse(id), Status: payroll.RunStatusCalculated}, nil
		}

		_, err := deps.service.Lock(ctx, companyID, uuid.New().String(), actorID)

		assert.ErrorIs(t, err, payrollerrors.ErrRunNotLockable)
	})
}

func TestPayrollService_RunNotFound(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetRun(ctx, companyID, uuid.New().String())
	assert.ErrorIs(t, err, payrollerrors.ErrRunNotFound)

	_, err = deps.service.GetRun(ctx, companyID, "not-a-uuid")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidRunID)
}
