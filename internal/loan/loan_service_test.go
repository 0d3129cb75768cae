package loan_test

import (
	"context"
	"database/sql"
	"testing"

	"go-rateb/internal/loan"
	loanerrors "go-rateb/internal/loan/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLoanRepository struct {
	withTxFn                    func(tx *sql.Tx) loan.Repository
	createLoanFn                func(ctx context.Context, l *loan.Loan) error
	createInstallmentsFn        func(ctx context.Context, installments []loan.Installment) error
	findLoanByIDFn              func(ctx context.Context, companyID, id string) (*loan.Loan, error)
	findLoansByCompanyFn        func(ctx context.Context, companyID string) ([]loan.Loan, error)
	findLoansByEmployeeFn       func(ctx context.Context, companyID, employeeID string) ([]loan.Loan, error)
	updateLoanFn                func(ctx context.Context, l *loan.Loan) error
	findDueInstallmentFn        func(ctx context.Context, companyID, employeeID string, year, month int) (*loan.Installment, error)
	findPendingInstallmentFn    func(ctx context.Context, companyID, loanID string, year, month int) (*loan.Installment, error)
	markInstallmentDeductedFn   func(ctx context.Context, installmentID, runID string) (bool, error)
	releaseInstallmentsForRunFn func(ctx context.Context, companyID, runID string) ([]loan.Installment, error)
	shiftPendingInstallmentsFn  func(ctx context.Context, loanID string, startYear, startMonth int) error
	updateInstallmentFn         func(ctx context.Context, inst *loan.Installment) error
	cancelPendingInstallmentsFn func(ctx context.Context, loanID string) error
	adjustLoanProgressFn        func(ctx context.Context, loanID string, installments int, amount int64) error
	hasInstallmentInOpenRunFn   func(ctx context.Context, companyID, loanID string) (bool, error)
	employeeBelongsToCompanyFn  func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeLoanRepository) WithTx(tx *sql.Tx) loan.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLoanRepository) CreateLoan(ctx context.Context, l *loan.Loan) error {
	if f.createLoanFn != nil {
		return f.createLoanFn(ctx, l)
	}
	return nil
}

func (f *fakeLoanRepository) CreateInstallments(ctx context.Context, installments []loan.Installment) error {
	if f.createInstallmentsFn != nil {
		return f.createInstallmentsFn(ctx, installments)
	}
	return nil
}

func (f *fakeLoanRepository) FindLoanByID(ctx context.Context, companyID, id string) (*loan.Loan, error) {
	if f.findLoanByIDFn != nil {
		return f.findLoanByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoanRepository) FindLoansByCompany(ctx context.Context, companyID string) ([]loan.Loan, error) {
	if f.findLoansByCompanyFn != nil {
		return f.findLoansByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLoanRepository) FindLoansByEmployee(ctx context.Context, companyID, employeeID string) ([]loan.Loan, error) {
	if f.findLoansByEmployeeFn != nil {
		return f.findLoansByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLoanRepository) UpdateLoan(ctx context.Context, l *loan.Loan) error {
	if f.updateLoanFn != nil {
		return f.updateLoanFn(ctx, l)
	}
	return nil
}

func (f *fakeLoanRepository) FindDueInstallment(ctx context.Context, companyID, employeeID string, year, month int) (*loan.Installment, error) {
	if f.findDueInstallmentFn != nil {
		return f.findDueInstallmentFn(ctx, companyID, employeeID, year, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoanRepository) FindPendingInstallment(ctx context.Context, companyID, loanID string, year, month int) (*loan.Installment, error) {
	if f.findPendingInstallmentFn != nil {
		return f.findPendingInstallmentFn(ctx, companyID, loanID, year, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoanRepository) MarkInstallmentDeducted(ctx context.Context, installmentID, runID string) (bool, error) {
	if f.markInstallmentDeductedFn != nil {
		return f.markInstallmentDeductedFn(ctx, installmentID, runID)
	}
	return true, nil
}

func (f *fakeLoanRepository) ReleaseInstallmentsForRun(ctx context.Context, companyID, runID string) ([]loan.Installment, error) {
	if f.releaseInstallmentsForRunFn != nil {
		return f.releaseInstallmentsForRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakeLoanRepository) ShiftPendingInstallments(ctx context.Context, loanID string, startYear, startMonth int) error {
	if f.shiftPendingInstallmentsFn != nil {
		return f.shiftPendingInstallmentsFn(ctx, loanID, startYear, startMonth)
	}
	return nil
}

func (f *fakeLoanRepository) UpdateInstallment(ctx context.Context, inst *loan.Installment) error {
	if f.updateInstallmentFn != nil {
		return f.updateInstallmentFn(ctx, inst)
	}
	return nil
}

func (f *fakeLoanRepository) CancelPendingInstallments(ctx context.Context, loanID string) error {
	if f.cancelPendingInstallmentsFn != nil {
		return f.cancelPendingInstallmentsFn(ctx, loanID)
	}
	return nil
}

func (f *fakeLoanRepository) AdjustLoanProgress(ctx context.Context, loanID string, installments int, amount int64) error {
	if f.adjustLoanProgressFn != nil {
		return f.adjustLoanProgressFn(ctx, loanID, installments, amount)
	}
	return nil
}

func (f *fakeLoanRepository) HasInstallmentInOpenRun(ctx context.Context, companyID, loanID string) (bool, error) {
	if f.hasInstallmentInOpenRunFn != nil {
		return f.hasInstallmentInOpenRunFn(ctx, companyID, loanID)
	}
	return false, nil
}

func (f *fakeLoanRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsToCompanyFn != nil {
		return f.employeeBelongsToCompanyFn(ctx, companyID, employeeID)
	}
	return true, nil
}

type loanServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service loan.Service
	repo    *fakeLoanRepository
}

func setupLoanServiceTest(t *testing.T) *loanServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLoanRepository{}
	svc := loan.NewService(db, repo)

	return &loanServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func TestLoanService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("creates loan with schedule", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var savedSchedule []loan.Installment
		deps.repo.createInstallmentsFn = func(ctx context.Context, installments []loan.Installment) error {
			savedSchedule = installments
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID:        employeeID,
			Principal:         480000,
			InstallmentAmount: 100000,
			TotalInstallments: 5,
			StartYear:         2025,
			StartMonth:        9,
		})

		assert.NoError(t, err)
		assert.Equal(t, loan.LoanStatusActive, resp.Status)
		assert.Equal(t, int64(480000), resp.RemainingBalance)
		assert.Len(t, savedSchedule, 5)
		assert.Equal(t, int64(80000), savedSchedule[4].Amount)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects a schedule that undershoots", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID:        employeeID,
			Principal:         600000,
			InstallmentAmount: 100000,
			TotalInstallments: 5,
			StartYear:         2025,
			StartMonth:        9,
		})

		assert.ErrorIs(t, err, loanerrors.ErrScheduleTooShort)
	})

	t.Run("rejects foreign employee", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.employeeBelongsToCompanyFn = func(ctx context.Context, cid, eid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID:        employeeID,
			Principal:         480000,
			InstallmentAmount: 100000,
			TotalInstallments: 5,
			StartYear:         2025,
			StartMonth:        9,
		})

		assert.ErrorIs(t, err, loanerrors.ErrEmployeeNotInCompany)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLoanService_ConsumeDueForRun(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	runID := uuid.New().String()

	due := &loan.Installment{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		LoanID:     uuid.New(),
		EmployeeID: uuid.MustParse(employeeID),
		Sequence:   1,
		Year:       2025,
		Month:      8,
		Amount:     100000,
		Status:     loan.InstallmentPending,
	}

	t.Run("consumes the due installment", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		deps.repo.findDueInstallmentFn = func(ctx context.Context, cid, eid string, year, month int) (*loan.Installment, error) {
			return due, nil
		}

		var progressInstallments int
		var progressAmount int64
		deps.repo.adjustLoanProgressFn = func(ctx context.Context, loanID string, installments int, amount int64) error {
			progressInstallments, progressAmount = installments, amount
			return nil
		}

		amount, err := deps.service.ConsumeDueForRun(ctx, nil, companyID, employeeID, 2025, 8, runID)

		assert.NoError(t, err)
		assert.Equal(t, int64(100000), amount)
		assert.Equal(t, 1, progressInstallments)
		assert.Equal(t, int64(100000), progressAmount)
	})

	t.Run("nothing due", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		amount, err := deps.service.ConsumeDueForRun(ctx, nil, companyID, employeeID, 2025, 8, runID)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), amount)
	})

	t.Run("lost claim yields zero", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		deps.repo.findDueInstallmentFn = func(ctx context.Context, cid, eid string, year, month int) (*loan.Installment, error) {
			return due, nil
		}
		deps.repo.markInstallmentDeductedFn = func(ctx context.Context, installmentID, rid string) (bool, error) {
			return false, nil
		}
		deps.repo.adjustLoanProgressFn = func(ctx context.Context, loanID string, installments int, amount int64) error {
			t.Fatal("progress must not move on a lost claim")
			return nil
		}

		amount, err := deps.service.ConsumeDueForRun(ctx, nil, companyID, employeeID, 2025, 8, runID)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), amount)
	})

	t.Run("runs on the caller's transaction", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		tx, err := deps.db.Begin()
		assert.NoError(t, err)
		defer tx.Rollback()

		bound := &fakeLoanRepository{
			findDueInstallmentFn: func(ctx context.Context, cid, eid string, year, month int) (*loan.Installment, error) {
				return due, nil
			},
		}
		deps.repo.withTxFn = func(got *sql.Tx) loan.Repository {
			assert.Same(t, tx, got)
			return bound
		}
		deps.repo.findDueInstallmentFn = func(ctx context.Context, cid, eid string, year, month int) (*loan.Installment, error) {
			t.Fatal("lookup must go through the transaction-bound repository")
			return nil, nil
		}

		amount, err := deps.service.ConsumeDueForRun(ctx, tx, companyID, employeeID, 2025, 8, runID)

		assert.NoError(t, err)
		assert.Equal(t, int64(100000), amount)
	})
}

func TestLoanService_ReleaseForRun(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupLoanServiceTest(t)
	defer deps.db.Close()

	loanID := uuid.New()
	deps.repo.releaseInstallmentsForRunFn = func(ctx context.Context, cid, rid string) ([]loan.Installment, error) {
		return []loan.Installment{
			{ID: uuid.New(), LoanID: loanID, Amount: 100000},
			{ID: uuid.New(), LoanID: loanID, Amount: 80000},
		}, nil
	}

	var totalAmount int64
	var totalInstallments int
	deps.repo.adjustLoanProgressFn = func(ctx context.Context, lid string, installments int, amount int64) error {
		totalInstallments += installments
		totalAmount += amount
		return nil
	}

	err := deps.service.ReleaseForRun(ctx, nil, companyID, runID)

	assert.NoError(t, err)
	assert.Equal(t, -2, totalInstallments)
	assert.Equal(t, int64(-180000), totalAmount)
}

func TestLoanService_Settle(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	active := func() *loan.Loan {
		return &loan.Loan{
			ID:               uuid.New(),
			CompanyID:        uuid.MustParse(companyID),
			Status:           loan.LoanStatusActive,
			RemainingBalance: 300000,
		}
	}

	t.Run("retires pending installments", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		l := active()
		deps.repo.findLoanByIDFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return l, nil
		}

		cancelled := false
		deps.repo.cancelPendingInstallmentsFn = func(ctx context.Context, loanID string) error {
			cancelled = true
			return nil
		}

		resp, err := deps.service.Settle(ctx, companyID, l.ID.String())

		assert.NoError(t, err)
		assert.True(t, cancelled)
		assert.Equal(t, loan.LoanStatusSettled, resp.Status)
		assert.Equal(t, int64(0), resp.RemainingBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("blocked while an open run holds an installment", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		l := active()
		deps.repo.findLoanByIDFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return l, nil
		}
		deps.repo.hasInstallmentInOpenRunFn = func(ctx context.Context, cid, loanID string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Settle(ctx, companyID, l.ID.String())

		assert.ErrorIs(t, err, loanerrors.ErrLoanInFlightRun)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("settled loan cannot settle again", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		l := active()
		l.Status = loan.LoanStatusSettled
		deps.repo.findLoanByIDFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return l, nil
		}

		_, err := deps.service.Settle(ctx, companyID, l.ID.String())

		assert.ErrorIs(t, err, loanerrors.ErrLoanNotActive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
