package loan

import (
	"context"
	"database/sql"
	"time"

	"go-rateb/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateLoan(ctx context.Context, l *Loan) error
	CreateInstallments(ctx context.Context, installments []Installment) error
	FindLoanByID(ctx context.Context, companyID, id string) (*Loan, error)
	FindLoansByCompany(ctx context.Context, companyID string) ([]Loan, error)
	FindLoansByEmployee(ctx context.Context, companyID, employeeID string) ([]Loan, error)
	UpdateLoan(ctx context.Context, l *Loan) error

	FindDueInstallment(ctx context.Context, companyID, employeeID string, year, month int) (*Installment, error)
	FindPendingInstallment(ctx context.Context, companyID, loanID string, year, month int) (*Installment, error)
	MarkInstallmentDeducted(ctx context.Context, installmentID, runID string) (bool, error)
	ReleaseInstallmentsForRun(ctx context.Context, companyID, runID string) ([]Installment, error)
	ShiftPendingInstallments(ctx context.Context, loanID string, startYear, startMonth int) error
	UpdateInstallment(ctx context.Context, inst *Installment) error
	CancelPendingInstallments(ctx context.Context, loanID string) error
	AdjustLoanProgress(ctx context.Context, loanID string, installments int, amount int64) error
	HasInstallmentInOpenRun(ctx context.Context, companyID, loanID string) (bool, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
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

func (r *repository) CreateLoan(ctx context.Context, l *Loan) error {
	return r.conn(ctx).Omit("Installments").Create(l).Error
}

func (r *repository) CreateInstallments(ctx context.Context, installments []Installment) error {
	return r.conn(ctx).Create(&installments).Error
}

func (r *repository) FindLoanByID(ctx context.Context, companyID, id string) (*Loan, error) {
	var l Loan
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindLoansByCompany(ctx context.Context, companyID string) ([]Loan, error) {
	var loans []Loan
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) FindLoansByEmployee(ctx context.Context, companyID, employeeID string) ([]Loan, error) {
	var loans []Loan
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) UpdateLoan(ctx context.Context, l *Loan) error {
	return r.conn(ctx).Omit("Installments").Save(l).Error
}

func (r *repository) FindDueInstallment(ctx context.Context, companyID, employeeID string, year, month int) (*Installment, error) {
	var inst Installment
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Where("month = ?", month).
		Where("status = ?", InstallmentPending).
		Order("sequence ASC").
		First(&inst).Error
	return &inst, err
}

func (r *repository) FindPendingInstallment(ctx context.Context, companyID, loanID string, year, month int) (*Installment, error) {
	var inst Installment
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("loan_id = ?", loanID).
		Where("year = ?", year).
		Where("month = ?", month).
		Where("status = ?", InstallmentPending).
		First(&inst).Error
	return &inst, err
}

// MarkInstallmentDeducted is the status-guarded update payroll relies on:
// only a PENDING row can become DEDUCTED, so two concurrent calculations
// cannot both consume the same installment.
func (r *repository) MarkInstallmentDeducted(ctx context.Context, installmentID, runID string) (bool, error) {
	runUUID, err := uuid.Parse(runID)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()

	res := r.conn(ctx).
		Model(&Installment{}).
		Where("id = ?", installmentID).
		Where("status = ?", InstallmentPending).
		Updates(map[string]interface{}{
			"status":         InstallmentDeducted,
			"payroll_run_id": runUUID,
			"deducted_at":    now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseInstallmentsForRun returns the installments a recalculation gives
// back, after flipping them to PENDING again.
func (r *repository) ReleaseInstallmentsForRun(ctx context.Context, companyID, runID string) ([]Installment, error) {
	var released []Installment
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("payroll_run_id = ?", runID).
		Where("status = ?", InstallmentDeducted).
		Find(&released).Error
	if err != nil {
		return nil, err
	}
	if len(released) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(released))
	for _, inst := range released {
		ids = append(ids, inst.ID)
	}

	err = r.conn(ctx).
		Model(&Installment{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":         InstallmentPending,
			"payroll_run_id": nil,
			"deducted_at":    nil,
		}).Error
	if err != nil {
		return nil, err
	}
	return released, nil
}

func (r *repository) ShiftPendingInstallments(ctx context.Context, loanID string, startYear, startMonth int) error {
	var pending []Installment
	err := r.conn(ctx).
		Where("loan_id = ?", loanID).
		Where("status = ?", InstallmentPending).
		Order("sequence ASC").
		Find(&pending).Error
	if err != nil {
		return err
	}

	cursor := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	for i := range pending {
		err := r.conn(ctx).
			Model(&Installment{}).
			Where("id = ?", pending[i].ID).
			Updates(map[string]interface{}{
				"year":  cursor.Year(),
				"month": int(cursor.Month()),
			}).Error
		if err != nil {
			return err
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return nil
}

func (r *repository) UpdateInstallment(ctx context.Context, inst *Installment) error {
	return r.conn(ctx).Save(inst).Error
}

func (r *repository) CancelPendingInstallments(ctx context.Context, loanID string) error {
	return r.conn(ctx).
		Model(&Installment{}).
		Where("loan_id = ?", loanID).
		Where("status = ?", InstallmentPending).
		Update("status", InstallmentSettled).Error
}

// AdjustLoanProgress moves paid counters and remaining balance by delta;
// negative values roll a consumption back.
func (r *repository) AdjustLoanProgress(ctx context.Context, loanID string, installments int, amount int64) error {
	return r.conn(ctx).
		Model(&Loan{}).
		Where("id = ?", loanID).
		Updates(map[string]interface{}{
			"paid_installments": gorm.Expr("paid_installments + ?", installments),
			"remaining_balance": gorm.Expr("remaining_balance - ?", amount),
		}).Error
}

// HasInstallmentInOpenRun reports whether any installment of the loan is
// consumed by a run that is still DRAFT or CALCULATED. Lifecycle operations
// must wait for that run to settle, otherwise a recalculation would release
// installments under a mutated schedule.
func (r *repository) HasInstallmentInOpenRun(ctx context.Context, companyID, loanID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("loan_installments").
		Joins("JOIN payroll_runs ON payroll_runs.id = loan_installments.payroll_run_id").
		Where("loan_installments.company_id = ?", companyID).
		Where("loan_installments.loan_id = ?", loanID).
		Where("loan_installments.status = ?", InstallmentDeducted).
		Where("payroll_runs.status IN ?", []string{"DRAFT", "CALCULATED"}).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
