package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-rateb/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreatePeriod(ctx context.Context, p *Period) error
	FindPeriodByID(ctx context.Context, companyID, id string) (*Period, error)
	FindPeriods(ctx context.Context, companyID string) ([]Period, error)

	CreateRun(ctx context.Context, r *Run) error
	FindRunByID(ctx context.Context, companyID, id string) (*Run, error)
	FindRunByIDForUpdate(ctx context.Context, companyID, id string) (*Run, error)
	FindRunByPeriod(ctx context.Context, companyID, periodID string) (*Run, error)
	FindRunsByCompany(ctx context.Context, companyID string) ([]Run, error)
	UpdateRun(ctx context.Context, r *Run) error

	DeleteLinesForRun(ctx context.Context, companyID, runID string) error
	CreateLines(ctx context.Context, lines []Line) error
	FindLinesForRun(ctx context.Context, companyID, runID string) ([]Line, error)

	ListActiveEmployees(ctx context.Context, companyID string) ([]CalcEmployee, error)
	ApprovedOvertimeSums(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]OvertimeSum, error)
	ApprovedUnpaidDays(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error)
	AdjustmentSums(ctx context.Context, companyID, employeeID string, year, month int) (allowance int64, deduction int64, err error)
	AllowancePolicies(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]PolicyRead, error)
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

func (r *repository) CreatePeriod(ctx context.Context, p *Period) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindPeriodByID(ctx context.Context, companyID, id string) (*Period, error) {
	var p Period
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindPeriods(ctx context.Context, companyID string) ([]Period, error) {
	var periods []Period
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Order("year DESC, month DESC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) CreateRun(ctx context.Context, run *Run) error {
	return r.conn(ctx).Omit("Period", "Lines").Create(run).Error
}

func (r *repository) FindRunByID(ctx context.Context, companyID, id string) (*Run, error) {
	var run Run
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Preload("Period").
		First(&run, "id = ?", id).Error
	return &run, err
}

// FindRunByIDForUpdate takes a row lock on the run so status checks and the
// governance fold serialize with concurrent ledger writes. Only meaningful
// on a WithTx repository.
func (r *repository) FindRunByIDForUpdate(ctx context.Context, companyID, id string) (*Run, error) {
	var run Run
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		Preload("Period").
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindRunByPeriod(ctx context.Context, companyID, periodID string) (*Run, error) {
	var run Run
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Preload("Period").
		First(&run, "period_id = ?", periodID).Error
	return &run, err
}

func (r *repository) FindRunsByCompany(ctx context.Context, companyID string) ([]Run, error) {
	var runs []Run
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Preload("Period").
		Order("created_at DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) UpdateRun(ctx context.Context, run *Run) error {
	return r.conn(ctx).Omit("Period", "Lines").Save(run).Error
}

func (r *repository) DeleteLinesForRun(ctx context.Context, companyID, runID string) error {
	return r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("run_id = ?", runID).
		Delete(&Line{}).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []Line) error {
	return r.conn(ctx).Create(&lines).Error
}

func (r *repository) FindLinesForRun(ctx context.Context, companyID, runID string) ([]Line, error) {
	var lines []Line
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("run_id = ?", runID).
		Order("employee_number ASC").
		Find(&lines).Error
	return lines, err
}

func (r *repository) ListActiveEmployees(ctx context.Context, companyID string) ([]CalcEmployee, error) {
	var employees []CalcEmployee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employment_status = ?", "ACTIVE").
		Where("deleted_at IS NULL").
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) ApprovedOvertimeSums(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]OvertimeSum, error) {
	var sums []OvertimeSum
	err := r.conn(ctx).
		Table("work_records").
		Select("day_type, COALESCE(SUM(overtime_hours), 0) AS hours").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("is_approved = true").
		Where("deleted_at IS NULL").
		Where("work_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("day_type").
		Scan(&sums).Error
	return sums, err
}

// ApprovedUnpaidDays clamps leaves straddling the period edge so each period
// only pays for its own days.
func (r *repository) ApprovedUnpaidDays(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error) {
	var total sql.NullInt64
	err := r.conn(ctx).
		Table("leaves").
		Select("COALESCE(SUM(LEAST(end_date, ?::date) - GREATEST(start_date, ?::date) + 1), 0)",
			to.Format("2006-01-02"), from.Format("2006-01-02")).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", "UNPAID").
		Where("status = ?", "APPROVED").
		Where("deleted_at IS NULL").
		Where("NOT (end_date < ? OR start_date > ?)", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

func (r *repository) AdjustmentSums(ctx context.Context, companyID, employeeID string, year, month int) (int64, int64, error) {
	type adjSum struct {
		Type  string
		Total int64
	}
	var sums []adjSum
	err := r.conn(ctx).
		Table("payroll_adjustments").
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Where("month = ?", month).
		Where("deleted_at IS NULL").
		Group("type").
		Scan(&sums).Error
	if err != nil {
		return 0, 0, err
	}

	var allowanceTotal, deductionTotal int64
	for _, s := range sums {
		switch s.Type {
		case "ALLOWANCE":
			allowanceTotal = s.Total
		case "DEDUCTION":
			deductionTotal = s.Total
		}
	}
	return allowanceTotal, deductionTotal, nil
}

func (r *repository) AllowancePolicies(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]PolicyRead, error) {
	var policies []PolicyRead
	err := r.conn(ctx).
		Table("allowance_policies").
		Select("monthly_amount, proration_method, effective_from, effective_to").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("deleted_at IS NULL").
		Where("effective_from <= ?", periodEnd.Format("2006-01-02")).
		Where("(effective_to IS NULL OR effective_to >= ?)", periodStart.Format("2006-01-02")).
		Scan(&policies).Error
	return policies, err
}
