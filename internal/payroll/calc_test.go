package payroll_test

import (
	"testing"
	"time"

	"go-rateb/internal/allowance"
	"go-rateb/internal/attendance"
	"go-rateb/internal/company"
	"go-rateb/internal/gosi"
	gosierrors "go-rateb/internal/gosi/errors"
	"go-rateb/internal/payroll"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPolicy() company.PayrollPolicy {
	return company.PayrollPolicy{
		Gosi: gosi.RateTable{
			Saudi: gosi.Rates{
				EmployeePct: decimal.RequireFromString("0.0975"),
				EmployerPct: decimal.RequireFromString("0.1175"),
			},
			NonSaudi: gosi.Rates{
				EmployeePct: decimal.Zero,
				EmployerPct: decimal.RequireFromString("0.02"),
			},
		},
		Overtime: company.OvertimeMultipliers{
			Weekday: decimal.RequireFromString("1.5"),
			Weekend: decimal.NewFromInt(2),
			Holiday: decimal.NewFromInt(2),
		},
	}
}

func testEmployee() payroll.CalcEmployee {
	return payroll.CalcEmployee{
		ID:                   uuid.New(),
		CompanyID:            uuid.New(),
		EmployeeNumber:       "EMP-0001",
		FullName:             "Ahmed Al-Qahtani",
		Nationality:          gosi.NationalitySaudi,
		EmploymentStatus:     "ACTIVE",
		BaseSalary:           1200000, // 12,000.00 SAR
		IsGosiEligible:       true,
		GosiBasicWage:        1000000,
		GosiHousingAllowance: 200000,
		BankName:             "Al Rajhi Bank",
		BankIban:             "SA4420000001234567891234",
	}
}

func april2025() (time.Time, time.Time) {
	return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
}

func TestBuildLine_FullBreakdown(t *testing.T) {
	runID := uuid.New()
	start, end := april2025()

	line, err := payroll.BuildLine(runID, payroll.LineInputs{
		Employee:    testEmployee(),
		PeriodStart: start,
		PeriodEnd:   end,
		Policies: []payroll.PolicyRead{
			{MonthlyAmount: 100000, ProrationMethod: allowance.ProrationNone, EffectiveFrom: start.AddDate(-1, 0, 0)},
		},
		OvertimeSums: []payroll.OvertimeSum{
			{DayType: attendance.DayTypeWeekday, Hours: decimal.NewFromInt(4)},
			{DayType: attendance.DayTypeWeekend, Hours: decimal.NewFromInt(2)},
		},
		AdjAllowance:    10000,
		AdjDeduction:    5000,
		UnpaidLeaveDays: 2,
		LoanDeduction:   50000,
	}, testPolicy())

	assert.NoError(t, err)
	assert.Equal(t, runID, line.RunID)
	assert.Equal(t, "EMP-0001", line.EmployeeNumber)

	assert.Equal(t, int64(1200000), line.BasePay)
	assert.Equal(t, int64(110000), line.AllowanceTotal)
	// hourly rate 5,000: 4h * 1.5 + 2h * 2.0
	assert.Equal(t, int64(50000), line.OvertimePay)
	assert.Equal(t, int64(5000), line.ManualDeduction)
	// 1,200,000 * 2 / 30
	assert.Equal(t, int64(80000), line.UnpaidLeaveDeduction)
	assert.Equal(t, int64(50000), line.LoanDeduction)

	assert.True(t, line.GosiEligible)
	assert.Equal(t, int64(1200000), line.GosiWageBase)
	assert.Equal(t, int64(117000), line.GosiEmployee)
	assert.Equal(t, int64(141000), line.GosiEmployer)

	assert.Equal(t, 2, line.UnpaidLeaveDays)
	assert.True(t, line.OvertimeHours.Equal(decimal.NewFromInt(6)))

	assert.Equal(t, int64(1108000), line.NetPay)
}

func TestBuildLine_NetEqualsComponents(t *testing.T) {
	start, end := april2025()

	line, err := payroll.BuildLine(uuid.New(), payroll.LineInputs{
		Employee:        testEmployee(),
		PeriodStart:     start,
		PeriodEnd:       end,
		AdjAllowance:    33333,
		AdjDeduction:    12345,
		UnpaidLeaveDays: 7,
		LoanDeduction:   98765,
	}, testPolicy())

	assert.NoError(t, err)
	expected := line.BasePay + line.AllowanceTotal + line.OvertimePay -
		(line.ManualDeduction + line.UnpaidLeaveDeduction + line.LoanDeduction + line.GosiEmployee)
	assert.Equal(t, expected, line.NetPay)
}

func TestBuildLine_ProratesMidPeriodPolicy(t *testing.T) {
	start, end := april2025()
	emp := testEmployee()
	emp.IsGosiEligible = false

	line, err := payroll.BuildLine(uuid.New(), payroll.LineInputs{
		Employee:    emp,
		PeriodStart: start,
		PeriodEnd:   end,
		Policies: []payroll.PolicyRead{
			// effective for the last 15 of 30 days
			{MonthlyAmount: 60000, ProrationMethod: allowance.ProrationCalendarDays, EffectiveFrom: time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)},
		},
	}, testPolicy())

	assert.NoError(t, err)
	assert.Equal(t, int64(30000), line.AllowanceTotal)
	assert.Equal(t, int64(0), line.GosiEmployee)
}

func TestBuildLine_GosiSnapshotInvalid(t *testing.T) {
	start, end := april2025()
	emp := testEmployee()
	emp.GosiBasicWage = 0

	_, err := payroll.BuildLine(uuid.New(), payroll.LineInputs{
		Employee:    emp,
		PeriodStart: start,
		PeriodEnd:   end,
	}, testPolicy())

	assert.ErrorIs(t, err, gosierrors.ErrBasicWageNotPositive)
}

func TestBuildLine_UnpaidLeaveUsesThirtyDayMonth(t *testing.T) {
	// February 2026 has 28 days; a day of unpaid leave is still worth 1/30.
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	emp := testEmployee()
	emp.IsGosiEligible = false
	emp.BaseSalary = 300000

	line, err := payroll.BuildLine(uuid.New(), payroll.LineInputs{
		Employee:        emp,
		PeriodStart:     start,
		PeriodEnd:       end,
		UnpaidLeaveDays: 3,
	}, testPolicy())

	assert.NoError(t, err)
	// 300,000 * 3 / 30
	assert.Equal(t, int64(30000), line.UnpaidLeaveDeduction)
	assert.Equal(t, int64(270000), line.NetPay)
}

func TestBuildLine_NoUnpaidLeaveNoDeduction(t *testing.T) {
	start, end := april2025()

	line, err := payroll.BuildLine(uuid.New(), payroll.LineInputs{
		Employee:    testEmployee(),
		PeriodStart: start,
		PeriodEnd:   end,
	}, testPolicy())

	assert.NoError(t, err)
	assert.Equal(t, int64(0), line.UnpaidLeaveDeduction)
	assert.Equal(t, int64(0), line.OvertimePay)
}
