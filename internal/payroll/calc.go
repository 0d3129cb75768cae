package payroll

import (
	"time"

	"go-rateb/internal/allowance"
	"go-rateb/internal/attendance"
	"go-rateb/internal/company"
	"go-rateb/internal/gosi"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Standard monthly divisor for hourly rates: 30 days of 8 working hours.
var monthlyWorkHours = decimal.NewFromInt(240)

// Unpaid leave values a day at 1/30 of base salary whatever the period's
// calendar length, matching the 30-day month convention above.
var monthDays = decimal.NewFromInt(30)

// LineInputs carries everything the builder needs for one employee, already
// aggregated over the pay period.
type LineInputs struct {
	Employee        CalcEmployee
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Policies        []PolicyRead
	OvertimeSums    []OvertimeSum
	AdjAllowance    int64
	AdjDeduction    int64
	UnpaidLeaveDays int
	LoanDeduction   int64
}

// BuildLine computes one payroll line. All derived amounts round to the
// nearest halala; the net always equals the sum of its recorded components.
func BuildLine(runID uuid.UUID, in LineInputs, policy company.PayrollPolicy) (Line, error) {
	e := in.Employee

	allowanceTotal := in.AdjAllowance
	for _, p := range in.Policies {
		allowanceTotal += allowance.AmountForPeriod(allowance.PolicyTerms{
			MonthlyAmount:   p.MonthlyAmount,
			ProrationMethod: p.ProrationMethod,
			EffectiveFrom:   p.EffectiveFrom,
			EffectiveTo:     p.EffectiveTo,
		}, in.PeriodStart, in.PeriodEnd)
	}

	overtimePay, overtimeHours := overtimeAmount(e.BaseSalary, in.OvertimeSums, policy.Overtime)

	unpaidDeduction := int64(0)
	if in.UnpaidLeaveDays > 0 {
		unpaidDeduction = decimal.NewFromInt(e.BaseSalary).
			Mul(decimal.NewFromInt(int64(in.UnpaidLeaveDays))).
			Div(monthDays).
			Round(0).
			IntPart()
	}

	gosiResult, err := gosi.Calculate(gosi.Input{
		Eligible:         e.IsGosiEligible,
		Nationality:      e.Nationality,
		BasicWage:        e.GosiBasicWage,
		HousingAllowance: e.GosiHousingAllowance,
	}, policy.Gosi)
	if err != nil {
		return Line{}, err
	}

	line := Line{
		ID:         uuid.New(),
		CompanyID:  e.CompanyID,
		RunID:      runID,
		EmployeeID: e.ID,

		EmployeeNumber: e.EmployeeNumber,
		EmployeeName:   e.FullName,
		Nationality:    e.Nationality,
		BankName:       e.BankName,
		BankIban:       e.BankIban,

		BasePay:              e.BaseSalary,
		AllowanceTotal:       allowanceTotal,
		OvertimePay:          overtimePay,
		ManualDeduction:      in.AdjDeduction,
		UnpaidLeaveDeduction: unpaidDeduction,
		LoanDeduction:        in.LoanDeduction,

		GosiEligible:         e.IsGosiEligible,
		GosiBasicWage:        e.GosiBasicWage,
		GosiHousingAllowance: e.GosiHousingAllowance,
		GosiWageBase:         gosiResult.WageBase,
		GosiEmployee:         gosiResult.EmployeeContribution,
		GosiEmployer:         gosiResult.EmployerContribution,

		UnpaidLeaveDays: in.UnpaidLeaveDays,
		OvertimeHours:   overtimeHours,
	}

	line.NetPay = line.BasePay + line.AllowanceTotal + line.OvertimePay -
		(line.ManualDeduction + line.UnpaidLeaveDeduction + line.LoanDeduction + line.GosiEmployee)

	return line, nil
}

func overtimeAmount(baseSalary int64, sums []OvertimeSum, multipliers company.OvertimeMultipliers) (int64, decimal.Decimal) {
	hourlyRate := decimal.NewFromInt(baseSalary).Div(monthlyWorkHours)

	pay := decimal.Zero
	totalHours := decimal.Zero
	for _, sum := range sums {
		if sum.Hours.IsZero() {
			continue
		}

		var multiplier decimal.Decimal
		switch sum.DayType {
		case attendance.DayTypeWeekend:
			multiplier = multipliers.Weekend
		case attendance.DayTypeHoliday:
			multiplier = multipliers.Holiday
		default:
			multiplier = multipliers.Weekday
		}

		pay = pay.Add(sum.Hours.Mul(multiplier).Mul(hourlyRate))
		totalHours = totalHours.Add(sum.Hours)
	}

	return pay.Round(0).IntPart(), totalHours
}
