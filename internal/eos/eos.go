// Package eos computes end-of-service awards and final settlements per Saudi
// labor law shape: service time is split at the five-year mark and each part
// earns a configurable number of months of base salary per year.
package eos

import (
	"time"

	"github.com/shopspring/decimal"

	eoserrors "go-rateb/internal/eos/errors"
)

// Factors are company-level policy inputs (months of salary earned per service
// year), stored on payroll settings.
type Factors struct {
	FirstFiveYearsMonthFactor decimal.Decimal
	AfterFiveYearsMonthFactor decimal.Decimal
}

type Input struct {
	StartDate       time.Time
	TerminationDate time.Time
	BaseSalary      int64 // halalas per month
}

type Result struct {
	ServiceYears decimal.Decimal
	EosMonths    decimal.Decimal
	EosAmount    int64
}

type SettlementInput struct {
	Input
	UnpaidLeaveDeduction        int64
	ManualDeductionsFromPayroll int64
	AdditionalManualDeduction   int64
}

type SettlementResult struct {
	Eos           Result
	NetSettlement int64
}

var five = decimal.NewFromInt(5)

// Calculate is a pure function of dates, salary and factors.
func Calculate(in Input, f Factors) (Result, error) {
	if in.TerminationDate.Before(in.StartDate) {
		return Result{}, eoserrors.ErrTerminationBeforeStart
	}
	if in.BaseSalary < 0 {
		return Result{}, eoserrors.ErrNegativeBaseSalary
	}

	years := serviceYears(in.StartDate, in.TerminationDate)

	firstPart := decimal.Min(years, five)
	secondPart := decimal.Max(years.Sub(five), decimal.Zero)

	months := firstPart.Mul(f.FirstFiveYearsMonthFactor).
		Add(secondPart.Mul(f.AfterFiveYearsMonthFactor))

	amount := months.Mul(decimal.NewFromInt(in.BaseSalary)).Round(0).IntPart()

	return Result{
		ServiceYears: years,
		EosMonths:    months,
		EosAmount:    amount,
	}, nil
}

// CalculateSettlement nets accrued deductions out of the EOS award.
func CalculateSettlement(in SettlementInput, f Factors) (SettlementResult, error) {
	res, err := Calculate(in.Input, f)
	if err != nil {
		return SettlementResult{}, err
	}

	net := res.EosAmount -
		in.UnpaidLeaveDeduction -
		in.ManualDeductionsFromPayroll -
		in.AdditionalManualDeduction

	return SettlementResult{
		Eos:           res,
		NetSettlement: net,
	}, nil
}

// serviceYears counts whole calendar years plus a day-based fraction of the
// final partial year, so an exact anniversary yields an integer.
func serviceYears(start, end time.Time) decimal.Decimal {
	whole := 0
	cursor := start
	for {
		next := cursor.AddDate(1, 0, 0)
		if next.After(end) {
			break
		}
		whole++
		cursor = next
	}

	remainderDays := int(end.Sub(cursor).Hours() / 24)
	fraction := decimal.NewFromInt(int64(remainderDays)).
		Div(decimal.NewFromInt(365))

	return decimal.NewFromInt(int64(whole)).Add(fraction)
}
