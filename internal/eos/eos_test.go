package eos_test

import (
	"testing"
	"time"

	"go-rateb/internal/eos"
	eoserrors "go-rateb/internal/eos/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func factors() eos.Factors {
	return eos.Factors{
		FirstFiveYearsMonthFactor: decimal.RequireFromString("0.5"),
		AfterFiveYearsMonthFactor: decimal.NewFromInt(1),
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCalculate_SixFullYears(t *testing.T) {
	res, err := eos.Calculate(eos.Input{
		StartDate:       date(2019, 3, 1),
		TerminationDate: date(2025, 3, 1),
		BaseSalary:      1000000, // 10,000.00 SAR
	}, factors())

	assert.NoError(t, err)
	assert.True(t, res.ServiceYears.Equal(decimal.NewFromInt(6)), res.ServiceYears.String())
	// 5 * 0.5 + 1 * 1.0
	assert.True(t, res.EosMonths.Equal(decimal.RequireFromString("3.5")), res.EosMonths.String())
	assert.Equal(t, int64(3500000), res.EosAmount)
}

func TestCalculate_UnderFiveYears(t *testing.T) {
	res, err := eos.Calculate(eos.Input{
		StartDate:       date(2023, 1, 1),
		TerminationDate: date(2025, 1, 1),
		BaseSalary:      600000,
	}, factors())

	assert.NoError(t, err)
	assert.True(t, res.ServiceYears.Equal(decimal.NewFromInt(2)))
	assert.True(t, res.EosMonths.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(600000), res.EosAmount)
}

func TestCalculate_PartialFinalYear(t *testing.T) {
	// 3 years plus half a year, all under the five-year split.
	res, err := eos.Calculate(eos.Input{
		StartDate:       date(2022, 1, 1),
		TerminationDate: date(2025, 7, 2),
		BaseSalary:      1000000,
	}, factors())

	assert.NoError(t, err)
	assert.True(t, res.ServiceYears.GreaterThan(decimal.NewFromInt(3)))
	assert.True(t, res.ServiceYears.LessThan(decimal.NewFromInt(4)))
	// amount stays proportional to the fractional months
	assert.Greater(t, res.EosAmount, int64(1500000))
	assert.Less(t, res.EosAmount, int64(2000000))
}

func TestCalculate_ZeroService(t *testing.T) {
	res, err := eos.Calculate(eos.Input{
		StartDate:       date(2025, 1, 1),
		TerminationDate: date(2025, 1, 1),
		BaseSalary:      500000,
	}, factors())

	assert.NoError(t, err)
	assert.True(t, res.ServiceYears.IsZero())
	assert.Equal(t, int64(0), res.EosAmount)
}

func TestCalculate_TerminationBeforeStart(t *testing.T) {
	_, err := eos.Calculate(eos.Input{
		StartDate:       date(2025, 1, 1),
		TerminationDate: date(2024, 12, 31),
		BaseSalary:      500000,
	}, factors())

	assert.ErrorIs(t, err, eoserrors.ErrTerminationBeforeStart)
}

func TestCalculate_NegativeBaseSalary(t *testing.T) {
	_, err := eos.Calculate(eos.Input{
		StartDate:       date(2020, 1, 1),
		TerminationDate: date(2025, 1, 1),
		BaseSalary:      -1,
	}, factors())

	assert.ErrorIs(t, err, eoserrors.ErrNegativeBaseSalary)
}

func TestCalculateSettlement_NetsDeductions(t *testing.T) {
	res, err := eos.CalculateSettlement(eos.SettlementInput{
		Input: eos.Input{
			StartDate:       date(2019, 3, 1),
			TerminationDate: date(2025, 3, 1),
			BaseSalary:      1000000,
		},
		UnpaidLeaveDeduction:        100000,
		ManualDeductionsFromPayroll: 50000,
		AdditionalManualDeduction:   25000,
	}, factors())

	assert.NoError(t, err)
	assert.Equal(t, int64(3500000), res.Eos.EosAmount)
	assert.Equal(t, int64(3325000), res.NetSettlement)
}

func TestCalculateSettlement_CanGoNegative(t *testing.T) {
	res, err := eos.CalculateSettlement(eos.SettlementInput{
		Input: eos.Input{
			StartDate:       date(2024, 6, 1),
			TerminationDate: date(2024, 12, 1),
			BaseSalary:      400000,
		},
		ManualDeductionsFromPayroll: 500000,
	}, factors())

	assert.NoError(t, err)
	assert.Less(t, res.NetSettlement, int64(0))
}
