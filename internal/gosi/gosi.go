package gosi

import (
	"github.com/shopspring/decimal"

	gosierrors "go-rateb/internal/gosi/errors"
)

const (
	NationalitySaudi    = "SAUDI"
	NationalityNonSaudi = "NON_SAUDI"
)

// Rates are statutory policy inputs, always configuration-driven (tenant
// payroll settings), never hardcoded here.
type Rates struct {
	EmployeePct decimal.Decimal
	EmployerPct decimal.Decimal
}

type RateTable struct {
	Saudi    Rates
	NonSaudi Rates
}

type Input struct {
	Eligible         bool
	Nationality      string
	BasicWage        int64 // halalas
	HousingAllowance int64 // halalas
}

type Result struct {
	WageBase             int64
	EmployeeContribution int64
	EmployerContribution int64
}

// Calculate applies the configured employee and employer rates for the
// employee's nationality to the same wage base (basic wage + housing
// allowance). Ineligible employees contribute nothing.
func Calculate(in Input, rates RateTable) (Result, error) {
	if !in.Eligible {
		return Result{}, nil
	}

	if in.BasicWage <= 0 {
		return Result{}, gosierrors.ErrBasicWageNotPositive
	}
	if in.HousingAllowance < 0 {
		return Result{}, gosierrors.ErrHousingAllowanceNegative
	}

	var r Rates
	switch in.Nationality {
	case NationalitySaudi:
		r = rates.Saudi
	case NationalityNonSaudi:
		r = rates.NonSaudi
	default:
		return Result{}, gosierrors.ErrUnknownNationality
	}

	if r.EmployeePct.IsNegative() || r.EmployerPct.IsNegative() {
		return Result{}, gosierrors.ErrInvalidRates
	}

	wageBase := in.BasicWage + in.HousingAllowance
	base := decimal.NewFromInt(wageBase)

	return Result{
		WageBase:             wageBase,
		EmployeeContribution: base.Mul(r.EmployeePct).Round(0).IntPart(),
		EmployerContribution: base.Mul(r.EmployerPct).Round(0).IntPart(),
	}, nil
}
