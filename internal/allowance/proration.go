package allowance

import (
	"time"

	"github.com/shopspring/decimal"
)

// PolicyTerms is the calculation-facing shape of a policy; payroll builds it
// from its own read model so the two packages stay decoupled.
type PolicyTerms struct {
	MonthlyAmount   int64
	ProrationMethod string
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
}

// AmountForPeriod returns the halala amount a policy contributes to the pay
// period [periodStart, periodEnd], both inclusive.
//
// NONE pays the full monthly amount as long as the policy is effective for at
// least one day of the period. CALENDAR_DAYS scales the monthly amount by
// effective days over period days, rounded to the nearest halala.
func AmountForPeriod(p PolicyTerms, periodStart, periodEnd time.Time) int64 {
	from := p.EffectiveFrom
	if from.Before(periodStart) {
		from = periodStart
	}
	to := periodEnd
	if p.EffectiveTo != nil && p.EffectiveTo.Before(periodEnd) {
		to = *p.EffectiveTo
	}
	if from.After(to) {
		return 0
	}

	if p.ProrationMethod != ProrationCalendarDays {
		return p.MonthlyAmount
	}

	activeDays := int64(to.Sub(from).Hours()/24) + 1
	periodDays := int64(periodEnd.Sub(periodStart).Hours()/24) + 1

	return decimal.NewFromInt(p.MonthlyAmount).
		Mul(decimal.NewFromInt(activeDays)).
		Div(decimal.NewFromInt(periodDays)).
		Round(0).
		IntPart()
}
