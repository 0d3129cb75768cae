package allowance_test

import (
	"testing"
	"time"

	"go-rateb/internal/allowance"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAmountForPeriod_None(t *testing.T) {
	periodStart := day(2025, time.April, 1)
	periodEnd := day(2025, time.April, 30)

	t.Run("full month for a policy effective the whole period", func(t *testing.T) {
		p := allowance.PolicyTerms{
			MonthlyAmount:   100000,
			ProrationMethod: allowance.ProrationNone,
			EffectiveFrom:   day(2024, time.January, 1),
		}
		assert.Equal(t, int64(100000), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})

	t.Run("full month even for a single effective day", func(t *testing.T) {
		to := day(2025, time.April, 1)
		p := allowance.PolicyTerms{
			MonthlyAmount:   100000,
			ProrationMethod: allowance.ProrationNone,
			EffectiveFrom:   day(2025, time.April, 1),
			EffectiveTo:     &to,
		}
		assert.Equal(t, int64(100000), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})

	t.Run("zero outside the effective window", func(t *testing.T) {
		p := allowance.PolicyTerms{
			MonthlyAmount:   100000,
			ProrationMethod: allowance.ProrationNone,
			EffectiveFrom:   day(2025, time.May, 1),
		}
		assert.Equal(t, int64(0), allowance.AmountForPeriod(p, periodStart, periodEnd))

		to := day(2025, time.March, 31)
		p.EffectiveFrom = day(2024, time.January, 1)
		p.EffectiveTo = &to
		assert.Equal(t, int64(0), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})
}

func TestAmountForPeriod_CalendarDays(t *testing.T) {
	periodStart := day(2025, time.April, 1)
	periodEnd := day(2025, time.April, 30)

	t.Run("mid-period start prorates by active days", func(t *testing.T) {
		// effective Apr 16 onward: 15 of 30 days
		p := allowance.PolicyTerms{
			MonthlyAmount:   60000,
			ProrationMethod: allowance.ProrationCalendarDays,
			EffectiveFrom:   day(2025, time.April, 16),
		}
		assert.Equal(t, int64(30000), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})

	t.Run("mid-period end prorates by active days", func(t *testing.T) {
		// effective through Apr 10: 10 of 30 days
		to := day(2025, time.April, 10)
		p := allowance.PolicyTerms{
			MonthlyAmount:   90000,
			ProrationMethod: allowance.ProrationCalendarDays,
			EffectiveFrom:   day(2024, time.January, 1),
			EffectiveTo:     &to,
		}
		assert.Equal(t, int64(30000), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})

	t.Run("rounds to the nearest halala", func(t *testing.T) {
		// 100000 * 10/30 = 33333.33... -> 33333
		p := allowance.PolicyTerms{
			MonthlyAmount:   100000,
			ProrationMethod: allowance.ProrationCalendarDays,
			EffectiveFrom:   day(2025, time.April, 21),
		}
		assert.Equal(t, int64(33333), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})

	t.Run("full window pays the full amount", func(t *testing.T) {
		p := allowance.PolicyTerms{
			MonthlyAmount:   100000,
			ProrationMethod: allowance.ProrationCalendarDays,
			EffectiveFrom:   day(2025, time.April, 1),
		}
		assert.Equal(t, int64(100000), allowance.AmountForPeriod(p, periodStart, periodEnd))
	})

	t.Run("february period uses its own day count", func(t *testing.T) {
		// effective Feb 15 onward: 14 of 28 days
		p := allowance.PolicyTerms{
			MonthlyAmount:   56000,
			ProrationMethod: allowance.ProrationCalendarDays,
			EffectiveFrom:   day(2025, time.February, 15),
		}
		assert.Equal(t, int64(28000), allowance.AmountForPeriod(p,
			day(2025, time.February, 1), day(2025, time.February, 28)))
	})
}
