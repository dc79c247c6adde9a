//go:build unit

package tariff_test

import (
	"testing"
	"time"

	"sessionpass/internal/domain/tariff"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		wantCount int
		wantUnit  tariff.DurationUnit
	}{
		{name: "single month", raw: "1 месяц", wantCount: 1, wantUnit: tariff.UnitMonths},
		{name: "several months", raw: "3 месяца", wantCount: 3, wantUnit: tariff.UnitMonths},
		{name: "many months", raw: "12 месяцев", wantCount: 12, wantUnit: tariff.UnitMonths},
		{name: "month token without count", raw: "месяц", wantCount: 1, wantUnit: tariff.UnitMonths},
		{name: "single day", raw: "1 день", wantCount: 1, wantUnit: tariff.UnitDays},
		{name: "several days", raw: "14 дней", wantCount: 14, wantUnit: tariff.UnitDays},
		{name: "two days genitive", raw: "2 дня", wantCount: 2, wantUnit: tariff.UnitDays},
		{name: "day token without count", raw: "дней", wantCount: 30, wantUnit: tariff.UnitDays},
		{name: "month token wins over day token", raw: "1 месяц 10 дней", wantCount: 1, wantUnit: tariff.UnitMonths},
		{name: "empty string falls back to one month", raw: "", wantCount: 1, wantUnit: tariff.UnitMonths},
		{name: "garbage falls back to one month", raw: "unlimited", wantCount: 1, wantUnit: tariff.UnitMonths},
		{name: "zero count falls back to default", raw: "0 дней", wantCount: 30, wantUnit: tariff.UnitDays},
		{name: "leading whitespace", raw: "  6 месяцев", wantCount: 6, wantUnit: tariff.UnitMonths},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tariff.ParseDuration(tc.raw)
			assert.Equal(t, tc.wantCount, d.Count())
			assert.Equal(t, tc.wantUnit, d.Unit())
			assert.Equal(t, tc.raw, d.String())
		})
	}
}

func TestDurationAddTo(t *testing.T) {
	start := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("months advance by calendar month", func(t *testing.T) {
		d := tariff.ParseDuration("3 месяца")
		assert.Equal(t, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC), d.AddTo(start))
	})

	t.Run("days advance by exact day count", func(t *testing.T) {
		d := tariff.ParseDuration("14 дней")
		assert.Equal(t, start.AddDate(0, 0, 14), d.AddTo(start))
	})

	t.Run("month-end rolls over past February", func(t *testing.T) {
		jan31 := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
		d := tariff.ParseDuration("1 месяц")
		// AddDate normalizes Jan 31 + 1 month to Mar 3 in a non-leap year.
		assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), d.AddTo(jan31))
	})
}
