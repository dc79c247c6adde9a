package tariff

import (
	"strings"
	"time"
	"unicode"
)

type DurationUnit int

const (
	UnitMonths DurationUnit = iota
	UnitDays
)

const (
	defaultMonths = 1
	defaultDays   = 30
)

// Duration is a tariff validity window parsed from the catalog's human-readable
// duration string (e.g. "3 месяца", "14 дней").
type Duration struct {
	count int
	unit  DurationUnit
	raw   string
}

// ParseDuration never fails: an unparseable string yields one calendar month.
// A month token wins over a day token when both appear. The "дн" prefix
// deliberately covers declensions like "дней" and "дня", so "14 дней" counts
// as 14 days rather than hitting the one-month fallback that a strict match
// on "день" would produce.
func ParseDuration(s string) Duration {
	switch {
	case strings.Contains(s, "месяц"):
		return Duration{count: leadingInt(s, defaultMonths), unit: UnitMonths, raw: s}
	case strings.Contains(s, "день"), strings.Contains(s, "дн"):
		return Duration{count: leadingInt(s, defaultDays), unit: UnitDays, raw: s}
	default:
		return Duration{count: defaultMonths, unit: UnitMonths, raw: s}
	}
}

// AddTo advances t by the parsed duration. Calendar-month arithmetic follows
// time.AddDate's natural month-end rollover (Jan 31 + 1 month normalizes past
// the end of February), which matches the behavior subscriptions were sold
// under; do not replace with end-of-month clamping.
func (d Duration) AddTo(t time.Time) time.Time {
	if d.unit == UnitMonths {
		return t.AddDate(0, d.count, 0)
	}
	return t.AddDate(0, 0, d.count)
}

func (d Duration) Count() int         { return d.count }
func (d Duration) Unit() DurationUnit { return d.unit }
func (d Duration) String() string     { return d.raw }

func leadingInt(s string, fallback int) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	n := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 || n == 0 {
		return fallback
	}
	return n
}
