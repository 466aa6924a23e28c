// Package datetime computes payment due dates along the schedule timeline.
package datetime

import (
	"time"

	"github.com/Alliabson/Price/pkg/constants"
)

// Period is the cadence used when stepping from the anchor date to the Nth
// due date.
type Period int

const (
	// PeriodMonthly steps by calendar months.
	PeriodMonthly Period = iota
	// PeriodSemiannual steps by 180-day blocks.
	PeriodSemiannual
	// PeriodAnnual steps by calendar years.
	PeriodAnnual
)

// String returns the cadence name.
func (p Period) String() string {
	switch p {
	case PeriodMonthly:
		return "mensal"
	case PeriodSemiannual:
		return "semestral"
	case PeriodAnnual:
		return "anual"
	}
	return "desconhecido"
}

// MustParseTime parses a date string using the given layout and panics on
// error. This is intended for use in tests where the date string is known to
// be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// NextDueDate returns the due date of the Nth period after the anchor date.
//
// Monthly periods advance by calendar months rather than 30-day blocks so
// every installment lands on the same day of month; semiannual periods
// advance by 180 days and annual periods by whole years. In every case the
// requested due day is clamped to the last valid day of the resulting month
// (day 31 in a 30-day month, February). A due day that cannot be resolved at
// all degrades deterministically to day 28.
//
// The function is pure: the same inputs always produce the same date.
func NextDueDate(anchor time.Time, period Period, index int, dueDay int) time.Time {
	var year int
	var month time.Month

	switch period {
	case PeriodSemiannual:
		target := anchor.AddDate(0, 0, constants.SemiannualDays*index)
		year, month = target.Year(), target.Month()
	case PeriodAnnual:
		year, month = anchor.Year()+index, anchor.Month()
	default:
		totalMonths := int(anchor.Month()) + index
		year = anchor.Year() + (totalMonths-1)/constants.MonthsPerYear
		month = time.Month((totalMonths-1)%constants.MonthsPerYear + 1)
	}

	day := clampDueDay(dueDay, year, month)
	return time.Date(year, month, day, 0, 0, 0, 0, anchor.Location())
}

// ElapsedDays returns the number of whole days between the anchor and a due
// date. Used for the calendar-day discount basis of the legacy schedules.
func ElapsedDays(anchor, due time.Time) int {
	return int(due.Sub(anchor).Hours() / 24)
}

// LastDayOfMonth returns the last valid day of the given month.
func LastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDueDay(dueDay, year int, month time.Month) int {
	if dueDay < 1 {
		return constants.FallbackDueDay
	}
	lastDay := LastDayOfMonth(year, month)
	if dueDay > lastDay {
		return lastDay
	}
	return dueDay
}
