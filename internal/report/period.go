package report

import (
	"time"

	dErrors "recruitbot/pkg/domain-errors"
)

const day = 24 * time.Hour

// Period selects how far back a report reaches.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists the periods in keyboard order.
func Periods() []Period {
	return []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}
}

// ParsePeriod accepts the callback token suffix ("day", "week", ...).
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown report period: "+s)
}

// Cutoff is the earliest registration time included. A day report starts at
// local midnight; the others look back a fixed number of days.
func (p Period) Cutoff(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.Add(-7 * day)
	case PeriodMonth:
		return now.Add(-30 * day)
	case PeriodYear:
		return now.Add(-365 * day)
	}
	return now
}

// Title is the phrase used in the report heading.
func (p Period) Title() string {
	switch p {
	case PeriodDay:
		return "за сегодня"
	case PeriodWeek:
		return "за неделю"
	case PeriodMonth:
		return "за месяц"
	case PeriodYear:
		return "за год"
	}
	return ""
}

// Label is the button caption.
func (p Period) Label() string {
	switch p {
	case PeriodDay:
		return "За день"
	case PeriodWeek:
		return "За неделю"
	case PeriodMonth:
		return "За месяц"
	case PeriodYear:
		return "За год"
	}
	return ""
}
