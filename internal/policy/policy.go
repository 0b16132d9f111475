// Package policy resolves a book's borrow policy into an optional return
// deadline. Resolution is pure: the caller supplies the borrow instant and
// the result depends on nothing else.
package policy

import (
	"time"

	"liblend-backend/internal/domain"
)

// DailyCutoffHour is the fixed daily-return cutoff: 22:00 UTC.
const DailyCutoffHour = 22

// ReturnDeadline maps a policy and the borrow instant t0 to the instant the
// book must be back, or nil for policies without a deadline. Policies are
// validated where they are set; an unknown or malformed kind resolves like
// STANDARD.
func ReturnDeadline(p domain.BorrowPolicy, t0 time.Time) *time.Time {
	switch p.Kind {
	case domain.PolicyTimed:
		if p.Hours <= 0 {
			return nil
		}
		d := t0.Add(time.Duration(p.Hours) * time.Hour)
		return &d
	case domain.PolicyDailyReturn:
		d := nextDailyCutoff(t0)
		return &d
	default:
		return nil
	}
}

// nextDailyCutoff returns the first daily cutoff strictly after t0: borrows
// before today's cutoff are due today, borrows at or after it roll to
// tomorrow. time.Date normalizes day overflow, so month and year boundaries
// carry over.
func nextDailyCutoff(t0 time.Time) time.Time {
	u := t0.UTC()
	cutoff := time.Date(u.Year(), u.Month(), u.Day(), DailyCutoffHour, 0, 0, 0, time.UTC)
	if !u.Before(cutoff) {
		cutoff = time.Date(u.Year(), u.Month(), u.Day()+1, DailyCutoffHour, 0, 0, 0, time.UTC)
	}
	return cutoff
}
