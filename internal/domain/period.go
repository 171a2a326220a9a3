package domain

import "time"

// Months is the fixed table of Portuguese month names used for report
// buckets. Buckets are stored on each sale at write time, so editing this
// table never rewrites history.
var Months = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Period is a (month name, year) report bucket.
type Period struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// PeriodResolver maps calendar dates to report buckets. The clock is
// injectable so that "current" and "previous" periods are testable.
type PeriodResolver struct {
	now func() time.Time
}

// NewPeriodResolver creates a resolver using the given clock; a nil clock
// falls back to time.Now.
func NewPeriodResolver(now func() time.Time) *PeriodResolver {
	if now == nil {
		now = time.Now
	}
	return &PeriodResolver{now: now}
}

// Resolve returns the bucket the given date falls into.
func (r *PeriodResolver) Resolve(t time.Time) Period {
	return Period{
		Month: Months[int(t.Month())-1],
		Year:  t.Year(),
	}
}

// Current returns the bucket for today.
func (r *PeriodResolver) Current() Period {
	return r.Resolve(r.now())
}

// Previous returns the bucket for the previous calendar month. Walking back
// from the first day of the current month handles the January rollover into
// December of the prior year.
func (r *PeriodResolver) Previous() Period {
	today := r.now()
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return r.Resolve(firstOfMonth.AddDate(0, 0, -1))
}

// Today returns the current calendar date truncated to midnight UTC, the
// form sale and report dates are stored in.
func (r *PeriodResolver) Today() time.Time {
	t := r.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
