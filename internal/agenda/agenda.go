// Package agenda derives temporal views from task collections: which tasks are
// due today, tomorrow, overdue or upcoming, and the aggregate counters shown on
// the dashboard.
//
// All comparisons happen at calendar-day granularity in the location of the
// reference instant. Callers capture "now" once and pass the same value to
// every function involved in a single computation.
package agenda

import (
	"time"

	"github.com/dori/promanager/internal/model"
)

// Clock returns the current instant
type Clock func() time.Time

// SystemClock is the wall clock in the local time zone
func SystemClock() time.Time { return time.Now() }

// DefaultUpcomingDays covers tomorrow through one week after tomorrow
const DefaultUpcomingDays = 8

// Bucket is the temporal classification of a due date
type Bucket int

const (
	BucketNone Bucket = iota
	BucketOverdue
	BucketToday
	BucketTomorrow
	BucketLater
)

// String returns the bucket name
func (b Bucket) String() string {
	switch b {
	case BucketOverdue:
		return "overdue"
	case BucketToday:
		return "today"
	case BucketTomorrow:
		return "tomorrow"
	case BucketLater:
		return "later"
	default:
		return "none"
	}
}

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns how many calendar days due lies after now's day.
// Negative values are days in the past. due is read in now's location.
func DaysUntil(due, now time.Time) int {
	dy, dm, dd := due.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	// Compare in UTC so DST transitions don't skew the day count
	a := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b) / (24 * time.Hour))
}

// Classify assigns a due date to exactly one bucket. A due date on the
// current calendar day is Today even when its time of day has passed.
func Classify(due *time.Time, now time.Time) Bucket {
	if due == nil {
		return BucketNone
	}
	switch n := DaysUntil(*due, now); {
	case n < 0:
		return BucketOverdue
	case n == 0:
		return BucketToday
	case n == 1:
		return BucketTomorrow
	default:
		return BucketLater
	}
}

// IsToday returns true if the task is due on now's calendar day
func IsToday(t *model.Task, now time.Time) bool {
	return Classify(t.DueDate, now) == BucketToday
}

// IsTomorrow returns true if the task is due on the day after now
func IsTomorrow(t *model.Task, now time.Time) bool {
	return Classify(t.DueDate, now) == BucketTomorrow
}

// IsOverdue returns true if the task is incomplete and due before today
func IsOverdue(t *model.Task, now time.Time) bool {
	return !t.Completed && Classify(t.DueDate, now) == BucketOverdue
}

// IsUpcoming returns true if the task is incomplete and due inside the window
func IsUpcoming(t *model.Task, now time.Time, w Window) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return w.Contains(*t.DueDate, now)
}

// Window is the upcoming policy: the number of calendar days after today
// that count as upcoming. Zero or negative Days means no upper bound.
type Window struct {
	Days int
}

// DefaultWindow returns the tomorrow-through-next-week window
func DefaultWindow() Window {
	return Window{Days: DefaultUpcomingDays}
}

// Contains reports whether due falls inside the window relative to now
func (w Window) Contains(due, now time.Time) bool {
	n := DaysUntil(due, now)
	if n < 1 {
		return false
	}
	return w.Days <= 0 || n <= w.Days
}

// Bounds returns the half-open instant range [from, to) covered by the
// window. A zero to means the range is open-ended.
func (w Window) Bounds(now time.Time) (from, to time.Time) {
	today := StartOfDay(now)
	from = today.AddDate(0, 0, 1)
	if w.Days > 0 {
		to = today.AddDate(0, 0, w.Days+1)
	}
	return from, to
}

// TodayBounds returns [start of today, start of tomorrow) in now's location
func TodayBounds(now time.Time) (from, to time.Time) {
	from = StartOfDay(now)
	return from, from.AddDate(0, 0, 1)
}
