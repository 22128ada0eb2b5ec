package models

import "time"

// Status is the production-pipeline state of an item. The scheduler reads it
// for display but never changes it.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// ContentItem represents one unit of produced content tracked by the scheduler.
// ScheduledFor is nil while the item sits in the unscheduled queue; when set it
// carries the calendar day the item is assigned to.
type ContentItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Status       Status     `json:"status"`
	Theme        string     `json:"theme,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

// Scheduled reports whether the item is assigned to a calendar day.
func (i ContentItem) Scheduled() bool {
	return i.ScheduledFor != nil
}

// DayOf truncates t to its calendar day in UTC. All day-level comparisons in
// the scheduler go through this so the time-of-day component never leaks into
// slot membership.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
