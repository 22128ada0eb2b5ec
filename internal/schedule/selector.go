package schedule

import (
	"sync"
	"time"

	"github.com/viralengine/slate/internal/models"
)

// Selector tracks the single focused calendar date. Any well-formed date is
// acceptable, past or future; there is no booking window.
type Selector struct {
	mu      sync.RWMutex
	day     time.Time
	focused bool
}

func NewSelector() *Selector {
	return &Selector{}
}

// Select replaces the focused date with day's calendar-day value.
func (s *Selector) Select(day time.Time) {
	truncated := models.DayOf(day)

	s.mu.Lock()
	s.day = truncated
	s.focused = true
	s.mu.Unlock()
}

// Clear drops the focus.
func (s *Selector) Clear() {
	s.mu.Lock()
	s.focused = false
	s.mu.Unlock()
}

// Focused returns the focused day, if any.
func (s *Selector) Focused() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day, s.focused
}

// SlotForSelectedDay filters scheduled items down to those assigned to the
// focused day. Returns an empty slice when nothing matches or no date is
// focused; never an error.
func (s *Selector) SlotForSelectedDay(scheduled []models.ContentItem) []models.ContentItem {
	day, ok := s.Focused()
	if !ok {
		return []models.ContentItem{}
	}
	return SlotForDay(scheduled, day)
}

// SlotForDay filters scheduled items down to those whose assignment falls on
// day, compared at calendar-day granularity.
func SlotForDay(scheduled []models.ContentItem, day time.Time) []models.ContentItem {
	slot := make([]models.ContentItem, 0)
	for _, item := range scheduled {
		if item.ScheduledFor != nil && models.SameDay(*item.ScheduledFor, day) {
			slot = append(slot, item)
		}
	}
	return slot
}
