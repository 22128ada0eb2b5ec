// Package schedule implements the scheduling core: the in-memory reflection
// of the item collection, the per-day derivation, and the drop-event state
// machine with optimistic mutation and detached persistence.
package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/viralengine/slate/internal/models"
)

// State owns the session-local item collection. All views return copies, so
// consumers never observe an item mid-mutation. The collection is replaced
// wholesale by Load; individual items are replaced whole on mutation, never
// field-patched in place.
type State struct {
	mu    sync.RWMutex
	items []models.ContentItem
}

func NewState() *State {
	return &State{}
}

// Load replaces the held collection wholesale. Last write wins; there are no
// merge semantics. This is the only reconciliation mechanism against the
// durable store.
func (s *State) Load(items []models.ContentItem) {
	copied := make([]models.ContentItem, len(items))
	copy(copied, items)

	s.mu.Lock()
	s.items = copied
	s.mu.Unlock()
}

// UnscheduledView returns the items with no day assignment, most recently
// created first. Recomputed on every call; the held collection is the single
// source of truth.
func (s *State) UnscheduledView() []models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make([]models.ContentItem, 0)
	for _, item := range s.items {
		if !item.Scheduled() {
			view = append(view, item)
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].CreatedAt.After(view[j].CreatedAt)
	})
	return view
}

// ScheduledView returns the items assigned to a day, in stable held order.
func (s *State) ScheduledView() []models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make([]models.ContentItem, 0)
	for _, item := range s.items {
		if item.Scheduled() {
			view = append(view, item)
		}
	}
	return view
}

// Snapshot returns a copy of the full held collection.
func (s *State) Snapshot() []models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.ContentItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// Find returns a copy of the item with the given id.
func (s *State) Find(itemID string) (models.ContentItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.ContentItem{}, false
}

// Len returns the number of held items.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ApplyOptimisticAssign assigns the item to day's calendar day. A missing id
// is a silent no-op: the item may have been removed between the drag event
// firing and the handler running. Reports whether anything changed.
func (s *State) ApplyOptimisticAssign(itemID string, day time.Time) bool {
	truncated := models.DayOf(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != itemID {
			continue
		}
		item.ScheduledFor = &truncated
		s.items[i] = item
		return true
	}
	return false
}

// ApplyOptimisticUnassign clears the item's day assignment. Idempotent;
// missing ids are a silent no-op. Reports whether anything changed.
func (s *State) ApplyOptimisticUnassign(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != itemID {
			continue
		}
		changed := item.ScheduledFor != nil
		item.ScheduledFor = nil
		s.items[i] = item
		return changed
	}
	return false
}
