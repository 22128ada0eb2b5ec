package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/viralengine/slate/internal/cache"
	"github.com/viralengine/slate/internal/models"
	"github.com/viralengine/slate/internal/store"
)

type writeCall struct {
	itemID string
	day    *time.Time
}

// fakeWriter records schedule writes in place of the real store client.
type fakeWriter struct {
	mu    sync.Mutex
	calls []writeCall
	err   error
}

func (f *fakeWriter) UpdateSchedule(ctx context.Context, itemID string, day *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, writeCall{itemID: itemID, day: day})
	return f.err
}

func (f *fakeWriter) recorded() []writeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]writeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestEngine(t *testing.T, items []models.ContentItem) (*Engine, *State, *Selector, *fakeWriter) {
	t.Helper()
	st := NewState()
	st.Load(items)
	sel := NewSelector()
	writer := &fakeWriter{}
	eng := NewEngine(st, sel, writer, cache.NewMockCache(), "user-1", time.Second)
	return eng, st, sel, writer
}

func drain(t *testing.T, eng *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := eng.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

func TestQueueToCalendar(t *testing.T) {
	eng, st, sel, writer := newTestEngine(t, []models.ContentItem{
		{ID: "a", Title: "Queued", Status: models.StatusCompleted, CreatedAt: day(2024, 4, 1)},
	})
	sel.Select(day(2024, 6, 1))

	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerQueue,
		DestinationContainerID: models.ContainerCalendar,
		ItemID:                 "a",
	})
	drain(t, eng)

	item, _ := st.Find("a")
	if item.ScheduledFor == nil || !item.ScheduledFor.Equal(day(2024, 6, 1)) {
		t.Fatalf("expected a scheduled for 2024-06-01, got %v", item.ScheduledFor)
	}

	slot := sel.SlotForSelectedDay(st.ScheduledView())
	if len(slot) != 1 || slot[0].ID != "a" {
		t.Fatalf("expected slot [a], got %v", slot)
	}

	calls := writer.recorded()
	if len(calls) != 1 || calls[0].itemID != "a" || calls[0].day == nil || !calls[0].day.Equal(day(2024, 6, 1)) {
		t.Fatalf("expected one write assigning a to 2024-06-01, got %v", calls)
	}
}

func TestCalendarBackToQueue(t *testing.T) {
	eng, st, _, writer := newTestEngine(t, []models.ContentItem{
		{ID: "b", Title: "Slotted", Status: models.StatusCompleted, CreatedAt: day(2024, 4, 1), ScheduledFor: dayPtr(2024, 6, 1)},
	})

	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerCalendar,
		DestinationContainerID: models.ContainerQueue,
		ItemID:                 "b",
	})
	drain(t, eng)

	item, _ := st.Find("b")
	if item.ScheduledFor != nil {
		t.Fatalf("expected b unscheduled, got %v", item.ScheduledFor)
	}

	queue := st.UnscheduledView()
	if len(queue) != 1 || queue[0].ID != "b" {
		t.Fatalf("expected queue [b], got %v", queue)
	}

	calls := writer.recorded()
	if len(calls) != 1 || calls[0].itemID != "b" || calls[0].day != nil {
		t.Fatalf("expected one clearing write for b, got %v", calls)
	}
}

func TestDirectReassignment(t *testing.T) {
	eng, st, sel, writer := newTestEngine(t, []models.ContentItem{
		{ID: "c", Title: "Moving day", Status: models.StatusCompleted, CreatedAt: day(2024, 4, 1), ScheduledFor: dayPtr(2024, 6, 1)},
	})
	sel.Select(day(2024, 6, 5))

	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerCalendar,
		DestinationContainerID: models.ContainerCalendar,
		ItemID:                 "c",
	})
	drain(t, eng)

	// One step: the item moves straight to the new day with no intermediate
	// unscheduled state and a single write.
	item, _ := st.Find("c")
	if item.ScheduledFor == nil || !item.ScheduledFor.Equal(day(2024, 6, 5)) {
		t.Fatalf("expected c on 2024-06-05, got %v", item.ScheduledFor)
	}
	calls := writer.recorded()
	if len(calls) != 1 || calls[0].day == nil || !calls[0].day.Equal(day(2024, 6, 5)) {
		t.Fatalf("expected a single reassigning write, got %v", calls)
	}
}

func TestSameContainerDropsChangeNothing(t *testing.T) {
	items := []models.ContentItem{
		{ID: "a", Title: "Queued", CreatedAt: day(2024, 4, 1)},
		{ID: "c", Title: "Slotted", CreatedAt: day(2024, 4, 2), ScheduledFor: dayPtr(2024, 6, 1)},
	}
	eng, st, sel, writer := newTestEngine(t, items)

	// Queue reorder.
	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerQueue,
		DestinationContainerID: models.ContainerQueue,
		ItemID:                 "a",
		DestinationIndex:       3,
	})

	// Calendar drop back onto the slot the item already occupies.
	sel.Select(day(2024, 6, 1))
	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerCalendar,
		DestinationContainerID: models.ContainerCalendar,
		ItemID:                 "c",
	})
	drain(t, eng)

	if a, _ := st.Find("a"); a.ScheduledFor != nil {
		t.Error("queue reorder changed a's assignment")
	}
	if c, _ := st.Find("c"); c.ScheduledFor == nil || !c.ScheduledFor.Equal(day(2024, 6, 1)) {
		t.Error("same-slot calendar drop changed c's assignment")
	}
	if calls := writer.recorded(); len(calls) != 0 {
		t.Fatalf("expected no writes, got %v", calls)
	}
}

func TestCancelledDragIsIgnored(t *testing.T) {
	eng, st, sel, writer := newTestEngine(t, []models.ContentItem{
		{ID: "a", Title: "Queued", CreatedAt: day(2024, 4, 1)},
	})
	sel.Select(day(2024, 6, 1))

	eng.HandleDrop(models.DropEvent{
		SourceContainerID: models.ContainerQueue,
		ItemID:            "a",
	})
	drain(t, eng)

	if item, _ := st.Find("a"); item.ScheduledFor != nil {
		t.Error("cancelled drag changed the item")
	}
	if calls := writer.recorded(); len(calls) != 0 {
		t.Fatalf("expected no writes, got %v", calls)
	}
}

func TestCalendarDropWithoutFocusIsIgnored(t *testing.T) {
	eng, st, _, writer := newTestEngine(t, []models.ContentItem{
		{ID: "a", Title: "Queued", CreatedAt: day(2024, 4, 1)},
	})

	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerQueue,
		DestinationContainerID: models.ContainerCalendar,
		ItemID:                 "a",
	})
	drain(t, eng)

	if item, _ := st.Find("a"); item.ScheduledFor != nil {
		t.Error("drop without a focused day changed the item")
	}
	if calls := writer.recorded(); len(calls) != 0 {
		t.Fatalf("expected no writes, got %v", calls)
	}
}

func TestMissingItemProducesNoWrite(t *testing.T) {
	eng, _, sel, writer := newTestEngine(t, []models.ContentItem{
		{ID: "a", Title: "Queued", CreatedAt: day(2024, 4, 1)},
	})
	sel.Select(day(2024, 6, 1))

	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerQueue,
		DestinationContainerID: models.ContainerCalendar,
		ItemID:                 "nonexistent-id",
	})
	drain(t, eng)

	if calls := writer.recorded(); len(calls) != 0 {
		t.Fatalf("expected no writes for a missing item, got %v", calls)
	}
}

func TestFailedWriteDoesNotRollBack(t *testing.T) {
	st := NewState()
	st.Load([]models.ContentItem{
		{ID: "a", Title: "Queued", CreatedAt: day(2024, 4, 1)},
	})
	sel := NewSelector()
	sel.Select(day(2024, 6, 1))
	writer := &fakeWriter{err: store.ErrNotFound}
	eng := NewEngine(st, sel, writer, nil, "user-1", time.Second)

	eng.HandleDrop(models.DropEvent{
		SourceContainerID:      models.ContainerQueue,
		DestinationContainerID: models.ContainerCalendar,
		ItemID:                 "a",
	})
	drain(t, eng)

	// The optimistic change stays; the divergence is resolved by the next load.
	item, _ := st.Find("a")
	if item.ScheduledFor == nil || !item.ScheduledFor.Equal(day(2024, 6, 1)) {
		t.Fatalf("expected optimistic assignment to survive a failed write, got %v", item.ScheduledFor)
	}
}
