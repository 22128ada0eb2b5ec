package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viralengine/slate/internal/cache"
	"github.com/viralengine/slate/internal/logger"
	"github.com/viralengine/slate/internal/models"
	"github.com/viralengine/slate/internal/store"
)

// ScheduleWriter is the slice of the store client the engine needs for
// detached persistence writes.
type ScheduleWriter interface {
	UpdateSchedule(ctx context.Context, itemID string, day *time.Time) error
}

// Engine is the state machine driving queue/slot transitions. Every accepted
// drop mutates State optimistically first, then dispatches the persistence
// write in its own goroutine without awaiting it. Failed writes are logged,
// never rolled back; the next full reload reconciles any divergence.
type Engine struct {
	state    *State
	selector *Selector
	writer   ScheduleWriter
	cache    cache.SnapshotCache // may be nil
	owner    string

	writeTimeout time.Duration
	wg           sync.WaitGroup
}

func NewEngine(state *State, selector *Selector, writer ScheduleWriter, snapshots cache.SnapshotCache, owner string, writeTimeout time.Duration) *Engine {
	if writeTimeout <= 0 {
		writeTimeout = 15 * time.Second
	}
	return &Engine{
		state:        state,
		selector:     selector,
		writer:       writer,
		cache:        snapshots,
		owner:        owner,
		writeTimeout: writeTimeout,
	}
}

// HandleDrop processes one drop event. Transition validity is keyed on the
// source and destination container identity carried by the event; the drop
// index inside a container has no persisted effect. Calendar slots are
// day-scoped containers: a calendar drop resolves to the focused day, and a
// calendar-to-calendar drop onto the day the item already occupies is a pure
// reorder.
func (e *Engine) HandleDrop(evt models.DropEvent) {
	log := logger.Get()

	if evt.Cancelled() {
		log.Debug().Str("item_id", evt.ItemID).Msg("Drag cancelled, ignoring")
		return
	}

	switch evt.DestinationContainerID {
	case models.ContainerQueue:
		if evt.SourceContainerID == models.ContainerQueue {
			// Same-container reorder, nothing persisted changes.
			return
		}
		if !e.state.ApplyOptimisticUnassign(evt.ItemID) {
			log.Debug().Str("item_id", evt.ItemID).Msg("Unassign was a no-op")
			return
		}
		e.persistAsync(evt.ItemID, nil)

	case models.ContainerCalendar:
		day, ok := e.selector.Focused()
		if !ok {
			log.Warn().Str("item_id", evt.ItemID).Msg("Drop onto calendar with no focused day, ignoring")
			return
		}
		if evt.SourceContainerID == models.ContainerCalendar {
			if current, found := e.state.Find(evt.ItemID); found &&
				current.ScheduledFor != nil && models.SameDay(*current.ScheduledFor, day) {
				// Drop back onto the slot the item already occupies.
				return
			}
		}
		if !e.state.ApplyOptimisticAssign(evt.ItemID, day) {
			log.Debug().Str("item_id", evt.ItemID).Msg("Assign target no longer held, ignoring")
			return
		}
		e.persistAsync(evt.ItemID, &day)

	default:
		log.Warn().
			Str("destination", evt.DestinationContainerID).
			Str("item_id", evt.ItemID).
			Msg("Drop onto unknown container, ignoring")
	}
}

// persistAsync dispatches the schedule write fire-and-forget. The caller has
// already applied the optimistic mutation and does not wait for the store.
func (e *Engine) persistAsync(itemID string, day *time.Time) {
	writeID := uuid.NewString()
	logger.Get().Debug().
		Str("write_id", writeID).
		Str("item_id", itemID).
		Msg("Dispatching schedule write")

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
		defer cancel()

		if err := e.writer.UpdateSchedule(ctx, itemID, day); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logger.Get().Warn().
					Str("write_id", writeID).
					Str("item_id", itemID).
					Msg("Item vanished server-side; local view diverges until next reload")
			} else {
				logger.Get().Error().Err(err).
					Str("write_id", writeID).
					Str("item_id", itemID).
					Msg("Schedule write failed; local view diverges until next reload")
			}
			return
		}

		if e.cache != nil {
			if err := e.cache.Invalidate(ctx, e.owner); err != nil {
				logger.Get().Warn().Err(err).Str("write_id", writeID).Msg("Snapshot invalidation failed")
			}
		}

		logger.Get().Debug().
			Str("write_id", writeID).
			Str("item_id", itemID).
			Msg("Schedule write confirmed")
	}()
}

// Drain waits for all outstanding detached writes, or until ctx expires.
// Used by the host on shutdown; the writes themselves are never cancelled.
func (e *Engine) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
