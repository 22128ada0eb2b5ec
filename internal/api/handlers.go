package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/viralengine/slate/internal/cache"
	"github.com/viralengine/slate/internal/config"
	"github.com/viralengine/slate/internal/logger"
	"github.com/viralengine/slate/internal/middleware"
	"github.com/viralengine/slate/internal/models"
	"github.com/viralengine/slate/internal/schedule"
	"github.com/viralengine/slate/internal/store"
)

const dayFormat = "2006-01-02"

// ItemStore is the slice of the store client the handlers need for reloads.
type ItemStore interface {
	FetchAll(ctx context.Context) ([]models.ContentItem, error)
}

// SnapshotExporter uploads a schedule snapshot and returns its object key.
type SnapshotExporter interface {
	Export(ctx context.Context, owner string, items []models.ContentItem) (string, error)
}

type Handlers struct {
	config    *config.Config
	state     *schedule.State
	selector  *schedule.Selector
	surface   *schedule.Surface
	store     ItemStore
	snapshots cache.SnapshotCache
	exporter  SnapshotExporter // nil when export is not configured
	owner     string
	validator *middleware.Validator
}

func NewHandlers(
	cfg *config.Config,
	state *schedule.State,
	selector *schedule.Selector,
	surface *schedule.Surface,
	itemStore ItemStore,
	snapshots cache.SnapshotCache,
	exporter SnapshotExporter,
	owner string,
) *Handlers {
	return &Handlers{
		config:    cfg,
		state:     state,
		selector:  selector,
		surface:   surface,
		store:     itemStore,
		snapshots: snapshots,
		exporter:  exporter,
		owner:     owner,
		validator: middleware.NewValidator(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"items":  h.state.Len(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetQueue handles GET /api/v1/schedule/queue
func (h *Handlers) GetQueue(c *fiber.Ctx) error {
	items := h.state.UnscheduledView()
	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetScheduled handles GET /api/v1/schedule/scheduled
func (h *Handlers) GetScheduled(c *fiber.Ctx) error {
	items := h.state.ScheduledView()
	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetDay handles GET /api/v1/schedule/day/:date. It filters without moving
// the focused day.
func (h *Handlers) GetDay(c *fiber.Ctx) error {
	day, err := time.Parse(dayFormat, c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date must be formatted as YYYY-MM-DD",
		})
	}

	slot := schedule.SlotForDay(h.state.ScheduledView(), day)
	return c.JSON(fiber.Map{
		"day":   day.Format(dayFormat),
		"items": slot,
		"total": len(slot),
	})
}

type focusRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// PostFocus handles POST /api/v1/schedule/focus
func (h *Handlers) PostFocus(c *fiber.Ctx) error {
	var req focusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": middleware.FieldErrors(err),
		})
	}

	day, err := time.Parse(dayFormat, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date must be formatted as YYYY-MM-DD",
		})
	}

	h.selector.Select(day)
	return c.JSON(fiber.Map{
		"focused_day": day.Format(dayFormat),
	})
}

// PostDrop handles POST /api/v1/schedule/drop. The optimistic mutation is
// applied before the response; the persistence write stays in flight.
func (h *Handlers) PostDrop(c *fiber.Ctx) error {
	var evt models.DropEvent
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validator.Validate(evt); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": middleware.FieldErrors(err),
		})
	}

	if evt.Cancelled() {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "ignored",
		})
	}

	h.surface.Drop(evt)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
	})
}

// PostReload handles POST /api/v1/schedule/reload: the reconciliation path.
func (h *Handlers) PostReload(c *fiber.Ctx) error {
	items, err := h.store.FetchAll(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Reload failed")
		if errors.Is(err, store.ErrStoreUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Item store is unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reload items",
		})
	}

	h.state.Load(items)

	if h.snapshots != nil {
		if err := h.snapshots.SetSnapshot(c.Context(), h.owner, items, h.config.SnapshotTTL); err != nil {
			logger.Get().Warn().Err(err).Msg("Failed to cache reloaded snapshot")
		}
	}

	return c.JSON(fiber.Map{
		"total": len(items),
	})
}

// PostExport handles POST /api/v1/admin/export
func (h *Handlers) PostExport(c *fiber.Ctx) error {
	if h.exporter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Snapshot export is not configured",
		})
	}

	key, err := h.exporter.Export(c.Context(), h.owner, h.state.Snapshot())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Snapshot export failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export snapshot",
		})
	}

	return c.JSON(fiber.Map{
		"key": key,
	})
}
