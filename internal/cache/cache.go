package cache

import (
	"context"
	"time"

	"github.com/viralengine/slate/internal/models"
)

// SnapshotCache stores the last successfully fetched item collection so the
// host can come up in a degraded read-only mode when the durable store is
// unreachable at bootstrap. It is invalidated on every schedule write because
// detached writes make any cached snapshot immediately stale.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, owner string) ([]models.ContentItem, bool, error)
	SetSnapshot(ctx context.Context, owner string, items []models.ContentItem, ttl time.Duration) error
	Invalidate(ctx context.Context, owner string) error
	Close() error
}
