package schedule

import "github.com/viralengine/slate/internal/models"

// Surface is the drag interaction intake. It owns no data; it exists so hosts
// deliver drop events through one named seam instead of reaching into the
// engine. Delivery is synchronous: Drop returns after the optimistic mutation
// is applied, with only the persistence write still in flight.
type Surface struct {
	engine *Engine
}

func NewSurface(engine *Engine) *Surface {
	return &Surface{engine: engine}
}

// Drop forwards one drop event to the assignment engine.
func (s *Surface) Drop(evt models.DropEvent) {
	s.engine.HandleDrop(evt)
}
