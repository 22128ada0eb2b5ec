package models

// Container identifiers carried by drag events.
const (
	ContainerQueue    = "queue"
	ContainerCalendar = "calendar"
)

// DropEvent is the payload delivered by the drag interaction surface when the
// user releases an item. An empty DestinationContainerID signals a cancelled
// drag. DestinationIndex is the drop position inside the destination
// container; it is carried for the host UI but never persisted, since the
// store keeps no per-day ordering.
type DropEvent struct {
	SourceContainerID      string `json:"source_container_id" validate:"required,oneof=queue calendar"`
	DestinationContainerID string `json:"destination_container_id" validate:"omitempty,oneof=queue calendar"`
	ItemID                 string `json:"item_id" validate:"required"`
	DestinationIndex       int    `json:"destination_index"`
}

// Cancelled reports whether the drag was released outside any container.
func (e DropEvent) Cancelled() bool {
	return e.DestinationContainerID == ""
}

// SameContainer reports whether the drop stayed inside its source container,
// which is a pure reorder and changes nothing persisted.
func (e DropEvent) SameContainer() bool {
	return e.SourceContainerID == e.DestinationContainerID
}
