package models

import "time"

// Event types recorded by the controller.
const (
	EventStateChange     = "STATE_CHANGE"
	EventRoomStale       = "ROOM_STALE"
	EventOverrideSet     = "OVERRIDE_SET"
	EventOverrideCleared = "OVERRIDE_CLEARED"
)

// ThermostatEvent is a single log entry.
type ThermostatEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // STATE_CHANGE | ROOM_STALE | OVERRIDE_SET | OVERRIDE_CLEARED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
