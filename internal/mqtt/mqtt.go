// Package mqtt publishes applied thermostat states to a broker.
package mqtt

import (
	"encoding/json"
	"time"

	"home_thermostat/internal/models"
)

// DefaultTopic is the retained topic carrying the last applied state.
const DefaultTopic = "home/thermostat/state"

// Publisher publishes applied states.
type Publisher interface {
	// PublishState sends the state to the broker.
	// Returns error if publishing fails (should not fail the cycle).
	PublishState(state models.ThermostatState) error

	// Close disconnects from the broker.
	Close() error
}

// StatePayload is the MQTT message payload.
type StatePayload struct {
	Timestamp  string   `json:"timestamp"`
	Name       string   `json:"name"`
	AC         bool     `json:"ac"`
	Heat       bool     `json:"heat"`
	FanLow     bool     `json:"fan_low"`
	FanHigh    bool     `json:"fan_high"`
	TempMin    *float64 `json:"temp_min,omitempty"`
	TempMax    *float64 `json:"temp_max,omitempty"`
	TargetRoom *string  `json:"target_room,omitempty"`
}

// FormatPayload creates the JSON payload for a state.
func FormatPayload(state models.ThermostatState) ([]byte, error) {
	ts := state.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return json.Marshal(StatePayload{
		Timestamp:  ts.UTC().Format(time.RFC3339),
		Name:       state.Name,
		AC:         state.AC,
		Heat:       state.Heat,
		FanLow:     state.FanLow,
		FanHigh:    state.FanHigh,
		TempMin:    state.TempMin,
		TempMax:    state.TempMax,
		TargetRoom: state.TargetRoom,
	})
}

// NullPublisher drops every state. Used when no broker is configured.
type NullPublisher struct{}

func (NullPublisher) PublishState(models.ThermostatState) error { return nil }
func (NullPublisher) Close() error { return nil }
