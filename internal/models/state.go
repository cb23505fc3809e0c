package models

import "time"

// IdleName is the state name recorded when nothing governs.
const IdleName = "Idle"

// Output flag names, shared with the pin mapping table.
const (
	FlagAC      = "ac"
	FlagHeat    = "heat"
	FlagFanLow  = "fanLow"
	FlagFanHigh = "fanHigh"
)

// Flags are the four HVAC outputs.
type Flags struct {
	AC      bool `json:"ac"`
	Heat    bool `json:"heat"`
	FanLow  bool `json:"fan_low"`
	FanHigh bool `json:"fan_high"`
}

// ThermostatState is both the persisted current state and a desired state.
type ThermostatState struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Flags
	TempMin    *float64  `json:"temp_min,omitempty"`
	TempMax    *float64  `json:"temp_max,omitempty"`
	TargetRoom *string   `json:"target_room,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Flag returns the output named by a pin mapping entry.
func (s ThermostatState) Flag(name string) (bool, bool) {
	switch name {
	case FlagAC:
		return s.AC, true
	case FlagHeat:
		return s.Heat, true
	case FlagFanLow:
		return s.FanLow, true
	case FlagFanHigh:
		return s.FanHigh, true
	default:
		return false, false
	}
}

// SameOutputs reports whether both states drive the outputs identically.
func (s ThermostatState) SameOutputs(other ThermostatState) bool {
	return s.Flags == other.Flags
}
