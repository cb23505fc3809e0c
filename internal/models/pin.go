package models

// PinMapping binds an output flag name to a GPIO line offset.
type PinMapping struct {
	Name    string `json:"name"`    // ac | heat | fanLow | fanHigh
	Channel int    `json:"channel"` // BCM line offset
}
