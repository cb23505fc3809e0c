package models

// Room is a sensor-equipped room polled every cycle.
type Room struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name"`
	Address              string   `json:"address"`                          // host or host:port of the room sensor
	CurrentTemp          *float64 `json:"current_temp,omitempty"`           // nil when unknown or expired
	CurrentTempTimestamp *int64   `json:"current_temp_timestamp,omitempty"` // minute stamp (ms), set iff CurrentTemp is set
	LastTemp             *float64 `json:"last_temp,omitempty"`
}

// HasReading reports whether the room holds a current temperature.
func (r Room) HasReading() bool {
	return r.CurrentTemp != nil && r.CurrentTempTimestamp != nil
}
