package service

import "time"

// BandParams is a temperature override request.
type BandParams struct {
	TempMin    float64
	TempMax    float64
	TargetRoom string // "" lets the engine use any room with data
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "STATE_CHANGE", "ROOM_STALE", "OVERRIDE_SET", "OVERRIDE_CLEARED"
}
