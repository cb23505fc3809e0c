// Package clock supplies wall time and the minute stamps stored alongside
// room readings and overrides.
package clock

import "time"

// Clock returns the current wall time.
type Clock interface {
	Now() time.Time
}

// System reads the host clock, optionally converted to a fixed location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	now := time.Now()
	if s.Location != nil {
		return now.In(s.Location)
	}
	return now
}

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// MinuteStamp returns t in milliseconds since the epoch, floored to the minute.
func MinuteStamp(t time.Time) int64 {
	return t.Unix() / 60 * 60 * 1000
}

// MinutesFromMidnight returns the wall-clock minute of the day in t's location.
func MinutesFromMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Minutes converts a duration to the millisecond scale used by minute stamps.
func Minutes(d time.Duration) int64 {
	return d.Milliseconds()
}
