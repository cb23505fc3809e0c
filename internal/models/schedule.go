package models

// MinutesPerDay bounds ScheduleEntry.StartTime.
const MinutesPerDay = 24 * 60

// ScheduleEntry switches to Mode at StartTime minutes after local midnight.
type ScheduleEntry struct {
	ID        int    `json:"id"`
	StartTime int    `json:"start_time"` // 0..1439
	Mode      string `json:"mode"`
}

// Mode is a named temperature band selected by the schedule.
type Mode struct {
	Name       string  `json:"name"`
	TargetRoom string  `json:"target_room,omitempty"` // "" means any room with data
	TempMin    float64 `json:"temp_min"`
	TempMax    float64 `json:"temp_max"`
	DefaultFan bool    `json:"default_fan"`
}
