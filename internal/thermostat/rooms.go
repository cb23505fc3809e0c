package thermostat

import (
	"time"

	"home_thermostat/internal/models"
)

// StalenessWindow is how long a room keeps its last reading through failed polls.
const StalenessWindow = 2 * time.Minute

// ReadingOutcome describes what a poll result did to a stored room.
type ReadingOutcome int

const (
	// ReadingKept: no reading, still inside the window; nothing to write.
	ReadingKept ReadingOutcome = iota
	// ReadingStored: a fresh reading replaced the stored one.
	ReadingStored
	// ReadingExpired: no reading and the stored one aged out; it was cleared.
	ReadingExpired
)

func (o ReadingOutcome) String() string {
	switch o {
	case ReadingStored:
		return "stored"
	case ReadingExpired:
		return "expired"
	default:
		return "kept"
	}
}

// ApplyReading folds one poll result into a stored room. reading is nil
// when the poll failed; stamp is the cycle's minute stamp.
func ApplyReading(room models.Room, reading *float64, stamp int64) (models.Room, ReadingOutcome) {
	if reading != nil {
		temp, ts := *reading, stamp
		room.LastTemp = room.CurrentTemp
		room.CurrentTemp = &temp
		room.CurrentTempTimestamp = &ts
		return room, ReadingStored
	}

	if room.CurrentTempTimestamp != nil && *room.CurrentTempTimestamp <= stamp-StalenessWindow.Milliseconds() {
		room.LastTemp = room.CurrentTemp
		room.CurrentTemp = nil
		room.CurrentTempTimestamp = nil
		return room, ReadingExpired
	}
	return room, ReadingKept
}

// RoomTemp is one entry of the room temperature mapping; Temp is nil when
// the room has no usable reading.
type RoomTemp struct {
	Name string   `json:"name"`
	Temp *float64 `json:"temp"`
}

// RoomTemps keeps the rooms in store order so substitution is deterministic.
type RoomTemps []RoomTemp

// TempsOf builds the mapping from stored rooms.
func TempsOf(rooms []models.Room) RoomTemps {
	out := make(RoomTemps, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomTemp{Name: r.Name, Temp: r.CurrentTemp})
	}
	return out
}

// Lookup returns the temperature of the named room, if present.
func (rt RoomTemps) Lookup(name string) (float64, bool) {
	for _, r := range rt {
		if r.Name == name {
			if r.Temp == nil {
				return 0, false
			}
			return *r.Temp, true
		}
	}
	return 0, false
}

// FirstAvailable returns the first room holding a temperature.
func (rt RoomTemps) FirstAvailable() (RoomTemp, bool) {
	for _, r := range rt {
		if r.Temp != nil {
			return r, true
		}
	}
	return RoomTemp{}, false
}
