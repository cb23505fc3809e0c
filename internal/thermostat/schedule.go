package thermostat

import (
	"slices"

	"home_thermostat/internal/models"
)

// SelectEntry returns the last entry whose start time is at or before minute.
// Before the first entry of the day nothing applies.
func SelectEntry(entries []models.ScheduleEntry, minute int) (models.ScheduleEntry, bool) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.ScheduleEntry) int {
		return a.StartTime - b.StartTime
	})

	var (
		selected models.ScheduleEntry
		found    bool
	)
	for _, e := range sorted {
		if minute < e.StartTime {
			break
		}
		selected, found = e, true
	}
	return selected, found
}
