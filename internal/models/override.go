package models

// OverrideName is the state name recorded while an override governs.
const OverrideName = "Override"

// Override is the singleton manual directive row. Exactly one of Flags or
// Band is set on a well-formed row.
type Override struct {
	IsEnabled bool          `json:"is_enabled"`
	EndsAt    *int64        `json:"ends_at,omitempty"` // minute stamp (ms); nil never expires
	Flags     *Flags        `json:"flags,omitempty"`   // direct-state override
	Band      *OverrideBand `json:"band,omitempty"`    // temperature override
}

// OverrideBand is the temperature variant of an Override.
type OverrideBand struct {
	TempMin    float64 `json:"temp_min"`
	TempMax    float64 `json:"temp_max"`
	TargetRoom string  `json:"target_room"`
}

// ActiveAt reports whether the override governs at the given minute stamp.
func (o Override) ActiveAt(stamp int64) bool {
	if !o.IsEnabled {
		return false
	}
	return o.EndsAt == nil || *o.EndsAt >= stamp
}
