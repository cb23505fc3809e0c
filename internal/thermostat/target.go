// Package thermostat holds the pure control logic: target selection from the
// schedule, the room staleness rule and the hysteresis decision table.
package thermostat

import "home_thermostat/internal/models"

// Target is the directive governing a cycle, either a *ModeTarget or a
// *DirectTarget. A nil Target means nothing governs.
type Target interface {
	TargetName() string
	isTarget()
}

// ModeTarget is a temperature band: a scheduled mode or a temperature override.
type ModeTarget struct {
	Name       string
	TargetRoom string
	TempMin    float64
	TempMax    float64
	DefaultFan bool
}

func (t *ModeTarget) TargetName() string { return t.Name }
func (*ModeTarget) isTarget() {}

// DirectTarget pins the outputs regardless of temperature.
type DirectTarget struct {
	Flags models.Flags
}

func (*DirectTarget) TargetName() string { return models.OverrideName }
func (*DirectTarget) isTarget() {}

// FromMode wraps a scheduled mode.
func FromMode(m models.Mode) *ModeTarget {
	return &ModeTarget{
		Name:       m.Name,
		TargetRoom: m.TargetRoom,
		TempMin:    m.TempMin,
		TempMax:    m.TempMax,
		DefaultFan: m.DefaultFan,
	}
}

// FromOverride converts an override row into its target variant. A
// temperature override never runs the fan by default. Reports false for a
// row carrying neither variant.
func FromOverride(o models.Override) (Target, bool) {
	switch {
	case o.Band != nil:
		return &ModeTarget{
			Name:       models.OverrideName,
			TargetRoom: o.Band.TargetRoom,
			TempMin:    o.Band.TempMin,
			TempMax:    o.Band.TempMax,
			DefaultFan: false,
		}, true
	case o.Flags != nil:
		return &DirectTarget{Flags: *o.Flags}, true
	default:
		return nil, false
	}
}

// NameOf returns the state name recorded for t.
func NameOf(t Target) string {
	if t == nil {
		return models.IdleName
	}
	return t.TargetName()
}
