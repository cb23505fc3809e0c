package thermostat

import "home_thermostat/internal/models"

// Fixed hysteresis offsets, in sensor units.
const (
	boostOffset   = 5.0 // above TempMax+boost: cool on high fan
	triggerOffset = 1.0 // outside the band by more than this: start cooling/heating
	holdOffset    = 1.0 // keep running until back inside the band by this much
)

// Reason names the rule that produced a decision.
type Reason string

const (
	ReasonNoTarget   Reason = "no_target"
	ReasonDirect     Reason = "direct_override"
	ReasonNoRoomData Reason = "no_room_data"
	ReasonCoolBoost  Reason = "cool_boost"
	ReasonCool       Reason = "cool"
	ReasonHeat       Reason = "heat"
	ReasonCoolHold   Reason = "cool_hold"
	ReasonHeatHold   Reason = "heat_hold"
	ReasonDeadBand   Reason = "dead_band"
)

// Decision is the desired state plus how it was reached.
type Decision struct {
	State       models.ThermostatState
	Reason      Reason
	Room        string  // room whose temperature was compared
	Temp        float64 // its temperature
	Substituted bool    // Room replaced the target's room, which had no data
}

// defaultState is the all-off state with the low fan running.
func defaultState(name string) models.ThermostatState {
	return models.ThermostatState{
		Name:  name,
		Flags: models.Flags{FanLow: true},
	}
}

// Decide maps room temperatures, the governing target and the current
// persisted state to the desired state. It does no I/O.
func Decide(rooms RoomTemps, target Target, current models.ThermostatState) Decision {
	switch t := target.(type) {
	case nil:
		return Decision{State: defaultState(models.IdleName), Reason: ReasonNoTarget}
	case *DirectTarget:
		return decideDirect(t, current)
	case *ModeTarget:
		return decideBand(rooms, t, current)
	default:
		return Decision{State: defaultState(models.IdleName), Reason: ReasonNoTarget}
	}
}

// decideDirect pins the override flags and carries the band of the current
// state forward.
func decideDirect(t *DirectTarget, current models.ThermostatState) Decision {
	return Decision{
		State: models.ThermostatState{
			Name:       t.TargetName(),
			Flags:      t.Flags,
			TempMin:    current.TempMin,
			TempMax:    current.TempMax,
			TargetRoom: current.TargetRoom,
		},
		Reason: ReasonDirect,
	}
}

func decideBand(rooms RoomTemps, t *ModeTarget, current models.ThermostatState) Decision {
	tempMin, tempMax := t.TempMin, t.TempMax
	desired := defaultState(t.Name)
	desired.TempMin = &tempMin
	desired.TempMax = &tempMax
	if t.TargetRoom != "" {
		room := t.TargetRoom
		desired.TargetRoom = &room
	}

	d := Decision{State: desired, Room: t.TargetRoom}

	temp, ok := rooms.Lookup(t.TargetRoom)
	if !ok {
		sub, found := rooms.FirstAvailable()
		if !found {
			d.Reason = ReasonNoRoomData
			return d
		}
		d.Room, d.Substituted, temp = sub.Name, true, *sub.Temp
	}
	d.Temp = temp

	s := &d.State
	if !t.DefaultFan {
		s.FanLow = false
	}

	switch {
	case temp > tempMax+boostOffset:
		s.AC, s.FanHigh, s.FanLow = true, true, false
		d.Reason = ReasonCoolBoost
	case temp > tempMax+triggerOffset:
		s.AC, s.FanLow = true, true
		d.Reason = ReasonCool
	case temp < tempMin-triggerOffset:
		s.Heat, s.FanLow = true, false
		d.Reason = ReasonHeat
	case current.AC && temp > tempMax-holdOffset:
		s.AC, s.FanLow = true, true
		d.Reason = ReasonCoolHold
	case current.Heat && temp < tempMin+holdOffset:
		s.Heat, s.FanLow = true, false
		d.Reason = ReasonHeatHold
	default:
		d.Reason = ReasonDeadBand
	}
	return d
}
