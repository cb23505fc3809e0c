package cli

import (
	"fmt"
	"io"
	"time"

	"home_thermostat/internal/models"
	"home_thermostat/internal/service"
	"home_thermostat/internal/thermostat"

	"github.com/fatih/color"
)

func onOff(v bool) string {
	if v {
		return color.New(color.FgGreen).Sprint("ON ")
	}
	return color.New(color.Faint).Sprint("off")
}

func formatTemp(t *float64) string {
	if t == nil {
		return color.New(color.FgYellow).Sprint("no reading")
	}
	return fmt.Sprintf("%.1f°", *t)
}

func printFlags(w io.Writer, f models.Flags) {
	fmt.Fprintf(w, "  ac %s  heat %s  fan-low %s  fan-high %s\n",
		onOff(f.AC), onOff(f.Heat), onOff(f.FanLow), onOff(f.FanHigh))
}

func printBand(w io.Writer, s models.ThermostatState) {
	if s.TempMin == nil || s.TempMax == nil {
		return
	}
	room := "-"
	if s.TargetRoom != nil {
		room = *s.TargetRoom
	}
	fmt.Fprintf(w, "  band %.1f..%.1f° in %s\n", *s.TempMin, *s.TempMax, room)
}

func printCycle(w io.Writer, res service.CycleResult) {
	if res.Skipped {
		fmt.Fprintf(w, "%s nothing governs; state left untouched\n", color.New(color.FgYellow).Sprint("SKIPPED"))
		return
	}

	changed := color.New(color.Faint).Sprint("unchanged")
	if res.Changed {
		changed = color.New(color.FgCyan).Sprint("changed")
	}
	fmt.Fprintf(w, "%s (%s, %s)\n", color.New(color.Bold).Sprint(res.State.Name), res.Reason, changed)
	printFlags(w, res.State.Flags)
	printBand(w, res.State)
	switch {
	case res.Substituted:
		fmt.Fprintf(w, "  using %s in place of the target room\n", res.Room)
	case res.Reason == thermostat.ReasonNoRoomData:
		fmt.Fprintf(w, "  %s\n", color.New(color.FgRed).Sprint("no room has a reading"))
	}
}

func printRoomTemps(w io.Writer, temps thermostat.RoomTemps) {
	if len(temps) == 0 {
		fmt.Fprintln(w, "no rooms configured")
		return
	}
	for _, rt := range temps {
		fmt.Fprintf(w, "%-16s %s\n", rt.Name, formatTemp(rt.Temp))
	}
}

func printStatus(w io.Writer, st service.Status) {
	s := st.State
	fmt.Fprintf(w, "%s", color.New(color.Bold).Sprint(s.Name))
	if !s.UpdatedAt.IsZero() {
		fmt.Fprintf(w, " since %s", s.UpdatedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w)
	printFlags(w, s.Flags)
	printBand(w, s)

	fmt.Fprintln(w)
	if len(st.Rooms) == 0 {
		fmt.Fprintln(w, "no rooms configured")
		return
	}
	for _, r := range st.Rooms {
		line := fmt.Sprintf("%-16s %-22s %s", r.Name, r.Address, formatTemp(r.CurrentTemp))
		if r.CurrentTempTimestamp != nil {
			at := time.UnixMilli(*r.CurrentTempTimestamp).Local()
			line += fmt.Sprintf(" at %s", at.Format("15:04"))
		}
		if r.LastTemp != nil {
			line += fmt.Sprintf(" (last %.1f°)", *r.LastTemp)
		}
		fmt.Fprintln(w, line)
	}
}
