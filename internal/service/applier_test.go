package service

import (
	"context"
	"errors"
	"testing"

	"home_thermostat/internal/hardware"
	"home_thermostat/internal/models"
)

func standardPins() *memPinRepo {
	return &memPinRepo{pins: []models.PinMapping{
		{Name: models.FlagAC, Channel: 17},
		{Name: models.FlagHeat, Channel: 27},
		{Name: models.FlagFanLow, Channel: 22},
		{Name: models.FlagFanHigh, Channel: 23},
	}}
}

func TestStateApplier_SavesAndDrivesChannels(t *testing.T) {
	states := &memStateRepo{}
	sink := hardware.NewFakeSink()
	svc := NewStateApplierService(states, standardPins(), sink, nil)

	desired := models.ThermostatState{Name: "Day", Flags: models.Flags{AC: true, FanLow: true}}
	if err := svc.Apply(context.Background(), desired); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(states.saves) != 1 || states.saves[0].ID != 1 || states.saves[0].Name != "Day" {
		t.Fatalf("unexpected saves: %+v", states.saves)
	}
	want := map[int]bool{17: true, 27: false, 22: true, 23: false}
	got := sink.Snapshot()
	for ch, level := range want {
		if got[ch] != level {
			t.Fatalf("channel %d: want %v, got %v (all=%v)", ch, level, got[ch], got)
		}
	}
}

func TestStateApplier_Idempotent(t *testing.T) {
	states := &memStateRepo{}
	sink := hardware.NewFakeSink()
	svc := NewStateApplierService(states, standardPins(), sink, nil)
	desired := models.ThermostatState{Name: "Night", Flags: models.Flags{Heat: true}}

	for i := 0; i < 2; i++ {
		if err := svc.Apply(context.Background(), desired); err != nil {
			t.Fatalf("Apply #%d: %v", i+1, err)
		}
	}
	if states.saves[0] != states.saves[1] {
		t.Fatalf("second apply stored a different row: %+v vs %+v", states.saves[0], states.saves[1])
	}
	if sink.Writes != 8 {
		t.Fatalf("expected every channel written on each apply, got %d writes", sink.Writes)
	}
}

func TestStateApplier_UnknownPinNameIsSkipped(t *testing.T) {
	pins := &memPinRepo{pins: []models.PinMapping{
		{Name: "humidifier", Channel: 5},
		{Name: models.FlagHeat, Channel: 27},
	}}
	sink := hardware.NewFakeSink()
	svc := NewStateApplierService(&memStateRepo{}, pins, sink, nil)

	if err := svc.Apply(context.Background(), models.ThermostatState{Flags: models.Flags{Heat: true}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := sink.Snapshot()
	if _, ok := got[5]; ok {
		t.Fatalf("unknown pin must not be written")
	}
	if !got[27] {
		t.Fatalf("heat channel must be active")
	}
}

func TestStateApplier_HardwareFailureIsNotFatal(t *testing.T) {
	sink := hardware.NewFakeSink()
	sink.SetError = errors.New("line busy")
	states := &memStateRepo{}
	svc := NewStateApplierService(states, standardPins(), sink, nil)

	if err := svc.Apply(context.Background(), models.ThermostatState{Name: "Day"}); err != nil {
		t.Fatalf("hardware errors must not fail Apply: %v", err)
	}
	if len(states.saves) != 1 {
		t.Fatalf("state must still be saved")
	}
}

func TestStateApplier_NilSinkUsesNullSink(t *testing.T) {
	svc := NewStateApplierService(&memStateRepo{}, standardPins(), nil, nil)
	if err := svc.Apply(context.Background(), models.ThermostatState{Name: "Day"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func TestStateApplier_StoreErrorsPropagate(t *testing.T) {
	boom := errors.New("db down")

	svc := NewStateApplierService(&memStateRepo{saveErr: boom}, standardPins(), hardware.NewFakeSink(), nil)
	if err := svc.Apply(context.Background(), models.ThermostatState{}); !errors.Is(err, boom) {
		t.Fatalf("save: expected %v, got %v", boom, err)
	}

	sink := hardware.NewFakeSink()
	svc = NewStateApplierService(&memStateRepo{}, &memPinRepo{listErr: boom}, sink, nil)
	if err := svc.Apply(context.Background(), models.ThermostatState{}); !errors.Is(err, boom) {
		t.Fatalf("pins: expected %v, got %v", boom, err)
	}
	if sink.Writes != 0 {
		t.Fatalf("no channel may be written when pins cannot be listed")
	}
}
