package service

import (
	"context"
	"fmt"
	"time"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/models"
	"home_thermostat/internal/mqtt"
	"home_thermostat/internal/repository"
	"home_thermostat/internal/thermostat"

	"github.com/google/uuid"
)

// CycleResult reports what an update cycle did.
type CycleResult struct {
	State       models.ThermostatState `json:"state"`
	Reason      thermostat.Reason      `json:"reason"`
	Room        string                 `json:"room,omitempty"`
	Substituted bool                   `json:"substituted"`
	Changed     bool                   `json:"changed"` // outputs differ from the previous state
	Skipped     bool                   `json:"skipped"` // no target and applying Idle is disabled
}

type roomRefresher interface {
	RefreshRooms(ctx context.Context) (thermostat.RoomTemps, error)
}

type targetResolver interface {
	ResolveTarget(ctx context.Context, now time.Time) (thermostat.Target, error)
}

type stateApplier interface {
	Apply(ctx context.Context, desired models.ThermostatState) error
}

type ThermostatDeps struct {
	Rooms     repository.RoomRepo
	States    repository.StateRepo
	Events    repository.EventRepo
	Refresher roomRefresher
	Resolver  targetResolver
	Applier   stateApplier
	Publisher mqtt.Publisher
	Clock     clock.Clock
	Log       *logger.Logger
	Options   Options
}

// ThermostatService runs the control loop: refresh rooms, then
// resolve, decide and apply.
type ThermostatService struct {
	deps ThermostatDeps
	log  *logger.Logger
}

func NewThermostatService(deps ThermostatDeps) *ThermostatService {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Publisher == nil {
		deps.Publisher = mqtt.NullPublisher{}
	}
	return &ThermostatService{deps: deps, log: logger.OrNop(deps.Log)}
}

func (s *ThermostatService) RefreshRooms(ctx context.Context) (thermostat.RoomTemps, error) {
	return s.deps.Refresher.RefreshRooms(ctx)
}

func (s *ThermostatService) Cycle(ctx context.Context) (CycleResult, error) {
	if _, err := s.RefreshRooms(ctx); err != nil {
		return CycleResult{}, err
	}
	return s.Update(ctx)
}

// Update reads the stored room temperatures, so it sees whatever the last
// refresh wrote.
func (s *ThermostatService) Update(ctx context.Context) (CycleResult, error) {
	now := s.deps.Clock.Now()

	rooms, err := s.deps.Rooms.List(ctx)
	if err != nil {
		return CycleResult{}, fmt.Errorf("list rooms: %w", err)
	}
	target, err := s.deps.Resolver.ResolveTarget(ctx, now)
	if err != nil {
		return CycleResult{}, err
	}
	current, err := s.deps.States.Load(ctx)
	if err != nil {
		return CycleResult{}, fmt.Errorf("load state: %w", err)
	}

	if target == nil && !s.deps.Options.ApplyWithoutTarget {
		s.log.Infow("cycle_skipped", "reason", thermostat.ReasonNoTarget)
		return CycleResult{State: current, Reason: thermostat.ReasonNoTarget, Skipped: true}, nil
	}

	d := thermostat.Decide(thermostat.TempsOf(rooms), target, current)
	if d.Substituted {
		s.log.Infow("target_room_substituted", "target", thermostat.NameOf(target), "wanted", roomOf(target), "used", d.Room, "temp", d.Temp)
	}
	if d.Reason == thermostat.ReasonNoRoomData {
		s.log.Warnw("no_room_data", "target", thermostat.NameOf(target))
	}

	desired := d.State
	desired.ID = 1
	desired.UpdatedAt = now.UTC()
	if err := s.deps.Applier.Apply(ctx, desired); err != nil {
		return CycleResult{}, err
	}

	changed := current.ID == 0 || !current.SameOutputs(desired)
	s.log.Debugw("cycle_applied", "name", desired.Name, "reason", d.Reason, "changed", changed)
	if changed {
		s.announce(ctx, current, desired, d)
	}

	return CycleResult{
		State:       desired,
		Reason:      d.Reason,
		Room:        d.Room,
		Substituted: d.Substituted,
		Changed:     changed,
	}, nil
}

// announce records a STATE_CHANGE event and publishes the state. Neither
// failure fails the cycle: the state is already applied.
func (s *ThermostatService) announce(ctx context.Context, previous, desired models.ThermostatState, d thermostat.Decision) {
	if err := s.deps.Publisher.PublishState(desired); err != nil {
		s.log.Warnw("state_publish_failed", "err", err)
	}
	if s.deps.Events == nil {
		return
	}
	err := s.deps.Events.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  desired.UpdatedAt,
		Type:        models.EventStateChange,
		Description: "Outputs changed under " + desired.Name,
		Metadata: map[string]any{
			"reason":   string(d.Reason),
			"room":     d.Room,
			"previous": previous.Flags,
			"current":  desired.Flags,
		},
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", models.EventStateChange, "err", err)
	}
}

func roomOf(t thermostat.Target) string {
	if m, ok := t.(*thermostat.ModeTarget); ok {
		return m.TargetRoom
	}
	return ""
}
