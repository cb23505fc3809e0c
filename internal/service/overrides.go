package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"

	"github.com/google/uuid"
)

const defaultOverrideDuration = 6 * time.Hour

var errInvalidBand = errors.New("temp_min must not exceed temp_max")

type updater interface {
	Update(ctx context.Context) (CycleResult, error)
}

// OverrideService manages the manual override row. Every change is followed
// by an immediate update so the outputs follow the command.
type OverrideService struct {
	overrideRepo repository.OverrideRepo
	eventRepo    repository.EventRepo
	thermostat   updater
	clock        clock.Clock
	duration     time.Duration
}

func NewOverrideService(overrideRepo repository.OverrideRepo, eventRepo repository.EventRepo, thermostat updater, clk clock.Clock, duration time.Duration) *OverrideService {
	if clk == nil {
		clk = clock.System{}
	}
	if duration <= 0 {
		duration = defaultOverrideDuration
	}
	return &OverrideService{
		overrideRepo: overrideRepo,
		eventRepo:    eventRepo,
		thermostat:   thermostat,
		clock:        clk,
		duration:     duration,
	}
}

// SetState pins the outputs until the override expires.
func (s *OverrideService) SetState(ctx context.Context, flags models.Flags) (CycleResult, error) {
	now := s.clock.Now()
	o := models.Override{IsEnabled: true, EndsAt: s.endsAt(now), Flags: &flags}
	if err := s.save(ctx, o, now, "Direct override set", map[string]any{
		"flags":   flags,
		"ends_at": *o.EndsAt,
	}); err != nil {
		return CycleResult{}, err
	}
	return s.thermostat.Update(ctx)
}

// SetTemp replaces the scheduled band until the override expires.
func (s *OverrideService) SetTemp(ctx context.Context, p BandParams) (CycleResult, error) {
	if p.TempMin > p.TempMax {
		return CycleResult{}, invalid(errInvalidBand)
	}
	now := s.clock.Now()
	band := models.OverrideBand{TempMin: p.TempMin, TempMax: p.TempMax, TargetRoom: strings.TrimSpace(p.TargetRoom)}
	o := models.Override{IsEnabled: true, EndsAt: s.endsAt(now), Band: &band}
	if err := s.save(ctx, o, now, "Temperature override set", map[string]any{
		"temp_min":    band.TempMin,
		"temp_max":    band.TempMax,
		"target_room": band.TargetRoom,
		"ends_at":     *o.EndsAt,
	}); err != nil {
		return CycleResult{}, err
	}
	return s.thermostat.Update(ctx)
}

// Resume disables the override and hands control back to the schedule.
func (s *OverrideService) Resume(ctx context.Context) (CycleResult, error) {
	now := s.clock.Now()
	o, err := s.overrideRepo.Load(ctx)
	if err != nil {
		return CycleResult{}, fmt.Errorf("load override: %w", err)
	}
	o.IsEnabled = false
	if err := s.overrideRepo.Save(ctx, o); err != nil {
		return CycleResult{}, fmt.Errorf("save override: %w", err)
	}
	if err := s.appendEvent(ctx, now, models.EventOverrideCleared, "Override cleared, schedule resumed", nil); err != nil {
		return CycleResult{}, err
	}
	return s.thermostat.Update(ctx)
}

func (s *OverrideService) endsAt(now time.Time) *int64 {
	end := clock.MinuteStamp(now) + clock.Minutes(s.duration)
	return &end
}

func (s *OverrideService) save(ctx context.Context, o models.Override, now time.Time, desc string, meta map[string]any) error {
	if err := s.overrideRepo.Save(ctx, o); err != nil {
		return fmt.Errorf("save override: %w", err)
	}
	return s.appendEvent(ctx, now, models.EventOverrideSet, desc, meta)
}

func (s *OverrideService) appendEvent(ctx context.Context, now time.Time, typ, desc string, meta map[string]any) error {
	if s.eventRepo == nil {
		return nil
	}
	e := models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        typ,
		Description: desc,
	}
	if meta != nil {
		e.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, e); err != nil {
		return fmt.Errorf("append %s event: %w", typ, err)
	}
	return nil
}
