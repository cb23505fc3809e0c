package service

import (
	"context"
	"fmt"
	"time"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/repository"
	"home_thermostat/internal/thermostat"
)

// TargetResolverService picks the directive governing a cycle: an active
// override first, then the schedule entry in effect.
type TargetResolverService struct {
	overrideRepo repository.OverrideRepo
	scheduleRepo repository.ScheduleRepo
	modeRepo     repository.ModeRepo
	log          *logger.Logger
}

func NewTargetResolverService(overrideRepo repository.OverrideRepo, scheduleRepo repository.ScheduleRepo, modeRepo repository.ModeRepo, log *logger.Logger) *TargetResolverService {
	return &TargetResolverService{
		overrideRepo: overrideRepo,
		scheduleRepo: scheduleRepo,
		modeRepo:     modeRepo,
		log:          logger.OrNop(log),
	}
}

// ResolveTarget returns nil when neither an override nor the schedule governs.
// now must already be in the schedule's time zone.
func (s *TargetResolverService) ResolveTarget(ctx context.Context, now time.Time) (thermostat.Target, error) {
	o, err := s.overrideRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load override: %w", err)
	}
	if o.ActiveAt(clock.MinuteStamp(now)) {
		if t, ok := thermostat.FromOverride(o); ok {
			return t, nil
		}
		s.log.Warnw("override_incomplete", "ends_at", o.EndsAt)
	}

	entries, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	minute := clock.MinutesFromMidnight(now)
	entry, ok := thermostat.SelectEntry(entries, minute)
	if !ok {
		return nil, nil
	}

	mode, err := s.modeRepo.Get(ctx, entry.Mode)
	if err != nil {
		return nil, fmt.Errorf("get mode %q: %w", entry.Mode, err)
	}
	if mode == nil {
		s.log.Warnw("schedule_mode_missing", "mode", entry.Mode, "start_time", entry.StartTime)
		return nil, nil
	}
	return thermostat.FromMode(*mode), nil
}
