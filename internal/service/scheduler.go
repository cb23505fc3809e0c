package service

import (
	"context"
	"time"

	"home_thermostat/internal/logger"
)

type cycler interface {
	Cycle(ctx context.Context) (CycleResult, error)
}

// SchedulerService runs the control cycle on a ticker.
type SchedulerService struct {
	thermostat cycler
	log        *logger.Logger
}

func NewSchedulerService(thermostat cycler, log *logger.Logger) *SchedulerService {
	return &SchedulerService{thermostat: thermostat, log: logger.OrNop(log)}
}

// Run ticks at the given interval until ctx is canceled. A failed cycle is
// logged and the next tick retries.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
			res, err := s.thermostat.Cycle(ctx)
			if err != nil {
				s.log.Errorw("cycle_failed", "err", err)
				continue
			}
			s.log.Debugw("cycle_done", "name", res.State.Name, "reason", res.Reason, "changed", res.Changed)
		}
	}
}
