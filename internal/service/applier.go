package service

import (
	"context"
	"fmt"

	"home_thermostat/internal/hardware"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"
)

// StateApplierService persists a desired state and drives the relay outputs.
// It is the only writer of the current state row.
type StateApplierService struct {
	stateRepo repository.StateRepo
	pinRepo   repository.PinRepo
	sink      hardware.Sink
	log       *logger.Logger
}

func NewStateApplierService(stateRepo repository.StateRepo, pinRepo repository.PinRepo, sink hardware.Sink, log *logger.Logger) *StateApplierService {
	if sink == nil {
		sink = hardware.NullSink{}
	}
	return &StateApplierService{
		stateRepo: stateRepo,
		pinRepo:   pinRepo,
		sink:      sink,
		log:       logger.OrNop(log),
	}
}

// Apply saves desired and writes every mapped channel. Storage errors are
// returned; hardware errors are only logged.
func (s *StateApplierService) Apply(ctx context.Context, desired models.ThermostatState) error {
	desired.ID = 1
	if err := s.stateRepo.Save(ctx, desired); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	pins, err := s.pinRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list pins: %w", err)
	}
	for _, pin := range pins {
		active, ok := desired.Flag(pin.Name)
		if !ok {
			s.log.Warnw("pin_flag_missing", "pin", pin.Name, "channel", pin.Channel)
			continue
		}
		if err := s.sink.SetChannel(pin.Channel, active); err != nil {
			s.log.Errorw("pin_write_failed", "pin", pin.Name, "channel", pin.Channel, "active", active, "err", err)
		}
	}
	return nil
}
