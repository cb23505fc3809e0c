package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"
)

var (
	errInvalidTimeRange = errors.New("'from' must not be after 'to'")
	errUnknownEventType = errors.New("unknown event type")
)

var eventTypes = map[string]bool{
	models.EventStateChange:     true,
	models.EventRoomStale:       true,
	models.EventOverrideSet:     true,
	models.EventOverrideCleared: true,
}

// EventLogService reads the thermostat event log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// normalize converts bounds to UTC and upper-cases the type. Zero bounds stay zero.
func (f LogFilter) normalize() (LogFilter, error) {
	if !f.From.IsZero() {
		f.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		f.To = f.To.UTC()
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return LogFilter{}, invalid(errInvalidTimeRange)
	}
	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	if f.Type != "" && !eventTypes[f.Type] {
		return LogFilter{}, invalid(fmt.Errorf("%w %q", errUnknownEventType, f.Type))
	}
	return f, nil
}

// List returns the events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ThermostatEvent, error) {
	f, err := f.normalize()
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, f.From, f.To, f.Type)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
