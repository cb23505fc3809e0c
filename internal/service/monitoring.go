package service

import (
	"context"
	"fmt"
	"time"

	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"
)

// Status is the applied state together with every room.
type Status struct {
	State models.ThermostatState `json:"state"`
	Rooms []models.Room          `json:"rooms"`
}

type MonitoringService struct {
	stateRepo repository.StateRepo
	roomRepo  repository.RoomRepo
}

func NewMonitoringService(stateRepo repository.StateRepo, roomRepo repository.RoomRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, roomRepo: roomRepo}
}

// GetState returns the latest persisted state and the rooms.
// If no state is persisted yet, the state is a baseline Idle snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (Status, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("load state: %w", err)
	}
	if state.ID == 0 {
		state = baselineState()
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return Status{State: state, Rooms: rooms}, nil
}

// baselineState is what an uninitialized DB reports: everything off.
func baselineState() models.ThermostatState {
	return models.ThermostatState{
		ID:        1, // DB schema enforces single-row state with id=1
		Name:      models.IdleName,
		UpdatedAt: time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
