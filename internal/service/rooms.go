package service

import (
	"context"
	"fmt"
	"time"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"
	"home_thermostat/internal/sensor"
	"home_thermostat/internal/thermostat"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultPollParallelism = 4

// RoomAggregatorService polls the room sensors and keeps the stored readings
// current, clearing readings that went stale.
type RoomAggregatorService struct {
	roomRepo    repository.RoomRepo
	eventRepo   repository.EventRepo
	sensor      sensor.Reader
	clock       clock.Clock
	log         *logger.Logger
	parallelism int
}

func NewRoomAggregatorService(roomRepo repository.RoomRepo, eventRepo repository.EventRepo, reader sensor.Reader, clk clock.Clock, log *logger.Logger, parallelism int) *RoomAggregatorService {
	if parallelism <= 0 {
		parallelism = defaultPollParallelism
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &RoomAggregatorService{
		roomRepo:    roomRepo,
		eventRepo:   eventRepo,
		sensor:      reader,
		clock:       clk,
		log:         logger.OrNop(log),
		parallelism: parallelism,
	}
}

// PollRoom reads one sensor. Any failure is logged and yields nil.
func (s *RoomAggregatorService) PollRoom(ctx context.Context, room models.Room) *float64 {
	if s.sensor == nil {
		return nil
	}
	temp, err := s.sensor.ReadTemp(ctx, room.Address)
	if err != nil {
		s.log.Warnw("room_poll_failed", "room", room.Name, "address", room.Address, "err", err)
		return nil
	}
	return &temp
}

// RefreshRooms polls every stored room and returns the resulting mapping.
func (s *RoomAggregatorService) RefreshRooms(ctx context.Context) (thermostat.RoomTemps, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return s.UpdateRooms(ctx, rooms, s.clock.Now())
}

// UpdateRooms polls rooms concurrently, then folds the readings into the
// store one room at a time.
func (s *RoomAggregatorService) UpdateRooms(ctx context.Context, rooms []models.Room, now time.Time) (thermostat.RoomTemps, error) {
	readings := make([]*float64, len(rooms))

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, room := range rooms {
		i, room := i, room
		g.Go(func() error {
			readings[i] = s.PollRoom(ctx, room)
			return nil
		})
	}
	_ = g.Wait()

	stamp := clock.MinuteStamp(now)
	temps := make(thermostat.RoomTemps, 0, len(rooms))
	for i, room := range rooms {
		updated, outcome := thermostat.ApplyReading(room, readings[i], stamp)
		if outcome != thermostat.ReadingKept {
			if err := s.roomRepo.UpdateReading(ctx, updated); err != nil {
				return nil, fmt.Errorf("update room %q: %w", room.Name, err)
			}
		}
		if outcome == thermostat.ReadingExpired {
			s.log.Infow("room_stale_cleared", "room", room.Name, "last_temp", derefFloat(updated.LastTemp))
			s.recordStale(ctx, updated, now)
		}
		temps = append(temps, thermostat.RoomTemp{Name: updated.Name, Temp: updated.CurrentTemp})
	}
	return temps, nil
}

func (s *RoomAggregatorService) recordStale(ctx context.Context, room models.Room, now time.Time) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        models.EventRoomStale,
		Description: "Reading expired for room " + room.Name,
		Metadata: map[string]any{
			"room":      room.Name,
			"address":   room.Address,
			"last_temp": room.LastTemp,
		},
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", models.EventRoomStale, "err", err)
	}
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
