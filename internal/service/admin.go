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
	errEmptyName       = errors.New("name is required")
	errEmptyAddress    = errors.New("address is required")
	errStartTime       = fmt.Errorf("start_time must be within 0..%d", models.MinutesPerDay-1)
	errUnknownPinName  = errors.New("pin name must be one of ac, heat, fanLow, fanHigh")
	errNegativeChannel = errors.New("channel must not be negative")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// AdminService edits the configuration tables: rooms, modes, schedule and pins.
type AdminService struct {
	roomRepo     repository.RoomRepo
	modeRepo     repository.ModeRepo
	scheduleRepo repository.ScheduleRepo
	pinRepo      repository.PinRepo
}

func NewAdminService(roomRepo repository.RoomRepo, modeRepo repository.ModeRepo, scheduleRepo repository.ScheduleRepo, pinRepo repository.PinRepo) *AdminService {
	return &AdminService{
		roomRepo:     roomRepo,
		modeRepo:     modeRepo,
		scheduleRepo: scheduleRepo,
		pinRepo:      pinRepo,
	}
}

// -------- Rooms --------

func (s *AdminService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.roomRepo.List(ctx)
}

func (s *AdminService) CreateRoom(ctx context.Context, name, address string) (int, error) {
	name, address = strings.TrimSpace(name), strings.TrimSpace(address)
	if name == "" {
		return 0, invalid(errEmptyName)
	}
	if address == "" {
		return 0, invalid(errEmptyAddress)
	}
	return s.roomRepo.Create(ctx, name, address)
}

// RenameRoom renames the room polled at address.
func (s *AdminService) RenameRoom(ctx context.Context, address, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(errEmptyName)
	}
	return s.roomRepo.Rename(ctx, strings.TrimSpace(address), name)
}

func (s *AdminService) DeleteRoom(ctx context.Context, address string) error {
	return s.roomRepo.DeleteByAddress(ctx, strings.TrimSpace(address))
}

// -------- Modes --------

func (s *AdminService) ListModes(ctx context.Context) ([]models.Mode, error) {
	return s.modeRepo.List(ctx)
}

func (s *AdminService) CreateMode(ctx context.Context, m models.Mode) error {
	m, err := validateMode(m)
	if err != nil {
		return err
	}
	return s.modeRepo.Create(ctx, m)
}

func (s *AdminService) UpdateMode(ctx context.Context, m models.Mode) error {
	m, err := validateMode(m)
	if err != nil {
		return err
	}
	return s.modeRepo.Update(ctx, m)
}

func (s *AdminService) DeleteMode(ctx context.Context, name string) error {
	return s.modeRepo.Delete(ctx, strings.TrimSpace(name))
}

func validateMode(m models.Mode) (models.Mode, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.TargetRoom = strings.TrimSpace(m.TargetRoom)
	if m.Name == "" {
		return m, invalid(errEmptyName)
	}
	if m.TempMin > m.TempMax {
		return m, invalid(errInvalidBand)
	}
	return m, nil
}

// -------- Schedule --------

func (s *AdminService) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	return s.scheduleRepo.List(ctx)
}

// AddScheduleEntry requires the referenced mode to exist.
func (s *AdminService) AddScheduleEntry(ctx context.Context, e models.ScheduleEntry) (int, error) {
	e.Mode = strings.TrimSpace(e.Mode)
	if e.StartTime < 0 || e.StartTime >= models.MinutesPerDay {
		return 0, invalid(errStartTime)
	}
	if e.Mode == "" {
		return 0, invalid(errEmptyName)
	}
	m, err := s.modeRepo.Get(ctx, e.Mode)
	if err != nil {
		return 0, err
	}
	if m == nil {
		return 0, fmt.Errorf("%w: %q", repository.ErrModeNotFound, e.Mode)
	}
	return s.scheduleRepo.Add(ctx, e)
}

func (s *AdminService) DeleteScheduleEntry(ctx context.Context, id int) error {
	return s.scheduleRepo.Delete(ctx, id)
}

// -------- Pins --------

func (s *AdminService) ListPins(ctx context.Context) ([]models.PinMapping, error) {
	return s.pinRepo.List(ctx)
}

// SetPin binds a known output flag to a channel.
func (s *AdminService) SetPin(ctx context.Context, p models.PinMapping) error {
	if _, ok := (models.ThermostatState{}).Flag(p.Name); !ok {
		return invalid(errUnknownPinName)
	}
	if p.Channel < 0 {
		return invalid(errNegativeChannel)
	}
	return s.pinRepo.Upsert(ctx, p)
}
