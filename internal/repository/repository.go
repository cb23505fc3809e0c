package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"home_thermostat/internal/models"
)

// ErrDuplicate is returned by Create when the unique name or username already exists.
var ErrDuplicate = errors.New("already exists")

// sqlite reports constraint failures only through the message text.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// AdminRepo stores API accounts.
type AdminRepo interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// RoomRepo stores rooms and their latest readings.
type RoomRepo interface {
	List(ctx context.Context) ([]models.Room, error)
	Get(ctx context.Context, name string) (*models.Room, error)
	Create(ctx context.Context, name, address string) (int, error)
	Rename(ctx context.Context, address, name string) error
	DeleteByAddress(ctx context.Context, address string) error
	UpdateReading(ctx context.Context, room models.Room) error
}

type ModeRepo interface {
	List(ctx context.Context) ([]models.Mode, error)
	Get(ctx context.Context, name string) (*models.Mode, error)
	Create(ctx context.Context, m models.Mode) error
	Update(ctx context.Context, m models.Mode) error
	Delete(ctx context.Context, name string) error
}

// ScheduleRepo lists entries ordered by start time ascending.
type ScheduleRepo interface {
	List(ctx context.Context) ([]models.ScheduleEntry, error)
	Add(ctx context.Context, e models.ScheduleEntry) (int, error)
	Delete(ctx context.Context, id int) error
}

type OverrideRepo interface {
	Load(ctx context.Context) (models.Override, error)
	Save(ctx context.Context, o models.Override) error
}

type StateRepo interface {
	Save(ctx context.Context, s models.ThermostatState) error
	Load(ctx context.Context) (models.ThermostatState, error)
}

type PinRepo interface {
	List(ctx context.Context) ([]models.PinMapping, error)
	Upsert(ctx context.Context, p models.PinMapping) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.ThermostatEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ThermostatEvent, error)
}

type Repository struct {
	RoomRepo     RoomRepo
	ModeRepo     ModeRepo
	ScheduleRepo ScheduleRepo
	OverrideRepo OverrideRepo
	StateRepo    StateRepo
	PinRepo      PinRepo
	EventRepo    EventRepo
	AdminRepo    AdminRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RoomRepo:     NewRoomSQLite(db),
		ModeRepo:     NewModeSQLite(db),
		ScheduleRepo: NewScheduleSQLite(db),
		OverrideRepo: NewOverrideSQLite(db),
		StateRepo:    NewStateSQLite(db),
		PinRepo:      NewPinSQLite(db),
		EventRepo:    NewEventSQLite(db),
		AdminRepo:    NewAdminSQLite(db),
	}
}
