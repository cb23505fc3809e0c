package service

import (
	"context"
	"errors"
	"time"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/hardware"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/models"
	"home_thermostat/internal/mqtt"
	"home_thermostat/internal/repository"
	"home_thermostat/internal/sensor"
	"home_thermostat/internal/thermostat"
)

// ErrValidation marks errors caused by caller input.
var ErrValidation = errors.New("invalid input")

// Authorization manages admin accounts and the bearer tokens the API requires.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Thermostat exposes the two control-loop operations and their combination.
type Thermostat interface {
	// RefreshRooms polls every room sensor and stores the readings.
	RefreshRooms(ctx context.Context) (thermostat.RoomTemps, error)
	// Update resolves the target, decides and applies the desired state.
	Update(ctx context.Context) (CycleResult, error)
	// Cycle runs RefreshRooms then Update.
	Cycle(ctx context.Context) (CycleResult, error)
}

// Overrides sets and clears the manual override; each call runs Update.
type Overrides interface {
	SetState(ctx context.Context, flags models.Flags) (CycleResult, error)
	SetTemp(ctx context.Context, p BandParams) (CycleResult, error)
	Resume(ctx context.Context) (CycleResult, error)
}

// Monitoring exposes read-only state: the applied state and all rooms.
type Monitoring interface {
	GetState(ctx context.Context) (Status, error)
}

type Rooms interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, name, address string) (int, error)
	RenameRoom(ctx context.Context, address, name string) error
	DeleteRoom(ctx context.Context, address string) error
}

type Modes interface {
	ListModes(ctx context.Context) ([]models.Mode, error)
	CreateMode(ctx context.Context, m models.Mode) error
	UpdateMode(ctx context.Context, m models.Mode) error
	DeleteMode(ctx context.Context, name string) error
}

type Schedule interface {
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
	AddScheduleEntry(ctx context.Context, e models.ScheduleEntry) (int, error)
	DeleteScheduleEntry(ctx context.Context, id int) error
}

type Pins interface {
	ListPins(ctx context.Context) ([]models.PinMapping, error)
	SetPin(ctx context.Context, p models.PinMapping) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ThermostatEvent, error)
}

// Scheduler runs the control cycle on a fixed tick until ctx is canceled.
type Scheduler interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Thermostat
	Overrides
	Monitoring
	Rooms
	Modes
	Schedule
	Pins
	EventLog
	Scheduler
	Authorization
}

// Options are the tunables read from configuration.
type Options struct {
	// ApplyWithoutTarget applies the all-off Idle state when nothing governs;
	// when false such a cycle leaves the state untouched.
	ApplyWithoutTarget bool
	OverrideDuration   time.Duration
	PollParallelism    int
	SigningKey         string
	TokenTTL           time.Duration
}

// Deps are the collaborators outside the repository layer.
type Deps struct {
	Sensor    sensor.Reader
	Sink      hardware.Sink
	Publisher mqtt.Publisher
	Clock     clock.Clock
	Log       *logger.Logger
	Options   Options
}

func (d Deps) withDefaults() Deps {
	if d.Sink == nil {
		d.Sink = hardware.NullSink{}
	}
	if d.Publisher == nil {
		d.Publisher = mqtt.NullPublisher{}
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Options.OverrideDuration <= 0 {
		d.Options.OverrideDuration = defaultOverrideDuration
	}
	d.Log = logger.OrNop(d.Log)
	return d
}

// NewService wires the repository layer and device collaborators into services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	deps = deps.withDefaults()

	aggregator := NewRoomAggregatorService(repos.RoomRepo, repos.EventRepo, deps.Sensor, deps.Clock, deps.Log, deps.Options.PollParallelism)
	resolver := NewTargetResolverService(repos.OverrideRepo, repos.ScheduleRepo, repos.ModeRepo, deps.Log)
	applier := NewStateApplierService(repos.StateRepo, repos.PinRepo, deps.Sink, deps.Log)
	thermo := NewThermostatService(ThermostatDeps{
		Rooms:     repos.RoomRepo,
		States:    repos.StateRepo,
		Events:    repos.EventRepo,
		Refresher: aggregator,
		Resolver:  resolver,
		Applier:   applier,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		Log:       deps.Log,
		Options:   deps.Options,
	})
	admin := NewAdminService(repos.RoomRepo, repos.ModeRepo, repos.ScheduleRepo, repos.PinRepo)

	return &Service{
		Thermostat:    thermo,
		Overrides:     NewOverrideService(repos.OverrideRepo, repos.EventRepo, thermo, deps.Clock, deps.Options.OverrideDuration),
		Monitoring:    NewMonitoringService(repos.StateRepo, repos.RoomRepo),
		Rooms:         admin,
		Modes:         admin,
		Schedule:      admin,
		Pins:          admin,
		EventLog:      NewEventLogService(repos.EventRepo),
		Scheduler:     NewSchedulerService(thermo, deps.Log),
		Authorization: NewAuthService(repos.AdminRepo, deps.Clock, deps.Options.SigningKey, deps.Options.TokenTTL),
	}
}
