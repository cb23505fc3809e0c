package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"
)

// ---- Test doubles for the repository interfaces ----

type memRoomRepo struct {
	rooms     []models.Room
	listErr   error
	updateErr error
	updates   []models.Room
}

func (r *memRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.Room(nil), r.rooms...), nil
}

func (r *memRoomRepo) Get(ctx context.Context, name string) (*models.Room, error) {
	for _, room := range r.rooms {
		if room.Name == name {
			return &room, nil
		}
	}
	return nil, nil
}

func (r *memRoomRepo) Create(ctx context.Context, name, address string) (int, error) {
	id := len(r.rooms) + 1
	r.rooms = append(r.rooms, models.Room{ID: id, Name: name, Address: address})
	return id, nil
}

func (r *memRoomRepo) Rename(ctx context.Context, address, name string) error {
	for i := range r.rooms {
		if r.rooms[i].Address == address {
			r.rooms[i].Name = name
			return nil
		}
	}
	return repository.ErrRoomNotFound
}

func (r *memRoomRepo) DeleteByAddress(ctx context.Context, address string) error {
	for i := range r.rooms {
		if r.rooms[i].Address == address {
			r.rooms = append(r.rooms[:i], r.rooms[i+1:]...)
			return nil
		}
	}
	return repository.ErrRoomNotFound
}

func (r *memRoomRepo) UpdateReading(ctx context.Context, room models.Room) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, room)
	for i := range r.rooms {
		if r.rooms[i].Name == room.Name {
			r.rooms[i] = room
		}
	}
	return nil
}

type memStateRepo struct {
	state   models.ThermostatState
	loadErr error
	saveErr error
	saves   []models.ThermostatState
}

func (r *memStateRepo) Load(ctx context.Context) (models.ThermostatState, error) {
	return r.state, r.loadErr
}

func (r *memStateRepo) Save(ctx context.Context, s models.ThermostatState) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves = append(r.saves, s)
	r.state = s
	return nil
}

type memPinRepo struct {
	pins    []models.PinMapping
	listErr error
	upserts []models.PinMapping
}

func (r *memPinRepo) List(ctx context.Context) ([]models.PinMapping, error) {
	return r.pins, r.listErr
}

func (r *memPinRepo) Upsert(ctx context.Context, p models.PinMapping) error {
	r.upserts = append(r.upserts, p)
	return nil
}

type memOverrideRepo struct {
	o       models.Override
	loadErr error
	saveErr error
	saves   []models.Override
}

func (r *memOverrideRepo) Load(ctx context.Context) (models.Override, error) {
	return r.o, r.loadErr
}

func (r *memOverrideRepo) Save(ctx context.Context, o models.Override) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves = append(r.saves, o)
	r.o = o
	return nil
}

type memScheduleRepo struct {
	entries []models.ScheduleEntry
	listErr error
	added   []models.ScheduleEntry
	deleted []int
}

func (r *memScheduleRepo) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	return r.entries, r.listErr
}

func (r *memScheduleRepo) Add(ctx context.Context, e models.ScheduleEntry) (int, error) {
	r.added = append(r.added, e)
	return len(r.added), nil
}

func (r *memScheduleRepo) Delete(ctx context.Context, id int) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type memModeRepo struct {
	modes   map[string]models.Mode
	getErr  error
	created []models.Mode
	updated []models.Mode
}

func (r *memModeRepo) List(ctx context.Context) ([]models.Mode, error) {
	var out []models.Mode
	for _, m := range r.modes {
		out = append(out, m)
	}
	return out, nil
}

func (r *memModeRepo) Get(ctx context.Context, name string) (*models.Mode, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	m, ok := r.modes[name]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memModeRepo) Create(ctx context.Context, m models.Mode) error {
	r.created = append(r.created, m)
	return nil
}

func (r *memModeRepo) Update(ctx context.Context, m models.Mode) error {
	r.updated = append(r.updated, m)
	return nil
}

func (r *memModeRepo) Delete(ctx context.Context, name string) error {
	if _, ok := r.modes[name]; !ok {
		return repository.ErrModeNotFound
	}
	delete(r.modes, name)
	return nil
}

type memEventRepo struct {
	events    []models.ThermostatEvent
	appendErr error
}

func (r *memEventRepo) Append(ctx context.Context, e models.ThermostatEvent) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.ThermostatEvent, error) {
	return r.events, nil
}

func (r *memEventRepo) ofType(typ string) []models.ThermostatEvent {
	var out []models.ThermostatEvent
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// fakeReader answers from a table keyed by address; unknown addresses fail.
type fakeReader struct {
	mu    sync.Mutex
	temps map[string]float64
	calls []string
}

var errSensorDown = errors.New("sensor unreachable")

func (f *fakeReader) ReadTemp(ctx context.Context, address string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, address)
	temp, ok := f.temps[address]
	if !ok {
		return 0, errSensorDown
	}
	return temp, nil
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64 { return &v }
