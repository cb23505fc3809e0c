package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

var stateColumns = []string{"id", "name", "ac", "heat", "fan_low", "fan_high", "temp_min", "temp_max", "target_room", "updated_at"}

func f64(v float64) *float64 { return &v }
func str(v string) *string { return &v }

func TestStateSQLite_Save_SetsUTCNow_WhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	state := models.ThermostatState{
		Name:       "day",
		Flags:      models.Flags{AC: true, FanLow: true},
		TempMin:    f64(18),
		TempMax:    f64(24),
		TargetRoom: str("Living"),
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO current_state")).
		WithArgs(1, "day", true, false, true, false, 18.0, 24.0, "Living", isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_NullableFieldsWrittenAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	locTokyo := time.FixedZone("JST", 9*60*60)
	original := time.Date(2024, 10, 5, 12, 34, 0, 0, locTokyo)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO current_state")).
		WithArgs(1, models.IdleName, false, false, true, false, nil, nil, nil, original.UTC()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Save(context.Background(), models.ThermostatState{
		Name:      models.IdleName,
		Flags:     models.Flags{FanLow: true},
		UpdatedAt: original,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO current_state")).
		WillReturnError(errors.New("database is locked"))

	if err := repo.Save(context.Background(), models.ThermostatState{Name: "x"}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestStateSQLite_Load_NoRowsReturnsZeroValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, ac, heat")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, models.ThermostatState{}) {
		t.Fatalf("Load() expected zero state, got: %+v", got)
	}
}

func TestStateSQLite_Load_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	rows := sqlmock.NewRows(stateColumns).
		AddRow(1, "night", false, true, false, false, 19.5, 23.0, "Bedroom", nonUTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, ac, heat")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.ID != 1 || got.Name != "night" || !got.Heat || got.AC || got.FanLow || got.FanHigh {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	if got.TempMin == nil || *got.TempMin != 19.5 || got.TempMax == nil || *got.TempMax != 23 {
		t.Fatalf("Load() band mismatch: %v %v", got.TempMin, got.TempMax)
	}
	if got.TargetRoom == nil || *got.TargetRoom != "Bedroom" {
		t.Fatalf("Load() target room mismatch: %v", got.TargetRoom)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("Load() UpdatedAt not UTC: %v", got.UpdatedAt.Location())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_NullBandStaysNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	rows := sqlmock.NewRows(stateColumns).
		AddRow(1, models.OverrideName, true, false, false, true, nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, ac, heat")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.TempMin != nil || got.TempMax != nil || got.TargetRoom != nil {
		t.Fatalf("expected nil optional fields, got %+v", got)
	}
}

// Helpers

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
