package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"home_thermostat/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var eventColumns = []string{"id", "occurred_at", "type", "message", "meta"}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMockEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewEventSQLite(db), mock
}

// uuidArg matches a generated event ID.
type uuidArg struct{}

func (uuidArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && len(s) == 36 && strings.Count(s, "-") == 4
}

func TestEventSQLite_Append_FillsDefaults(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(uuidArg{}, sqlmock.AnyArg(), models.EventRoomStale, "Bedroom reading expired", `{"room":"Bedroom"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.ThermostatEvent{
		Type:        " room_stale ",
		Description: "Bedroom reading expired",
		Metadata:    map[string]string{"room": "Bedroom"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_KeepsGivenIDAndTime(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	at := time.Date(2025, 1, 1, 12, 30, 15, 0, time.FixedZone("UTC+2", 2*3600))
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", "2025-01-01 10:30:15", models.EventStateChange, "Heat on", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.ThermostatEvent{
		EventID:     "ev-1",
		OccurredAt:  at,
		Type:        models.EventStateChange,
		Description: "Heat on",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_Errors(t *testing.T) {
	t.Run("unencodable metadata", func(t *testing.T) {
		repo, _ := newMockEventRepo(t)
		err := repo.Append(ctx(t), models.ThermostatEvent{Type: models.EventOverrideSet, Metadata: func() {}})
		if err == nil || !strings.Contains(err.Error(), "encode") {
			t.Fatalf("expected encode error, got %v", err)
		}
	})

	t.Run("exec failure", func(t *testing.T) {
		repo, mock := newMockEventRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).WillReturnError(errors.New("disk full"))
		err := repo.Append(ctx(t), models.ThermostatEvent{Type: models.EventOverrideSet, Description: "x"})
		if err == nil || !strings.Contains(err.Error(), "insert OVERRIDE_SET event") {
			t.Fatalf("expected wrapped insert error, got %v", err)
		}
	})
}

func TestEventSQLite_List_NoFiltersDecodesMetadata(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + " ORDER BY occurred_at ASC")).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("1", t1, models.EventOverrideSet, "override", `{"kind":"temperature"}`).
			AddRow("2", t1.Add(time.Minute), models.EventStateChange, "heat", "not-json").
			AddRow("3", t1.Add(2*time.Minute), models.EventOverrideCleared, "resume", nil))

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 events, got %d", len(got))
	}
	if m, ok := got[0].Metadata.(map[string]any); !ok || m["kind"] != "temperature" {
		t.Errorf("metadata not decoded: %#v", got[0].Metadata)
	}
	if got[1].Metadata != "not-json" {
		t.Errorf("malformed metadata should stay raw, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != nil {
		t.Errorf("NULL metadata should stay nil, got %#v", got[2].Metadata)
	}
}

func TestEventSQLite_List_Filters(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL+" WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC")).
		WithArgs("2025-01-01 11:00:00", "2025-01-01 12:00:00", models.EventStateChange).
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("2", from, models.EventStateChange, "b", nil))

	got, err := repo.List(ctx(t), from, to, " state_change ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestEventSQLite_List_EmptyIsNotNil(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).WillReturnRows(sqlmock.NewRows(eventColumns))

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v, %v", got, err)
	}
}

func TestEventSQLite_List_ScanError(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("x", 123, "INFO", "msg", nil))

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, ""); err == nil || !strings.Contains(err.Error(), "scan event") {
		t.Fatalf("expected scan error, got %v", err)
	}
}
