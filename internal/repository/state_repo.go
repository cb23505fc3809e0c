package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"home_thermostat/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	currentStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO current_state (id, name, ac, heat, fan_low, fan_high, temp_min, temp_max, target_room, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			ac=excluded.ac,
			heat=excluded.heat,
			fan_low=excluded.fan_low,
			fan_high=excluded.fan_high,
			temp_min=excluded.temp_min,
			temp_max=excluded.temp_max,
			target_room=excluded.target_room,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, name, ac, heat, fan_low, fan_high, temp_min, temp_max, target_room, updated_at
		FROM current_state WHERE id=?
	`
)

// Save updates or inserts the current_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.ThermostatState) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		currentStateRowID,
		state.Name,
		state.AC,
		state.Heat,
		state.FanLow,
		state.FanHigh,
		floatArg(state.TempMin),
		floatArg(state.TempMax),
		stringArg(state.TargetRoom),
		tsUTC,
	)
	return err
}

// Load fetches the single current_state row (id=1).
func (r *StateSQLite) Load(ctx context.Context) (models.ThermostatState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, currentStateRowID)

	var (
		s                models.ThermostatState
		tempMin, tempMax sql.NullFloat64
		targetRoom       sql.NullString
	)
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.AC,
		&s.Heat,
		&s.FanLow,
		&s.FanHigh,
		&tempMin,
		&tempMax,
		&targetRoom,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ThermostatState{}, nil // no state yet
		}
		return models.ThermostatState{}, err
	}

	s.TempMin = floatPtr(tempMin)
	s.TempMax = floatPtr(tempMax)
	s.TargetRoom = stringPtr(targetRoom)
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
