package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"home_thermostat/internal/models"
)

type OverrideSQLite struct {
	db *sql.DB
}

func NewOverrideSQLite(db *sql.DB) *OverrideSQLite {
	return &OverrideSQLite{db: db}
}

var _ OverrideRepo = (*OverrideSQLite)(nil)

const (
	overrideRowID = 1

	upsertOverrideSQL = `
		INSERT INTO overrides (id, is_enabled, ends_at, ac, heat, fan_low, fan_high, temp_min, temp_max, target_room)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_enabled=excluded.is_enabled,
			ends_at=excluded.ends_at,
			ac=excluded.ac,
			heat=excluded.heat,
			fan_low=excluded.fan_low,
			fan_high=excluded.fan_high,
			temp_min=excluded.temp_min,
			temp_max=excluded.temp_max,
			target_room=excluded.target_room
	`

	selectOverrideSQL = `
		SELECT is_enabled, ends_at, ac, heat, fan_low, fan_high, temp_min, temp_max, target_room
		FROM overrides WHERE id=?
	`
)

// Save upserts the override row; Flags and Band map onto the nullable columns.
func (r *OverrideSQLite) Save(ctx context.Context, o models.Override) error {
	var ac, heat, fanLow, fanHigh, tempMin, tempMax, targetRoom any
	if o.Flags != nil {
		ac, heat, fanLow, fanHigh = o.Flags.AC, o.Flags.Heat, o.Flags.FanLow, o.Flags.FanHigh
	}
	if o.Band != nil {
		tempMin, tempMax, targetRoom = o.Band.TempMin, o.Band.TempMax, optionalStringArg(o.Band.TargetRoom)
	}

	_, err := r.db.ExecContext(ctx, upsertOverrideSQL,
		overrideRowID,
		o.IsEnabled,
		intArg(o.EndsAt),
		ac, heat, fanLow, fanHigh,
		tempMin, tempMax, targetRoom,
	)
	if err != nil {
		return fmt.Errorf("save override: %w", err)
	}
	return nil
}

// Load fetches the override row. A missing row reads as a disabled override.
// Rows with temperature bounds load as a Band; otherwise as Flags, with
// missing flags read as off.
func (r *OverrideSQLite) Load(ctx context.Context) (models.Override, error) {
	var (
		o                         models.Override
		endsAt                    sql.NullInt64
		ac, heat, fanLow, fanHigh sql.NullBool
		tempMin, tempMax          sql.NullFloat64
		targetRoom                sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectOverrideSQL, overrideRowID).Scan(
		&o.IsEnabled, &endsAt, &ac, &heat, &fanLow, &fanHigh, &tempMin, &tempMax, &targetRoom,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Override{}, nil
		}
		return models.Override{}, fmt.Errorf("load override: %w", err)
	}

	o.EndsAt = intPtr(endsAt)
	if tempMin.Valid && tempMax.Valid {
		o.Band = &models.OverrideBand{
			TempMin:    tempMin.Float64,
			TempMax:    tempMax.Float64,
			TargetRoom: targetRoom.String,
		}
		return o, nil
	}
	o.Flags = &models.Flags{
		AC:      ac.Bool,
		Heat:    heat.Bool,
		FanLow:  fanLow.Bool,
		FanHigh: fanHigh.Bool,
	}
	return o, nil
}
