package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"home_thermostat/internal/models"
)

var ErrModeNotFound = errors.New("mode not found")

type ModeSQLite struct {
	db *sql.DB
}

func NewModeSQLite(db *sql.DB) *ModeSQLite {
	return &ModeSQLite{db: db}
}

var _ ModeRepo = (*ModeSQLite)(nil)

const (
	modeColumns = `name, target_room, temp_min, temp_max, default_fan`

	selectModesSQL      = `SELECT ` + modeColumns + ` FROM modes ORDER BY name ASC`
	selectModeByNameSQL = `SELECT ` + modeColumns + ` FROM modes WHERE name = ?`
	insertModeSQL       = `INSERT INTO modes (name, target_room, temp_min, temp_max, default_fan) VALUES (?, ?, ?, ?, ?)`
	updateModeSQL       = `UPDATE modes SET target_room = ?, temp_min = ?, temp_max = ?, default_fan = ? WHERE name = ?`
	deleteModeSQL       = `DELETE FROM modes WHERE name = ?`
)

// scanMode reads a mode row. A NULL default_fan means the fan runs by default.
func scanMode(s rowScanner) (models.Mode, error) {
	var (
		m          models.Mode
		targetRoom sql.NullString
		defaultFan sql.NullBool
	)
	if err := s.Scan(&m.Name, &targetRoom, &m.TempMin, &m.TempMax, &defaultFan); err != nil {
		return models.Mode{}, err
	}
	m.TargetRoom = targetRoom.String
	m.DefaultFan = !defaultFan.Valid || defaultFan.Bool
	return m, nil
}

func (r *ModeSQLite) List(ctx context.Context) ([]models.Mode, error) {
	rows, err := r.db.QueryContext(ctx, selectModesSQL)
	if err != nil {
		return nil, fmt.Errorf("select modes: %w", err)
	}
	defer rows.Close()

	var out []models.Mode
	for rows.Next() {
		m, err := scanMode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mode: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get fetches a mode by name. Returns (nil, nil) if not found.
func (r *ModeSQLite) Get(ctx context.Context, name string) (*models.Mode, error) {
	m, err := scanMode(r.db.QueryRowContext(ctx, selectModeByNameSQL, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select mode %q: %w", name, err)
	}
	return &m, nil
}

func (r *ModeSQLite) Create(ctx context.Context, m models.Mode) error {
	_, err := r.db.ExecContext(ctx, insertModeSQL,
		m.Name, optionalStringArg(m.TargetRoom), m.TempMin, m.TempMax, m.DefaultFan)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("mode %q: %w", m.Name, ErrDuplicate)
		}
		return fmt.Errorf("insert mode %q: %w", m.Name, err)
	}
	return nil
}

func (r *ModeSQLite) Update(ctx context.Context, m models.Mode) error {
	res, err := r.db.ExecContext(ctx, updateModeSQL,
		optionalStringArg(m.TargetRoom), m.TempMin, m.TempMax, m.DefaultFan, m.Name)
	if err != nil {
		return fmt.Errorf("update mode %q: %w", m.Name, err)
	}
	return requireAffected(res, ErrModeNotFound)
}

func (r *ModeSQLite) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, deleteModeSQL, name)
	if err != nil {
		return fmt.Errorf("delete mode %q: %w", name, err)
	}
	return requireAffected(res, ErrModeNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
