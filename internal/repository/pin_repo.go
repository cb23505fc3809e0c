package repository

import (
	"context"
	"database/sql"
	"fmt"

	"home_thermostat/internal/models"
)

type PinSQLite struct {
	db *sql.DB
}

func NewPinSQLite(db *sql.DB) *PinSQLite {
	return &PinSQLite{db: db}
}

var _ PinRepo = (*PinSQLite)(nil)

const (
	selectPinsSQL = `SELECT name, channel FROM pins ORDER BY name ASC`
	upsertPinSQL  = `
		INSERT INTO pins (name, channel) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET channel=excluded.channel
	`
)

func (r *PinSQLite) List(ctx context.Context) ([]models.PinMapping, error) {
	rows, err := r.db.QueryContext(ctx, selectPinsSQL)
	if err != nil {
		return nil, fmt.Errorf("select pins: %w", err)
	}
	defer rows.Close()

	var out []models.PinMapping
	for rows.Next() {
		var p models.PinMapping
		if err := rows.Scan(&p.Name, &p.Channel); err != nil {
			return nil, fmt.Errorf("scan pin: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PinSQLite) Upsert(ctx context.Context, p models.PinMapping) error {
	if _, err := r.db.ExecContext(ctx, upsertPinSQL, p.Name, p.Channel); err != nil {
		return fmt.Errorf("upsert pin %q: %w", p.Name, err)
	}
	return nil
}
