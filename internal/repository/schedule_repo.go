package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"home_thermostat/internal/models"
)

var ErrScheduleEntryNotFound = errors.New("schedule entry not found")

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite {
	return &ScheduleSQLite{db: db}
}

var _ ScheduleRepo = (*ScheduleSQLite)(nil)

const (
	selectScheduleSQL = `SELECT id, start_time, mode FROM schedule ORDER BY start_time ASC, id ASC`
	insertScheduleSQL = `INSERT INTO schedule (start_time, mode) VALUES (?, ?)`
	deleteScheduleSQL = `DELETE FROM schedule WHERE id = ?`
)

func (r *ScheduleSQLite) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectScheduleSQL)
	if err != nil {
		return nil, fmt.Errorf("select schedule: %w", err)
	}
	defer rows.Close()

	var out []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.StartTime, &e.Mode); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ScheduleSQLite) Add(ctx context.Context, e models.ScheduleEntry) (int, error) {
	res, err := r.db.ExecContext(ctx, insertScheduleSQL, e.StartTime, e.Mode)
	if err != nil {
		return 0, fmt.Errorf("insert schedule entry at %d: %w", e.StartTime, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for schedule entry: %w", err)
	}
	return int(id), nil
}

func (r *ScheduleSQLite) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteScheduleSQL, id)
	if err != nil {
		return fmt.Errorf("delete schedule entry %d: %w", id, err)
	}
	return requireAffected(res, ErrScheduleEntryNotFound)
}
