package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"home_thermostat/internal/models"
)

// ErrRoomNotFound is returned by updates addressing a missing room.
var ErrRoomNotFound = errors.New("room not found")

type RoomSQLite struct {
	db *sql.DB
}

func NewRoomSQLite(db *sql.DB) *RoomSQLite {
	return &RoomSQLite{db: db}
}

var _ RoomRepo = (*RoomSQLite)(nil)

const (
	roomColumns = `id, name, address, current_temp, current_temp_ts, last_temp`

	selectRoomsSQL      = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id ASC`
	selectRoomByNameSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE name = ?`
	insertRoomSQL       = `INSERT INTO rooms (name, address) VALUES (?, ?)`
	renameRoomSQL       = `UPDATE rooms SET name = ? WHERE address = ?`
	deleteRoomSQL       = `DELETE FROM rooms WHERE address = ?`
	updateReadingSQL    = `UPDATE rooms SET current_temp = ?, current_temp_ts = ?, last_temp = ? WHERE name = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (models.Room, error) {
	var (
		r        models.Room
		current  sql.NullFloat64
		stamp    sql.NullInt64
		previous sql.NullFloat64
	)
	if err := s.Scan(&r.ID, &r.Name, &r.Address, &current, &stamp, &previous); err != nil {
		return models.Room{}, err
	}
	r.CurrentTemp = floatPtr(current)
	r.CurrentTempTimestamp = intPtr(stamp)
	r.LastTemp = floatPtr(previous)
	return r, nil
}

// List returns all rooms in creation order.
func (r *RoomSQLite) List(ctx context.Context) ([]models.Room, error) {
	rows, err := r.db.QueryContext(ctx, selectRoomsSQL)
	if err != nil {
		return nil, fmt.Errorf("select rooms: %w", err)
	}
	defer rows.Close()

	out := make([]models.Room, 0, 8)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a room by name. Returns (nil, nil) if not found.
func (r *RoomSQLite) Get(ctx context.Context, name string) (*models.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, selectRoomByNameSQL, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select room %q: %w", name, err)
	}
	return &room, nil
}

func (r *RoomSQLite) Create(ctx context.Context, name, address string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL, name, address)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("room %q: %w", name, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert room %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for room %q: %w", name, err)
	}
	return int(id), nil
}

func (r *RoomSQLite) Rename(ctx context.Context, address, name string) error {
	return r.execAffecting(ctx, renameRoomSQL, name, address)
}

func (r *RoomSQLite) DeleteByAddress(ctx context.Context, address string) error {
	return r.execAffecting(ctx, deleteRoomSQL, address)
}

// UpdateReading writes the reading columns of the room named room.Name.
func (r *RoomSQLite) UpdateReading(ctx context.Context, room models.Room) error {
	return r.execAffecting(ctx, updateReadingSQL,
		floatArg(room.CurrentTemp),
		intArg(room.CurrentTempTimestamp),
		floatArg(room.LastTemp),
		room.Name,
	)
}

func (r *RoomSQLite) execAffecting(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
