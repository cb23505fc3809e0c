package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"home_thermostat/internal/models"
)

type AdminSQLite struct {
	db *sql.DB
}

func NewAdminSQLite(db *sql.DB) *AdminSQLite {
	return &AdminSQLite{db: db}
}

var _ AdminRepo = (*AdminSQLite)(nil)

const (
	insertAdminSQL           = `INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)`
	selectAdminByUsernameSQL = `SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`
)

// Create inserts an admin and returns its ID.
func (r *AdminSQLite) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertAdminSQL, username, passwordHash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("admin %q: %w", username, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert admin %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for admin %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername returns (nil, nil) when no such admin exists.
func (r *AdminSQLite) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.QueryRowContext(ctx, selectAdminByUsernameSQL, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select admin %q: %w", username, err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
