package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// The control loop and the API share one writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return conn, nil
}

const sqliteDriverName = "sqlite"

const schemaRooms = `
CREATE TABLE IF NOT EXISTS rooms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    address TEXT UNIQUE NOT NULL,
    current_temp REAL,
    current_temp_ts INTEGER,
    last_temp REAL
);
`

const schemaModes = `
CREATE TABLE IF NOT EXISTS modes (
    name TEXT PRIMARY KEY,
    target_room TEXT,
    temp_min REAL NOT NULL,
    temp_max REAL NOT NULL,
    default_fan BOOLEAN,
    CHECK (temp_min <= temp_max)
);
`

const schemaSchedule = `
CREATE TABLE IF NOT EXISTS schedule (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time INTEGER NOT NULL CHECK (start_time BETWEEN 0 AND 1439),
    mode TEXT NOT NULL
);
`

const schemaOverrides = `
CREATE TABLE IF NOT EXISTS overrides (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    is_enabled BOOLEAN NOT NULL,
    ends_at INTEGER,
    ac BOOLEAN,
    heat BOOLEAN,
    fan_low BOOLEAN,
    fan_high BOOLEAN,
    temp_min REAL,
    temp_max REAL,
    target_room TEXT
);
`

const schemaCurrentState = `
CREATE TABLE IF NOT EXISTS current_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    ac BOOLEAN NOT NULL,
    heat BOOLEAN NOT NULL,
    fan_low BOOLEAN NOT NULL,
    fan_high BOOLEAN NOT NULL,
    temp_min REAL,
    temp_max REAL,
    target_room TEXT,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaPins = `
CREATE TABLE IF NOT EXISTS pins (
    name TEXT PRIMARY KEY,
    channel INTEGER NOT NULL
);
`

const schemaEvents = `
CREATE TABLE IF NOT EXISTS thermostat_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaAdmins = `
CREATE TABLE IF NOT EXISTS admins (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

func ensureSchema(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaRooms,
		schemaModes,
		schemaSchedule,
		schemaOverrides,
		schemaCurrentState,
		schemaPins,
		schemaEvents,
		schemaAdmins,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
