package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSchema es el esquema local equivalente a migrations/001_create_pets.sql.
// Las fechas se guardan como segundos unix.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS pets (
	id           TEXT PRIMARY KEY,
	species      TEXT NOT NULL,
	size         TEXT NOT NULL,
	age_years    REAL NOT NULL,
	sex          TEXT NOT NULL,
	energy_level TEXT,
	temperament  TEXT,
	breed        TEXT,
	status       TEXT NOT NULL DEFAULT 'available',
	approved     INTEGER NOT NULL DEFAULT 0,
	expires_at   INTEGER,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pets_pool ON pets (species, status, approved, created_at DESC);
`

// OpenSQLite abre (o crea) una base SQLite con WAL y el esquema de mascotas.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path != ":memory:" {
		if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	} else {
		// cada conexion a :memory: es una base distinta
		conn.SetMaxOpenConns(1)
	}

	if err := EnsureSQLiteSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func EnsureSQLiteSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
