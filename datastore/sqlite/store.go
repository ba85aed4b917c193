/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dykam/gangwars/storagemodels"
)

// FileName is the database file created inside the data directory.
const FileName = "gangs.db"

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - UNIQUE index on gang_members.member
const currentSchemaVersion = 1

// Store keeps the gang snapshot in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens the database inside dir.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return Open(filepath.Join(dir, FileName), logger)
}

// Open creates or opens a SQLite database at the given path and applies
// pragmas and migrations. It is safe to call on an existing database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, logger: logger.With("store", "sqlite", "path", path)}, nil
}

// Load reads every gang with its members in join order.
func (s *Store) Load(ctx context.Context) ([]storagemodels.StoredGang, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, power_level FROM gangs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gangs: %w", err)
	}

	var gangs []storagemodels.StoredGang
	byName := make(map[string]int)
	for rows.Next() {
		var g storagemodels.StoredGang
		if err := rows.Scan(&g.Name, &g.PowerLevel); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan gang: %w", err)
		}
		byName[g.Name] = len(gangs)
		gangs = append(gangs, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read gangs: %w", err)
	}
	rows.Close()

	members, err := s.db.QueryContext(ctx, `SELECT gang, member FROM gang_members ORDER BY gang, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer members.Close()

	for members.Next() {
		var gang, member string
		if err := members.Scan(&gang, &member); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if i, ok := byName[gang]; ok {
			gangs[i].Members = append(gangs[i].Members, member)
		}
	}
	if err := members.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	s.logger.Debug("loaded gangs", "count", len(gangs))
	return gangs, nil
}

// Save replaces every stored gang in a single transaction.
func (s *Store) Save(ctx context.Context, gangs []storagemodels.StoredGang) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gang_members`); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM gangs`); err != nil {
		return fmt.Errorf("failed to clear gangs: %w", err)
	}

	insertGang, err := tx.PrepareContext(ctx, `INSERT INTO gangs (name, position, power_level) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare gang insert: %w", err)
	}
	defer insertGang.Close()

	insertMember, err := tx.PrepareContext(ctx, `INSERT INTO gang_members (gang, position, member) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare member insert: %w", err)
	}
	defer insertMember.Close()

	for i, g := range gangs {
		if _, err := insertGang.ExecContext(ctx, g.Name, i, g.PowerLevel); err != nil {
			return fmt.Errorf("failed to insert gang %s: %w", g.Name, err)
		}
		for j, m := range g.Members {
			if _, err := insertMember.ExecContext(ctx, g.Name, j, m); err != nil {
				return fmt.Errorf("failed to insert member %s of %s: %w", m, g.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Debug("saved gangs", "count", len(gangs))
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_gang_members_member ON gang_members(member)`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
