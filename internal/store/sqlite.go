package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

// SQLite stores one row per user with the record as JSON.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (or creates) the database at path, applies PRAGMAs and
// runs migrations.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLite{db: db, log: log}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every row. Rows with a bad id or body are skipped.
func (s *SQLite) Load(ctx context.Context) (map[int64]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, record FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make(map[int64]domain.User)
	skipped := 0
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, err
		}
		id, ok := parseUserID(key)
		if !ok {
			skipped++
			continue
		}
		var r record
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			skipped++
			continue
		}
		users[id] = fromRecord(id, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.log.Warn("skipped malformed user rows", zap.Int("skipped", skipped))
	}
	return users, nil
}

// Save upserts every user in one transaction.
func (s *SQLite) Save(ctx context.Context, users map[int64]domain.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users (user_id, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			record     = excluded.record,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Unix()
	for id, u := range users {
		body, err := json.Marshal(toRecord(u))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, strconv.FormatInt(id, 10), string(body), now); err != nil {
			return fmt.Errorf("upsert user %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// Close releases the underlying database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}
