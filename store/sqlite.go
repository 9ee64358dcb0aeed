package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"truco-lite/truco"
)

const defaultLocalDBName = "truco_local.db"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS truco_games (
    game_id TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    state_json TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS truco_event_stream (
    game_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    envelope_b64 TEXT NOT NULL,
    server_ts_ms INTEGER NOT NULL,
    PRIMARY KEY (game_id, seq)
)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, gameID string) (truco.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM truco_games WHERE game_id = ?`, gameID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return truco.State{}, ErrNotFound
	}
	if err != nil {
		return truco.State{}, err
	}
	return decodeState(gameID, []byte(raw))
}

func (s *SQLiteStore) Save(ctx context.Context, st truco.State) error {
	raw, err := encodeState(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO truco_games (game_id, status, state_json, updated_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT (game_id) DO UPDATE
SET
    status = excluded.status,
    state_json = excluded.state_json,
    updated_at_ms = excluded.updated_at_ms
`, st.GameID, st.Status.String(), string(raw), time.Now().UTC().UnixMilli())
	return err
}

func (s *SQLiteStore) AppendEvents(ctx context.Context, gameID string, events []EventItem) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO truco_event_stream (game_id, seq, event_type, envelope_b64, server_ts_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (game_id, seq) DO NOTHING
`, gameID, int64(ev.Seq), ev.EventType, ev.EnvelopeB64, ev.ServerTsMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Events(ctx context.Context, gameID string, afterSeq uint64) ([]EventItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, event_type, envelope_b64, server_ts_ms
FROM truco_event_stream
WHERE game_id = ? AND seq > ?
ORDER BY seq ASC
`, gameID, int64(afterSeq))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventRows(rows)
}

func scanEventRows(rows *sql.Rows) ([]EventItem, error) {
	out := []EventItem{}
	for rows.Next() {
		var (
			item EventItem
			seq  int64
		)
		if err := rows.Scan(&seq, &item.EventType, &item.EnvelopeB64, &item.ServerTsMs); err != nil {
			return nil, err
		}
		item.Seq = uint64(seq)
		out = append(out, item)
	}
	return out, rows.Err()
}
