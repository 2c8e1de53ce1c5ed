package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hive/game"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// migrations are applied in order and recorded in _migrations.
var migrations = []struct {
	name string
	sql  string
}{
	{"001_games", `
CREATE TABLE IF NOT EXISTS games (
    id          TEXT PRIMARY KEY,
    game_type   TEXT NOT NULL,
    rules       TEXT NOT NULL,
    game_string TEXT NOT NULL DEFAULT '',
    turn        INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    result      TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);`},
	{"002_games_updated_at", `CREATE INDEX IF NOT EXISTS games_updated_at ON games(updated_at);`},
}

type sqliteStore struct {
	db *sql.DB
}

// OpenDB opens (and creates if missing) a SQLite database file with a busy
// timeout and WAL journaling.
func OpenDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate applies the schema migrations that are not recorded yet.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.name, err)
		}
		log.Info().Str("migration", m.name).Msg("applied")
	}
	return nil
}

// NewSQLiteStore opens dsn, migrates it and returns a Store over it.
func NewSQLiteStore(dsn string) (Store, func() error, error) {
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return &sqliteStore{db: db}, db.Close, nil
}

func (s *sqliteStore) Save(ctx context.Context, r Record) error {
	rules, err := json.Marshal(r.Rules)
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO games (id, game_type, rules, game_string, turn, status, result, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            game_string=excluded.game_string,
            turn=excluded.turn,
            status=excluded.status,
            result=excluded.result,
            updated_at=excluded.updated_at`,
		r.ID, r.GameType.String(), string(rules), r.GameString, r.Turn,
		r.Status.String(), r.Result.String(), now, now,
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", r.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r               Record
		gameType, rules string
		status, result  string
	)
	if err := row.Scan(&r.ID, &gameType, &rules, &r.GameString, &r.Turn, &status, &result, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Record{}, err
	}
	var err error
	if r.GameType, err = game.ParseGameType(gameType); err != nil {
		return Record{}, err
	}
	if err = json.Unmarshal([]byte(rules), &r.Rules); err != nil {
		return Record{}, fmt.Errorf("decode rules: %w", err)
	}
	if r.Status, err = game.ParseStatus(status); err != nil {
		return Record{}, err
	}
	if r.Result, err = game.ParseResult(result); err != nil {
		return Record{}, err
	}
	return r, nil
}

const selectGames = `SELECT id, game_type, rules, game_string, turn, status, result, created_at, updated_at FROM games`

func (s *sqliteStore) Get(ctx context.Context, id string) (Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectGames+` WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return r, nil
}

func (s *sqliteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectGames+` ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
