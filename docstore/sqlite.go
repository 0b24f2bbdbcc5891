package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	account    TEXT NOT NULL,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (account, collection, id)
)`

// OpenSQLite opens (and creates if needed) the SQLite database at path.
// Use ":memory:" for a throw-away database.
func OpenSQLite(path string) (*sql.DB, error) {
	connStr := path
	if path != ":memory:" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// Maximum safety, this is the ledger of real money.
		connStr = absPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	if path == ":memory:" {
		// every connection to :memory: is a distinct database.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", path, err)
	}
	return db, nil
}

// SQLite stores documents of one account in a SQLite table.
type SQLite struct {
	db      *sql.DB
	account string
	log     zerolog.Logger
}

// NewSQLite returns a store for account, creating the documents table if needed.
func NewSQLite(ctx context.Context, db *sql.DB, account string, log zerolog.Logger) (*SQLite, error) {
	if account == "" {
		return nil, errors.New("account is missing")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &SQLite{
		db:      db,
		account: account,
		log:     log.With().Str("store", "sqlite").Str("account", account).Logger(),
	}, nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM documents WHERE account = ? AND collection = ? AND id = ?",
		s.account, collection, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return []byte(doc), nil
}

// List returns the documents of collection ordered by id.
func (s *SQLite) List(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM documents WHERE account = ? AND collection = ? ORDER BY id",
		s.account, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", collection, err)
		}
		out = append(out, []byte(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", collection, err)
	}
	return out, nil
}

func (s *SQLite) Set(ctx context.Context, collection, id string, doc []byte) error {
	return s.Batch(ctx, []Write{Put(collection, id, doc)})
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	return s.Batch(ctx, []Write{Remove(collection, id)})
}

// Batch applies all writes in one SQL transaction.
func (s *SQLite) Batch(ctx context.Context, writes []Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	for _, w := range writes {
		if w.IsDelete() {
			_, err = tx.ExecContext(ctx,
				"DELETE FROM documents WHERE account = ? AND collection = ? AND id = ?",
				s.account, w.Collection, w.ID)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO documents (account, collection, id, doc, updated_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(account, collection, id) DO UPDATE SET
					doc = excluded.doc,
					updated_at = excluded.updated_at`,
				s.account, w.Collection, w.ID, string(w.Doc), now)
		}
		if err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", w.Collection, w.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %d writes: %w", len(writes), err)
	}
	s.log.Debug().Int("writes", len(writes)).Msg("batch committed")
	return nil
}
