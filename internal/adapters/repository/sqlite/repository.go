// Package sqlite implements the link store on SQLite. A store is
// opened fresh for each request and closed when the request ends; the
// engine's own locking arbitrates concurrent invocations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"modernc.org/sqlite"                                 // Local SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/igor47/smrs/internal/core/domain"
	"github.com/igor47/smrs/internal/ports"
)

// schemaVersion is the schema this build knows how to operate on. A
// store whose latest schema row disagrees is refused outright; schema
// evolution happens in an explicit migration step, never implicitly on
// open.
const schemaVersion = 1

// The unique index is partial: soft-deleted rows keep their token, so
// uniqueness is enforced among active links only and a token becomes
// reusable after deletion.
const initSchema = `
CREATE TABLE links (
	id INTEGER PRIMARY KEY,
	token TEXT NOT NULL,
	url TEXT NOT NULL,
	session TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	deleted_at INTEGER
);
CREATE UNIQUE INDEX idx_links_token_active ON links(token) WHERE deleted_at IS NULL;

CREATE TABLE schema (
	version INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

type Repository struct {
	db *sql.DB

	// now is swappable so tests can control timestamps.
	now func() int64
}

// New opens (creating if absent) the store at databaseURL. A fresh
// store is initialized with the current schema; an existing one must
// carry the expected schema version or New fails with
// domain.ErrSchemaMismatch.
func New(databaseURL string) (*Repository, error) {
	driverName := "sqlite"
	if strings.Contains(databaseURL, "libsql://") || strings.Contains(databaseURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	r := &Repository{
		db:  db,
		now: func() int64 { return time.Now().Unix() },
	}

	fresh, err := r.isFresh(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	if fresh {
		err = r.initialize()
	} else {
		err = r.confirmVersion()
	}
	if err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// isFresh reports whether the store has never been initialized. Probing
// sqlite_master instead of the filesystem keeps the check working for
// in-memory and remote databases.
func (r *Repository) isFresh(db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schema'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	return false, err
}

func (r *Repository) initialize() error {
	if _, err := r.db.Exec(initSchema); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	if _, err := r.db.Exec(
		`INSERT INTO schema (version, updated_at) VALUES (?, ?)`,
		schemaVersion, r.now(),
	); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	return nil
}

// confirmVersion reads the latest schema row and refuses to proceed on
// any version this build does not expect.
func (r *Repository) confirmVersion() error {
	var version int
	err := r.db.QueryRow(
		`SELECT version FROM schema ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrSchemaMismatch, schemaVersion, version)
	}
	return nil
}

// Create inserts a new active link and fills in its ID and CreatedAt.
// A collision with an active token is reported as
// domain.ErrDuplicateToken; nothing is persisted on failure.
func (r *Repository) Create(ctx context.Context, link *domain.Link) error {
	link.CreatedAt = r.now()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO links (token, url, session, created_at) VALUES (?, ?, ?, ?)`,
		link.Token, link.URL, link.Session, link.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateToken
		}
		return fmt.Errorf("create link: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	link.ID = id
	return nil
}

// GetURL returns the target URL for an active token. A soft-deleted
// token and a token that never existed produce the same
// domain.ErrNotFound.
func (r *Repository) GetURL(ctx context.Context, tok string) (string, error) {
	var url string
	err := r.db.QueryRowContext(ctx,
		`SELECT url FROM links WHERE token = ? AND deleted_at IS NULL`,
		tok,
	).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get link: %w", err)
	}
	return url, nil
}

// List returns all active links owned by session, newest first. The id
// tiebreak keeps same-second listings stable.
func (r *Repository) List(ctx context.Context, session string) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, token, url, session, created_at
		 FROM links
		 WHERE session = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC, id DESC`,
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.Token, &l.URL, &l.Session, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("list links: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Delete soft-deletes the link matching both token and session and
// returns the number of rows affected. Wrong token, wrong owner, and
// already-deleted all come back as 0; callers cannot tell them apart.
func (r *Repository) Delete(ctx context.Context, tok, session string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET deleted_at = ? WHERE token = ? AND session = ? AND deleted_at IS NULL`,
		r.now(), tok, session,
	)
	if err != nil {
		return 0, fmt.Errorf("delete link: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete link: %w", err)
	}
	return affected, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// isUniqueViolation recognizes a UNIQUE constraint failure from either
// driver. modernc reports typed errors; the libsql wire protocol only
// carries the message.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure interface compliance
var _ ports.LinkRepository = (*Repository)(nil)
