package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igor47/smrs/internal/core/domain"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smrs.db")
	repo, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestNewInitializesFreshStore(t *testing.T) {
	repo, path := newTestRepo(t)

	var version int
	err := repo.db.QueryRow(`SELECT version FROM schema ORDER BY updated_at DESC LIMIT 1`).Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	// Reopening an initialized store passes the version gate.
	again, err := New(path)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestNewRefusesUnknownSchemaVersion(t *testing.T) {
	repo, path := newTestRepo(t)

	// A future migration appends a new row; this build must refuse it.
	_, err := repo.db.Exec(`INSERT INTO schema (version, updated_at) VALUES (2, ?)`, repo.now()+10)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	_, err = New(path)
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)

	// The refused open must not have written anything.
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema`).Scan(&rows))
	assert.Equal(t, 2, rows)
}

func TestCreateAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	link := &domain.Link{Token: "CoachSixtyVivid", URL: "https://example.com", Session: "s1"}
	require.NoError(t, repo.Create(ctx, link))
	assert.NotZero(t, link.ID)
	assert.NotZero(t, link.CreatedAt)

	url, err := repo.GetURL(ctx, "CoachSixtyVivid")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)

	_, err = repo.GetURL(ctx, "NeverExisted")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDuplicateToken(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Link{Token: "abcde", URL: "https://a.example", Session: "s1"}))

	err := repo.Create(ctx, &domain.Link{Token: "abcde", URL: "https://b.example", Session: "s2"})
	assert.ErrorIs(t, err, domain.ErrDuplicateToken)

	// The failed insert left no row behind.
	var count int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSoftDeleteAllowsTokenReuse(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	clock := int64(1000)
	repo.now = func() int64 { return clock }

	first := &domain.Link{Token: "abcde", URL: "https://a.example", Session: "s1"}
	require.NoError(t, repo.Create(ctx, first))

	clock = 2000
	affected, err := repo.Delete(ctx, "abcde", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Deleted and never-existed are the same outcome.
	_, err = repo.GetURL(ctx, "abcde")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetURL(ctx, "fghij")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	clock = 3000
	second := &domain.Link{Token: "abcde", URL: "https://b.example", Session: "s1"}
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEqual(t, first.CreatedAt, second.CreatedAt)

	url, err := repo.GetURL(ctx, "abcde")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", url)
}

func TestDeleteRequiresOwningSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Link{Token: "abcde", URL: "https://a.example", Session: "s1"}))

	// Wrong owner looks exactly like a missing token.
	affected, err := repo.Delete(ctx, "abcde", "s2")
	require.NoError(t, err)
	assert.Zero(t, affected)

	url, err := repo.GetURL(ctx, "abcde")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", url)

	// Double delete affects nothing the second time.
	affected, err = repo.Delete(ctx, "abcde", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	affected, err = repo.Delete(ctx, "abcde", "s1")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestListNewestFirstScopedToSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	clock := int64(100)
	repo.now = func() int64 { clock += 100; return clock }

	for _, tok := range []string{"First", "Second", "Third"} {
		require.NoError(t, repo.Create(ctx, &domain.Link{Token: tok, URL: "https://example.com/" + tok, Session: "s1"}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Link{Token: "Other", URL: "https://example.com/other", Session: "s2"}))
	_, err := repo.Delete(ctx, "Second", "s1")
	require.NoError(t, err)

	links, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Third", links[0].Token)
	assert.Equal(t, "First", links[1].Token)
	assert.GreaterOrEqual(t, links[0].CreatedAt, links[1].CreatedAt)

	links, err = repo.List(ctx, "s3")
	require.NoError(t, err)
	assert.Empty(t, links)
}
