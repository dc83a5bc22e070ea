package ports

import (
	"context"

	"github.com/igor47/smrs/internal/core/domain"
)

// LinkRepository defines storage operations for links. Every operation
// that touches ownership takes the owning session explicitly; the
// repository never derives it from ambient state.
type LinkRepository interface {
	// Create inserts a new active link. Returns
	// domain.ErrDuplicateToken when the token collides with an
	// existing active link.
	Create(ctx context.Context, link *domain.Link) error

	// GetURL returns the target URL for an active token.
	// domain.ErrNotFound covers unknown and soft-deleted tokens alike.
	GetURL(ctx context.Context, tok string) (string, error)

	// List returns all active links owned by session, newest first.
	List(ctx context.Context, session string) ([]domain.Link, error)

	// Delete soft-deletes the link matching both token and session and
	// returns the number of rows affected (0 or 1).
	Delete(ctx context.Context, tok, session string) (int64, error)

	// Close releases the underlying handle.
	Close() error
}

// LinkService defines the business logic operations.
type LinkService interface {
	// CreateLink allocates a collision-free token for url and persists
	// the link under session. requested may be empty.
	CreateLink(ctx context.Context, url, requested, session string) (*domain.Allocation, error)

	// Resolve returns the target URL for an active token.
	Resolve(ctx context.Context, tok string) (string, error)

	// ListLinks returns the session's active links, newest first.
	ListLinks(ctx context.Context, session string) ([]domain.Link, error)

	// DeleteLink soft-deletes the session's link; false when nothing
	// matched.
	DeleteLink(ctx context.Context, tok, session string) (bool, error)
}
