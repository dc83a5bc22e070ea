// Package services holds the business logic over the link repository,
// chiefly the token allocation loop.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/igor47/smrs/internal/core/domain"
	"github.com/igor47/smrs/internal/ports"
	"github.com/igor47/smrs/internal/token"
)

const (
	// TokenMinLen and TokenMaxLen bound the stored token length after
	// normalization.
	TokenMinLen = 5
	TokenMaxLen = 32

	// maxAttempts bounds the collision-retry loop. The reference
	// behavior retried forever; each extension word adds ~10 bits of
	// entropy, so 16 honest collisions in a row means the store is
	// effectively out of space for this base token.
	maxAttempts = 16
)

type LinkService struct {
	repo   ports.LinkRepository
	logger *zap.Logger

	// generate and extend are swappable so tests can control tokens.
	generate func(token.Profile) string
	extend   func(string) string
}

func NewLinkService(repo ports.LinkRepository, logger *zap.Logger) *LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkService{
		repo:     repo,
		logger:   logger,
		generate: token.Generate,
		extend:   token.Extend,
	}
}

// CreateLink allocates a collision-free token for url under session.
// When requested is empty a URL-profile token is generated. The insert
// itself is the only uniqueness check: there is no read-before-write,
// so two concurrent requests racing on the same token are arbitrated by
// the store's unique constraint, and the loser extends and retries.
//
// Every retry extends the original requested token with a fresh word
// rather than compounding on the previous failed attempt, so the stored
// token stays one extension away from what was asked for.
func (s *LinkService) CreateLink(ctx context.Context, url, requested, session string) (*domain.Allocation, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}
	if session == "" {
		return nil, fmt.Errorf("%w: session is required", domain.ErrValidation)
	}

	if requested == "" {
		requested = s.generate(token.URL)
	}

	candidate := s.normalize(requested)
	for attempt := 1; ; attempt++ {
		link := &domain.Link{Token: candidate, URL: url, Session: session}

		err := s.repo.Create(ctx, link)
		if err == nil {
			s.logger.Info("link created",
				zap.String("token", link.Token),
				zap.Int("attempt", attempt))
			return &domain.Allocation{
				Token:     link.Token,
				Requested: requested,
				URL:       url,
				CreatedAt: link.CreatedAt,
			}, nil
		}

		if !errors.Is(err, domain.ErrDuplicateToken) {
			return nil, fmt.Errorf("allocate token: %w", err)
		}

		if attempt >= maxAttempts {
			s.logger.Warn("giving up on token allocation",
				zap.String("requested", requested),
				zap.Int("attempts", attempt))
			return nil, fmt.Errorf("%w: %q after %d attempts",
				domain.ErrTokenSpaceExhausted, requested, attempt)
		}

		candidate = s.normalize(s.extend(requested))
	}
}

// normalize brings a candidate token into [TokenMinLen, TokenMaxLen]:
// short tokens grow by extension words, long ones are clipped. A token
// already in range passes through untouched.
func (s *LinkService) normalize(tok string) string {
	for len([]rune(tok)) < TokenMinLen {
		tok = s.extend(tok)
	}
	if runes := []rune(tok); len(runes) > TokenMaxLen {
		tok = string(runes[:TokenMaxLen])
	}
	return tok
}

// Resolve returns the target URL for an active token.
func (s *LinkService) Resolve(ctx context.Context, tok string) (string, error) {
	return s.repo.GetURL(ctx, tok)
}

// ListLinks returns the session's active links, newest first.
func (s *LinkService) ListLinks(ctx context.Context, session string) ([]domain.Link, error) {
	return s.repo.List(ctx, session)
}

// DeleteLink soft-deletes the session's link. It reports false when
// nothing matched, whether the token is unknown, already deleted, or
// owned by a different session.
func (s *LinkService) DeleteLink(ctx context.Context, tok, session string) (bool, error) {
	affected, err := s.repo.Delete(ctx, tok, session)
	if err != nil {
		return false, err
	}
	if affected > 0 {
		s.logger.Info("link deleted", zap.String("token", tok))
	}
	return affected > 0, nil
}

// Ensure interface compliance
var _ ports.LinkService = (*LinkService)(nil)
