package domain

import "errors"

var (
	// ErrNotFound is returned for lookups that miss. Deleted tokens,
	// unknown tokens, and tokens owned by someone else all produce the
	// same error so callers cannot probe for their existence.
	ErrNotFound = errors.New("link not found")

	// ErrDuplicateToken is returned when an insert collides with an
	// active token. It is the only retryable storage error.
	ErrDuplicateToken = errors.New("token already in use")

	// ErrSchemaMismatch is returned when the on-disk schema version is
	// not the one this build expects. The store refuses to operate
	// rather than guess a migration.
	ErrSchemaMismatch = errors.New("schema version mismatch")

	// ErrTokenSpaceExhausted is returned when the allocation loop gives
	// up after too many collisions.
	ErrTokenSpaceExhausted = errors.New("token space exhausted")

	// ErrValidation is returned for malformed caller input, before any
	// storage interaction.
	ErrValidation = errors.New("invalid request")
)
