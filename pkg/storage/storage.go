// Package storage defines the completion store contract. Completed
// responses are kept so callers can fetch them again by ID; lokal ships
// an in-memory implementation in the memory subpackage.
package storage

import (
	"context"
	"errors"

	"github.com/rhuss/lokal/pkg/api"
)

// ErrNotFound indicates the requested completion does not exist.
var ErrNotFound = errors.New("storage: completion not found")

// ErrConflict indicates a completion with the same ID already exists.
var ErrConflict = errors.New("storage: completion already exists")

// Store persists completed responses for later retrieval.
type Store interface {
	// Save persists a response. Returns ErrConflict on a duplicate ID.
	Save(ctx context.Context, resp *api.ModelResponse) error

	// Get retrieves a response by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*api.ModelResponse, error)

	// Delete removes a response. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
