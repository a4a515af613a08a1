// Package session keeps values by string ID between requests.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Store holds values of one type keyed by ID. Get reports false for an
// unknown ID; Delete of an unknown ID is not an error.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	NewID() string
}

// NewID returns a fresh random UUID string.
func NewID() string {
	return uuid.NewString()
}
