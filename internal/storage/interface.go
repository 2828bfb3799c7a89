package storage

import (
	"context"
	"fmt"
)

// Backend persists usage counters. Implementations must be safe for
// concurrent use; recording failures never affect request outcomes.
type Backend interface {
	// IncrementUsage adds value to a counter field under the given usage key.
	IncrementUsage(ctx context.Context, key, field string, value int64) error
	// GetUsage returns all counter fields for one usage key.
	GetUsage(ctx context.Context, key string) (map[string]int64, error)
	// ListUsage returns counters for every known usage key.
	ListUsage(ctx context.Context) (map[string]map[string]int64, error)
	// ResetUsage clears counters for one usage key.
	ResetUsage(ctx context.Context, key string) error

	Health(ctx context.Context) error
	Close() error
}

// ErrNotFound indicates a missing usage key.
type ErrNotFound struct{ Key string }

func (e *ErrNotFound) Error() string { return fmt.Sprintf("key not found: %s", e.Key) }
