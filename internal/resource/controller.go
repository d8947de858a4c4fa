package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// ErrBusy is returned when a write is attempted while another one is still
// in flight.
var ErrBusy = errors.New("another request is still in progress")

// ErrNotFound is returned when a record disappears between writes and refetch.
var ErrNotFound = errors.New("record not found")

// Backend is the four-verb request layer behind one collection.
type Backend[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload any) error
	Update(ctx context.Context, id string, payload any) error
	Delete(ctx context.Context, id string) error
}

// Controller drives the fetch/write/refetch cycle for one collection.
type Controller[T Record] struct {
	name    string
	backend Backend[T]
	store   *Store[T]
	logger  *slog.Logger
	busy    atomic.Bool
}

// NewController builds a Controller. name is used in logs and error messages.
func NewController[T Record](name string, backend Backend[T], logger *slog.Logger) *Controller[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller[T]{
		name:    name,
		backend: backend,
		store:   &Store[T]{},
		logger:  logger.With("resource", name),
	}
}

// Name returns the collection name.
func (c *Controller[T]) Name() string { return c.name }

// Store exposes the snapshot store.
func (c *Controller[T]) Store() *Store[T] { return c.store }

// Snapshot is shorthand for Store().Snapshot().
func (c *Controller[T]) Snapshot() Snapshot[T] { return c.store.Snapshot() }

// Busy reports whether a write is in flight.
func (c *Controller[T]) Busy() bool { return c.busy.Load() }

// FetchAll replaces the snapshot with the backend collection. On failure the
// previous items stay and the error is recorded.
func (c *Controller[T]) FetchAll(ctx context.Context) error {
	items, err := c.backend.List(ctx)
	if err != nil {
		c.store.Fail(err)
		c.logger.Warn("fetch failed", "error", err)
		return fmt.Errorf("fetch %s: %w", c.name, err)
	}
	c.store.Replace(items)
	c.logger.Debug("fetched", "count", len(items))
	return nil
}

// Create sends a new record and resynchronizes.
func (c *Controller[T]) Create(ctx context.Context, payload any) error {
	return c.Mutate(ctx, "create", func(ctx context.Context) error {
		return c.backend.Create(ctx, payload)
	})
}

// Update replaces the record with the given id and resynchronizes.
func (c *Controller[T]) Update(ctx context.Context, id string, payload any) error {
	return c.Mutate(ctx, "update", func(ctx context.Context) error {
		return c.backend.Update(ctx, id, payload)
	})
}

// Remove deletes the record with the given id and resynchronizes.
func (c *Controller[T]) Remove(ctx context.Context, id string) error {
	return c.Mutate(ctx, "delete", func(ctx context.Context) error {
		return c.backend.Delete(ctx, id)
	})
}

// Mutate runs an arbitrary write under the in-flight guard. A successful write
// is always followed by FetchAll; a refetch failure is recorded on the store
// but does not turn the write into a failure.
func (c *Controller[T]) Mutate(ctx context.Context, action string, write func(context.Context) error) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	if err := write(ctx); err != nil {
		c.logger.Warn("write failed", "action", action, "error", err)
		return fmt.Errorf("%s %s: %w", action, c.name, err)
	}
	c.logger.Info("write succeeded", "action", action)
	_ = c.FetchAll(ctx)
	return nil
}

// RefreshAndReselect refetches and returns the fresh copy of the record with
// the given id. ok is false when the record no longer exists.
func (c *Controller[T]) RefreshAndReselect(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := c.FetchAll(ctx); err != nil {
		return zero, false, err
	}
	item, ok := Find(c.store.Snapshot().Items, id)
	return item, ok, nil
}

// BulkFailure records one failed id of a bulk operation.
type BulkFailure struct {
	ID  string
	Err error
}

// BulkResult accumulates the outcome of RemoveMany.
type BulkResult struct {
	Succeeded []string
	Failed    []BulkFailure
}

// Counts returns the number of succeeded and failed ids.
func (r BulkResult) Counts() (ok, failed int) {
	return len(r.Succeeded), len(r.Failed)
}

// RemoveMany deletes ids one request at a time, then refetches once.
func (c *Controller[T]) RemoveMany(ctx context.Context, ids []string) (BulkResult, error) {
	var result BulkResult
	if !c.busy.CompareAndSwap(false, true) {
		return result, ErrBusy
	}
	defer c.busy.Store(false)

	for _, id := range ids {
		if err := c.backend.Delete(ctx, id); err != nil {
			c.logger.Warn("bulk delete item failed", "id", id, "error", err)
			result.Failed = append(result.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	ok, failed := result.Counts()
	c.logger.Info("bulk delete finished", "succeeded", ok, "failed", failed)
	_ = c.FetchAll(ctx)
	return result, nil
}
