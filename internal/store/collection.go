package store

import (
	"context"
	"sync"
	"time"

	"github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/metrics"
)

// Record is implemented by every entity kept in a Collection. Entities are
// value types; WithID and Clone return modified copies.
type Record[T any] interface {
	GetID() int
	WithID(id int) T
	Clone() T
}

// creationStamper lets an entity fill its own creation fields.
type creationStamper[T any] interface {
	OnCreate(now time.Time) T
}

const (
	opGetAll  = "get_all"
	opGetByID = "get_by_id"
	opCreate  = "create"
	opUpdate  = "update"
	opDelete  = "delete"
	opReplace = "replace"
	opUpsert  = "upsert"
)

// Latency holds the simulated delay of each operation.
type Latency struct {
	GetAll  time.Duration
	GetByID time.Duration
	Create  time.Duration
	Update  time.Duration
	Delete  time.Duration
	Replace time.Duration
	Upsert  time.Duration
}

// DefaultLatency mirrors the response times of the hosted demo backend.
func DefaultLatency() Latency {
	return Latency{
		GetAll:  300 * time.Millisecond,
		GetByID: 200 * time.Millisecond,
		Create:  400 * time.Millisecond,
		Update:  300 * time.Millisecond,
		Delete:  200 * time.Millisecond,
		Replace: 500 * time.Millisecond,
		Upsert:  300 * time.Millisecond,
	}
}

type Options struct {
	Latency Latency
	Metrics *metrics.Metrics
	Clock   func() time.Time
}

// Collection is an in-memory, mutex guarded list of records with
// sequential integer ids.
type Collection[T Record[T]] struct {
	name    string
	mu      sync.RWMutex
	items   []T
	latency Latency
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewCollection copies seed into a new collection.
func NewCollection[T Record[T]](name string, seed []T, opts Options) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		items:   make([]T, 0, len(seed)),
		latency: opts.Latency,
		metrics: opts.Metrics,
		now:     opts.Clock,
	}
	if c.now == nil {
		c.now = time.Now
	}
	for _, item := range seed {
		c.items = append(c.items, item.Clone())
	}
	c.observeSize()
	return c
}

// GetAll returns a snapshot of every record.
func (c *Collection[T]) GetAll(ctx context.Context) (_ []T, err error) {
	defer c.observe(opGetAll, time.Now(), &err)

	if err = wait(ctx, c.latency.GetAll); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out, nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id int) (_ T, err error) {
	defer c.observe(opGetByID, time.Now(), &err)

	var zero T
	if err = wait(ctx, c.latency.GetByID); err != nil {
		return zero, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return zero, c.notFound()
	}
	return c.items[idx].Clone(), nil
}

// Create assigns the next id, applies the entity's creation stamp and appends.
func (c *Collection[T]) Create(ctx context.Context, item T) (_ T, err error) {
	defer c.observe(opCreate, time.Now(), &err)

	var zero T
	if err = wait(ctx, c.latency.Create); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	created := c.insert(item)
	return created.Clone(), nil
}

// Update applies patch to the stored record. The id cannot be changed.
func (c *Collection[T]) Update(ctx context.Context, id int, patch func(*T)) (_ T, err error) {
	defer c.observe(opUpdate, time.Now(), &err)

	var zero T
	if err = wait(ctx, c.latency.Update); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return zero, c.notFound()
	}
	updated := c.items[idx].Clone()
	patch(&updated)
	c.items[idx] = updated.WithID(id)
	return c.items[idx].Clone(), nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int) (err error) {
	defer c.observe(opDelete, time.Now(), &err)

	if err = wait(ctx, c.latency.Delete); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return c.notFound()
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return nil
}

// Replace swaps the whole collection, numbering records 1..n by position.
func (c *Collection[T]) Replace(ctx context.Context, items []T) (_ []T, err error) {
	defer c.observe(opReplace, time.Now(), &err)

	if err = wait(ctx, c.latency.Replace); err != nil {
		return nil, err
	}

	next := make([]T, len(items))
	out := make([]T, len(items))
	for i, item := range items {
		next[i] = item.Clone().WithID(i + 1)
		out[i] = next[i].Clone()
	}

	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
	return out, nil
}

// Upsert patches the first record accepted by match, keeping its id, or
// creates item when nothing matches. The bool reports whether a record was created.
func (c *Collection[T]) Upsert(ctx context.Context, match func(T) bool, item T) (_ T, created bool, err error) {
	defer c.observe(opUpsert, time.Now(), &err)

	var zero T
	if err = wait(ctx, c.latency.Upsert); err != nil {
		return zero, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if match(existing) {
			c.items[i] = item.Clone().WithID(existing.GetID())
			return c.items[i].Clone(), false, nil
		}
	}
	return c.insert(item).Clone(), true, nil
}

// Len reports the current number of records without simulated latency.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// insert must be called with the write lock held.
func (c *Collection[T]) insert(item T) T {
	maxID := 0
	for _, existing := range c.items {
		if existing.GetID() > maxID {
			maxID = existing.GetID()
		}
	}

	item = item.Clone()
	if stamper, ok := any(item).(creationStamper[T]); ok {
		item = stamper.OnCreate(c.now())
	}
	item = item.WithID(maxID + 1)
	c.items = append(c.items, item)
	return item
}

func (c *Collection[T]) indexOf(id int) int {
	for i, item := range c.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) notFound() error {
	return errors.NewNotFound(c.name, nil)
}

func (c *Collection[T]) observe(op string, start time.Time, errp *error) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if *errp != nil {
		status = "error"
	}
	c.metrics.StoreOperations.WithLabelValues(c.name, op, status).Inc()
	c.metrics.StoreLatency.WithLabelValues(c.name, op).Observe(time.Since(start).Seconds())
	c.observeSize()
}

func (c *Collection[T]) observeSize() {
	if c.metrics == nil {
		return
	}
	c.metrics.StoreRecords.WithLabelValues(c.name).Set(float64(c.Len()))
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
