package store

import (
	"context"
	"time"
)

// Timeout wraps a Store so every call carries a deadline. The original system
// had no timeout at the storage boundary, so a stalled store call hung the
// operation forever; this guard bounds each call instead.
type Timeout struct {
	inner Store
	limit time.Duration
}

// WithTimeout wraps a store with a per-operation deadline.
func WithTimeout(inner Store, limit time.Duration) *Timeout {
	return &Timeout{inner: inner, limit: limit}
}

func (t *Timeout) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.limit)
}

func (t *Timeout) Get(ctx context.Context, collection string) ([]Record, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Get(ctx, collection)
}

func (t *Timeout) GetOne(ctx context.Context, collection string, query Query) (Record, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.GetOne(ctx, collection, query)
}

func (t *Timeout) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Insert(ctx, collection, rec)
}

func (t *Timeout) Update(ctx context.Context, collection string, query Query, patch Record) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Update(ctx, collection, query, patch)
}

func (t *Timeout) Remove(ctx context.Context, collection string, query Query) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Remove(ctx, collection, query)
}

func (t *Timeout) Set(ctx context.Context, collection string, recs []Record) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Set(ctx, collection, recs)
}

func (t *Timeout) Count(ctx context.Context, collection string) (int, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Count(ctx, collection)
}

var _ Store = (*Timeout)(nil)
