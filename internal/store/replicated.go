package store

import (
	"context"
	"errors"
	"fmt"
)

// Home is one physical location of a replicated logical collection.
type Home struct {
	Store      Store
	Collection string
}

// Replicated is a multi-home write / merge-on-read collection. Every write
// fans out to all homes; reads merge all homes and de-duplicate by record id,
// first occurrence in home order winning on conflict. This is a deliberate
// resilience pattern against an unreliable storage layer: a record survives
// as long as at least one home does.
type Replicated struct {
	homes []Home
}

// NewReplicated creates a replicated collection over the given homes.
// Home order defines read precedence.
func NewReplicated(homes ...Home) *Replicated {
	return &Replicated{homes: homes}
}

// List merges all homes, de-duplicating by id. A home that fails to read
// contributes nothing; List only fails when every home fails.
func (r *Replicated) List(ctx context.Context) ([]Record, error) {
	var out []Record
	seen := make(map[string]bool)
	failures := 0
	var lastErr error

	for _, h := range r.homes {
		recs, err := h.Store.Get(ctx, h.Collection)
		if err != nil {
			failures++
			lastErr = err
			continue
		}
		for _, rec := range recs {
			id := RecordID(rec)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, rec)
		}
	}

	if failures == len(r.homes) && failures > 0 {
		return nil, fmt.Errorf("all %d homes failed: %w", failures, lastErr)
	}
	return out, nil
}

// GetByID returns the first-seen copy of the record across homes, or nil.
func (r *Replicated) GetByID(ctx context.Context, id string) (Record, error) {
	recs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if RecordID(rec) == id {
			return rec, nil
		}
	}
	return nil, nil
}

// Insert writes the record to every home. It succeeds when at least one home
// accepts the write; homes that fail are reported via the returned error only
// when all fail.
func (r *Replicated) Insert(ctx context.Context, rec Record) error {
	var errs []error
	for _, h := range r.homes {
		if _, err := h.Store.Insert(ctx, h.Collection, Clone(rec)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Collection, err))
		}
	}
	if len(errs) == len(r.homes) {
		return fmt.Errorf("insert failed in every home: %w", errors.Join(errs...))
	}
	return nil
}

// Update patches the record in every home that holds it. Status changes must
// reach all homes or a stale duplicate could reappear with the old state on
// the next merged read.
func (r *Replicated) Update(ctx context.Context, id string, patch Record) error {
	var errs []error
	for _, h := range r.homes {
		if err := h.Store.Update(ctx, h.Collection, Query{"id": id}, patch); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Collection, err))
		}
	}
	if len(errs) == len(r.homes) && len(errs) > 0 {
		return fmt.Errorf("update failed in every home: %w", errors.Join(errs...))
	}
	return nil
}

// Remove deletes the record from every home.
func (r *Replicated) Remove(ctx context.Context, id string) error {
	var errs []error
	for _, h := range r.homes {
		if err := h.Store.Remove(ctx, h.Collection, Query{"id": id}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Collection, err))
		}
	}
	if len(errs) == len(r.homes) && len(errs) > 0 {
		return fmt.Errorf("remove failed in every home: %w", errors.Join(errs...))
	}
	return nil
}
