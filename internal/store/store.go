// Package store provides the record store abstraction the bookkeeping core is
// built on: named collections of loosely-typed records. Implementations must
// tolerate collections that do not exist yet by returning empty results.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record is a schemaless document held in a named collection.
type Record = map[string]any

// Query matches records by field equality. A nil or empty query matches all.
type Query = map[string]any

// Store is the record store contract consumed by the core.
type Store interface {
	// Get returns every record in a collection. Unknown collections yield
	// an empty slice, not an error.
	Get(ctx context.Context, collection string) ([]Record, error)

	// GetOne returns the first record matching the query, or nil when no
	// record matches.
	GetOne(ctx context.Context, collection string, query Query) (Record, error)

	// Insert appends a record and returns it.
	Insert(ctx context.Context, collection string, rec Record) (Record, error)

	// Update applies the patch to every record matching the query.
	Update(ctx context.Context, collection string, query Query, patch Record) error

	// Remove deletes every record matching the query.
	Remove(ctx context.Context, collection string, query Query) error

	// Set replaces the whole collection.
	Set(ctx context.Context, collection string, recs []Record) error

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)
}

// Matches reports whether the record satisfies the query by field equality.
// Values are compared after JSON normalization so int/float64 mismatches from
// deserialized data do not break matching.
func Matches(rec Record, query Query) bool {
	for k, want := range query {
		got, ok := rec[k]
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}

// Encode converts a typed value into a Record via JSON round-trip.
func Encode(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Decode fills a typed value from a Record via JSON round-trip.
func Decode(rec Record, v any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// Clone deep-copies a record so callers cannot alias store-held state.
func Clone(rec Record) Record {
	if rec == nil {
		return nil
	}
	out, err := Encode(rec)
	if err != nil {
		// Records are JSON-shaped by construction; a clone failure means a
		// caller stored a non-serializable value.
		panic(fmt.Sprintf("store: record not cloneable: %v", err))
	}
	return out
}

// StringField reads a string field from a record, empty when absent.
func StringField(rec Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

// RecordID returns the record's identity, checking "id" then "_id".
func RecordID(rec Record) string {
	if v := StringField(rec, "id"); v != "" {
		return v
	}
	return StringField(rec, "_id")
}
