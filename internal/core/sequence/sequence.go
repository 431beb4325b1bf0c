// Package sequence issues human-readable sequential document numbers.
//
// Numbers have the shape PREFIX-00001. The counter is monotonic and persisted
// in the key-value side-store per prefix, so numbers are never reused after
// deletions and never collide under concurrent creates. (The original system
// derived the next number from the current collection size, which reuses
// numbers once records are deleted.)
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"shopbooks/internal/store"
)

const keyPrefix = "seq/"

// Generator issues persisted monotonic numbers per prefix.
type Generator struct {
	mu sync.Mutex
	kv store.KV
}

// New creates a generator backed by the given KV side-store.
func New(kv store.KV) *Generator {
	return &Generator{kv: kv}
}

// Next returns the next number for the prefix, e.g. "BILL-00042".
func (g *Generator) Next(ctx context.Context, prefix string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	current, err := g.read(ctx, prefix)
	if err != nil {
		return "", err
	}
	next := current + 1
	if err := g.write(ctx, prefix, next); err != nil {
		return "", fmt.Errorf("persist counter %s: %w", prefix, err)
	}
	return Format(prefix, next), nil
}

// SetNext sets the counter so the next issued number is value.
// Used when restoring a backup that contains higher numbers.
func (g *Generator) SetNext(ctx context.Context, prefix string, value int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if value < 1 {
		value = 1
	}
	return g.write(ctx, prefix, value-1)
}

// Bump raises the counter to at least value. Lower values are ignored, so
// replaying a backup can never move numbering backwards.
func (g *Generator) Bump(ctx context.Context, prefix string, value int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	current, err := g.read(ctx, prefix)
	if err != nil {
		return err
	}
	if value <= current {
		return nil
	}
	return g.write(ctx, prefix, value)
}

func (g *Generator) read(ctx context.Context, prefix string) (int64, error) {
	data, ok, err := g.kv.Get(ctx, keyPrefix+prefix)
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", prefix, err)
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", prefix, err)
	}
	return v, nil
}

func (g *Generator) write(ctx context.Context, prefix string, value int64) error {
	return g.kv.Set(ctx, keyPrefix+prefix, []byte(strconv.FormatInt(value, 10)))
}

// Format renders a number in the canonical PREFIX-00001 shape.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// ParseNumber extracts the numeric part of a formatted number.
// Returns 0 when the string does not carry the expected shape.
func ParseNumber(prefix, number string) int64 {
	var n int64
	if _, err := fmt.Sscanf(number, prefix+"-%d", &n); err != nil {
		return 0
	}
	return n
}
