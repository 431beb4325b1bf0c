package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Memory is an in-process record store backed by per-collection slices.
// It is safe for concurrent use. Snapshot/Load make the whole state
// JSON-serialisable for file persistence.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Record)}
}

func (m *Memory) Get(ctx context.Context, collection string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.collections[collection]
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, Clone(r))
	}
	return out, nil
}

func (m *Memory) GetOne(ctx context.Context, collection string, query Query) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.collections[collection] {
		if Matches(r, query) {
			return Clone(r), nil
		}
	}
	return nil, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := Clone(rec)
	m.collections[collection] = append(m.collections[collection], stored)
	return Clone(stored), nil
}

func (m *Memory) Update(ctx context.Context, collection string, query Query, patch Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.collections[collection] {
		if Matches(r, query) {
			for k, v := range Clone(patch) {
				r[k] = v
			}
		}
	}
	return nil
}

func (m *Memory) Remove(ctx context.Context, collection string, query Query) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.collections[collection]
	kept := recs[:0]
	for _, r := range recs {
		if !Matches(r, query) {
			kept = append(kept, r)
		}
	}
	m.collections[collection] = kept
	return nil
}

func (m *Memory) Set(ctx context.Context, collection string, recs []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]Record, 0, len(recs))
	for _, r := range recs {
		stored = append(stored, Clone(r))
	}
	m.collections[collection] = stored
	return nil
}

func (m *Memory) Count(ctx context.Context, collection string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection]), nil
}

// Collections returns the names of non-empty collections, sorted.
func (m *Memory) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name, recs := range m.collections {
		if len(recs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a deep copy of the whole store state.
func (m *Memory) Snapshot() map[string][]Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]Record, len(m.collections))
	for name, recs := range m.collections {
		copied := make([]Record, 0, len(recs))
		for _, r := range recs {
			copied = append(copied, Clone(r))
		}
		out[name] = copied
	}
	return out
}

// LoadSnapshot replaces the whole store state.
func (m *Memory) LoadSnapshot(state map[string][]Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collections = make(map[string][]Record, len(state))
	for name, recs := range state {
		copied := make([]Record, 0, len(recs))
		for _, r := range recs {
			copied = append(copied, Clone(r))
		}
		m.collections[name] = copied
	}
}

// SaveFile writes the store state as JSON to path, creating parent dirs.
func (m *Memory) SaveFile(path string) error {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store state: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store state: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadFile loads the store state from a JSON file. A missing file leaves the
// store empty.
func (m *Memory) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store state: %w", err)
	}
	var state map[string][]Record
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse store state: %w", err)
	}
	m.LoadSnapshot(state)
	return nil
}
