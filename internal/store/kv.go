package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is a simple key-value side-store, kept separate from the main record
// store. It carries auxiliary state (backup history, sequence counters) and
// acts as the third replication home for trade instruments.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV is an in-process KV implementation with optional file persistence.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty KV side-store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// SaveFile writes the KV state as JSON to path.
func (m *MemoryKV) SaveFile(path string) error {
	m.mu.RLock()
	state := make(map[string]json.RawMessage, len(m.data))
	for k, v := range m.data {
		state[k] = json.RawMessage(v)
	}
	m.mu.RUnlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal kv state: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write kv state: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadFile loads KV state from a JSON file. A missing file is not an error.
func (m *MemoryKV) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read kv state: %w", err)
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse kv state: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte, len(state))
	for k, v := range state {
		m.data[k] = []byte(v)
	}
	return nil
}

// KVStore adapts a KV into the Store interface: each collection lives under a
// single key as a JSON array of records. This mirrors how the original system
// kept collection replicas in browser localStorage.
type KVStore struct {
	kv     KV
	prefix string
}

// NewKVStore wraps a KV as a record store. Keys are "<prefix><collection>".
func NewKVStore(kv KV, prefix string) *KVStore {
	return &KVStore{kv: kv, prefix: prefix}
}

func (s *KVStore) key(collection string) string {
	return s.prefix + collection
}

func (s *KVStore) load(ctx context.Context, collection string) ([]Record, error) {
	data, ok, err := s.kv.Get(ctx, s.key(collection))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse collection %s: %w", collection, err)
	}
	return recs, nil
}

func (s *KVStore) save(ctx context.Context, collection string, recs []Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", collection, err)
	}
	return s.kv.Set(ctx, s.key(collection), data)
}

func (s *KVStore) Get(ctx context.Context, collection string) ([]Record, error) {
	return s.load(ctx, collection)
}

func (s *KVStore) GetOne(ctx context.Context, collection string, query Query) (Record, error) {
	recs, err := s.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if Matches(r, query) {
			return r, nil
		}
	}
	return nil, nil
}

func (s *KVStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	recs, err := s.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	recs = append(recs, Clone(rec))
	if err := s.save(ctx, collection, recs); err != nil {
		return nil, err
	}
	return Clone(rec), nil
}

func (s *KVStore) Update(ctx context.Context, collection string, query Query, patch Record) error {
	recs, err := s.load(ctx, collection)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if Matches(r, query) {
			for k, v := range patch {
				r[k] = v
			}
		}
	}
	return s.save(ctx, collection, recs)
}

func (s *KVStore) Remove(ctx context.Context, collection string, query Query) error {
	recs, err := s.load(ctx, collection)
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if !Matches(r, query) {
			kept = append(kept, r)
		}
	}
	return s.save(ctx, collection, kept)
}

func (s *KVStore) Set(ctx context.Context, collection string, recs []Record) error {
	return s.save(ctx, collection, recs)
}

func (s *KVStore) Count(ctx context.Context, collection string) (int, error) {
	recs, err := s.load(ctx, collection)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

var _ Store = (*KVStore)(nil)
var _ Store = (*Memory)(nil)
