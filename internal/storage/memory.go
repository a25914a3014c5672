package storage

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
)

// MemoryRepository is a mutex-guarded in-memory store. It is the default
// dev backend and the fixture for handler and service tests.
type MemoryRepository struct {
	mu    sync.Mutex
	seq   int64
	items []memoryEntry
}

type memoryEntry struct {
	tx  core.Transaction
	seq int64 // creation order, breaks date ties in List
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(_ context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append([]memoryEntry(nil), r.items...)
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].tx.Date.Equal(entries[j].tx.Date.Time) {
			return entries[i].tx.Date.After(entries[j].tx.Date.Time)
		}
		return entries[i].seq > entries[j].seq
	})

	out := make([]core.Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.tx
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.items {
		if e.tx.ID == id {
			return e.tx, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (r *MemoryRepository) Create(_ context.Context, tx core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.items = append(r.items, memoryEntry{tx: tx, seq: r.seq})
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, tx core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.items {
		if e.tx.ID == tx.ID {
			r.items[i].tx = tx
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.items {
		if e.tx.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) Close() error { return nil }
