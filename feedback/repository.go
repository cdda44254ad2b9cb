package feedback

import (
	"context"
	"sync"
)

// Repository persists feedback records.
type Repository interface {
	Insert(ctx context.Context, record Record) error

	// List returns every record, newest first.
	List(ctx context.Context) ([]Record, error)
}

// MemoryRepository keeps records in memory.
type MemoryRepository struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Walk backwards so equal creation times keep newest-inserted first.
	out := make([]Record, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		out = append(out, r.records[i])
	}
	sortNewestFirst(out)
	return out, nil
}
