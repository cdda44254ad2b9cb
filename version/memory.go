package version

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryRepository keeps records in memory, in insertion order.
type MemoryRepository struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Latest(ctx context.Context, prefix string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	best := -1
	for i, record := range r.records {
		if !strings.HasPrefix(record.Version, prefix) {
			continue
		}
		// Later insertions win ties.
		if best < 0 || !record.CreatedAt.Before(r.records[best].CreatedAt) {
			best = i
		}
	}
	if best < 0 {
		return Record{}, ErrNotFound
	}
	return r.records[best], nil
}

func (r *MemoryRepository) Get(ctx context.Context, version string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexLocked(version); i >= 0 {
		return r.records[i], nil
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, version)
}

func (r *MemoryRepository) Insert(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(record.Version) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateVersion, record.Version)
	}
	r.records = append(r.records, record)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(record.Version)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, record.Version)
	}
	existing := &r.records[i]
	existing.Type = record.Type
	existing.ReleaseNotes = record.ReleaseNotes
	existing.DownloadURL = record.DownloadURL
	existing.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(version)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, version)
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func (r *MemoryRepository) indexLocked(version string) int {
	for i := range r.records {
		if r.records[i].Version == version {
			return i
		}
	}
	return -1
}
