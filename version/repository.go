package version

import "context"

// Repository persists version records.
type Repository interface {
	// Latest returns the newest record whose version starts with prefix.
	// An empty prefix matches every record. Returns ErrNotFound if none match.
	Latest(ctx context.Context, prefix string) (Record, error)

	// Get returns the record for an exact version or ErrNotFound.
	Get(ctx context.Context, version string) (Record, error)

	// Insert adds a new record. Returns ErrDuplicateVersion if the version exists.
	Insert(ctx context.Context, record Record) error

	// Update replaces the type, release notes, download URL and update time
	// of an existing record. Returns ErrNotFound if it doesn't exist.
	Update(ctx context.Context, record Record) error

	// Delete removes the record for an exact version or returns ErrNotFound.
	Delete(ctx context.Context, version string) error
}
