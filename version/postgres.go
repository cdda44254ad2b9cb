package version

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amonks/remindme/internal/db"
)

const versionSchema = `
CREATE TABLE IF NOT EXISTS app_versions (
	seq           BIGSERIAL PRIMARY KEY,
	id            TEXT NOT NULL UNIQUE,
	version       TEXT NOT NULL UNIQUE,
	type          TEXT NOT NULL,
	release_notes TEXT NOT NULL,
	download_url  TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`

const versionColumns = `id, version, type, release_notes, download_url, created_at, updated_at`

// PostgresRepository stores records in the app_versions table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a repository using conn.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// EnsureSchema creates the app_versions table if it doesn't exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, versionSchema); err != nil {
		return fmt.Errorf("create app_versions: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Latest(ctx context.Context, prefix string) (Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+`
		 FROM app_versions
		 WHERE version LIKE $1
		 ORDER BY created_at DESC, seq DESC
		 LIMIT 1`,
		db.LikePrefix(prefix),
	)
	return scanRecord(row)
}

func (r *PostgresRepository) Get(ctx context.Context, version string) (Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM app_versions WHERE version = $1`,
		version,
	)
	record, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s", err, version)
	}
	return record, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, record Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_versions (`+versionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.Version,
		string(record.Type),
		record.ReleaseNotes,
		record.DownloadURL,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateVersion, record.Version)
	}
	if err != nil {
		return fmt.Errorf("insert app version: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, record Record) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE app_versions
		 SET type = $2, release_notes = $3, download_url = $4, updated_at = $5
		 WHERE version = $1`,
		record.Version,
		string(record.Type),
		record.ReleaseNotes,
		record.DownloadURL,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update app version: %w", err)
	}
	return requireAffected(result, record.Version)
}

func (r *PostgresRepository) Delete(ctx context.Context, version string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM app_versions WHERE version = $1`, version)
	if err != nil {
		return fmt.Errorf("delete app version: %w", err)
	}
	return requireAffected(result, version)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var record Record
	var releaseType string
	err := row.Scan(
		&record.ID,
		&record.Version,
		&releaseType,
		&record.ReleaseNotes,
		&record.DownloadURL,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan app version: %w", err)
	}
	record.Type = Type(releaseType)
	return record, nil
}

func requireAffected(result sql.Result, version string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, version)
	}
	return nil
}
