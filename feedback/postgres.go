package feedback

import (
	"context"
	"database/sql"
	"fmt"
)

const feedbackSchema = `
CREATE TABLE IF NOT EXISTS feedback (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	type        TEXT NOT NULL,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	body        TEXT NOT NULL,
	sent_at_ms  BIGINT NOT NULL,
	platform    TEXT NOT NULL,
	version     TEXT NOT NULL DEFAULT '',
	device_info TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

// PostgresRepository stores records in the feedback table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// EnsureSchema creates the feedback table if it doesn't exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, feedbackSchema); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, record Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback
		 (id, type, name, email, body, sent_at_ms, platform, version, device_info, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		record.ID,
		string(record.Type),
		record.Name,
		record.Email,
		record.Text,
		record.Timestamp,
		record.Platform,
		record.Version,
		record.DeviceInfo,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, name, email, body, sent_at_ms, platform, version, device_info, created_at, updated_at
		 FROM feedback
		 ORDER BY created_at DESC, seq DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var record Record
		var feedbackType string
		if err := rows.Scan(
			&record.ID,
			&feedbackType,
			&record.Name,
			&record.Email,
			&record.Text,
			&record.Timestamp,
			&record.Platform,
			&record.Version,
			&record.DeviceInfo,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		record.Type = Type(feedbackType)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read feedback: %w", err)
	}
	return records, nil
}
