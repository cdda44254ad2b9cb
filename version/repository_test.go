package version

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/amonks/remindme/internal/db"
)

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) Repository {
		return NewMemoryRepository()
	})
}

func TestPostgresRepository(t *testing.T) {
	url := os.Getenv("REMINDME_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("REMINDME_TEST_DATABASE_URL not set")
	}

	testRepository(t, func(t *testing.T) Repository {
		conn, err := db.Open(t.Context(), url)
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		t.Cleanup(func() { conn.Close() })

		repo := NewPostgresRepository(conn)
		if err := repo.EnsureSchema(t.Context()); err != nil {
			t.Fatalf("ensure schema: %v", err)
		}
		if _, err := conn.ExecContext(t.Context(), `TRUNCATE app_versions`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return repo
	})
}

func testRepository(t *testing.T, newRepo func(t *testing.T) Repository) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	record := func(version string, offset time.Duration) Record {
		return Record{
			ID:           "id-" + version,
			Version:      version,
			Type:         TypeMinor,
			ReleaseNotes: "notes " + version,
			CreatedAt:    base.Add(offset),
			UpdatedAt:    base.Add(offset),
		}
	}

	t.Run("latest by creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for _, r := range []Record{
			record("1.0.0", 0),
			record("2.0.0", 2*time.Hour),
			record("1.2.0", time.Hour),
		} {
			if err := repo.Insert(ctx, r); err != nil {
				t.Fatalf("insert %s: %v", r.Version, err)
			}
		}

		got, err := repo.Latest(ctx, "")
		if err != nil || got.Version != "2.0.0" {
			t.Fatalf("Latest(\"\") = %v, %v; want 2.0.0", got.Version, err)
		}
		got, err = repo.Latest(ctx, "1.")
		if err != nil || got.Version != "1.2.0" {
			t.Fatalf("Latest(\"1.\") = %v, %v; want 1.2.0", got.Version, err)
		}
		if _, err := repo.Latest(ctx, "3."); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Latest(\"3.\") error = %v, want ErrNotFound", err)
		}
	})

	t.Run("prefix does not match longer majors", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Insert(ctx, record("10.0.0", 0)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if _, err := repo.Latest(ctx, "1."); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Latest(\"1.\") error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ties go to the later insert", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for _, v := range []string{"1.0.1", "1.0.2"} {
			if err := repo.Insert(ctx, record(v, 0)); err != nil {
				t.Fatalf("insert %s: %v", v, err)
			}
		}
		got, err := repo.Latest(ctx, "1.")
		if err != nil || got.Version != "1.0.2" {
			t.Fatalf("Latest = %v, %v; want 1.0.2", got.Version, err)
		}
	})

	t.Run("duplicate insert", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Insert(ctx, record("1.0.0", 0)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		dup := record("1.0.0", time.Hour)
		dup.ID = "other"
		if err := repo.Insert(ctx, dup); !errors.Is(err, ErrDuplicateVersion) {
			t.Fatalf("duplicate insert error = %v, want ErrDuplicateVersion", err)
		}
	})

	t.Run("update and get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		original := record("1.0.0", 0)
		if err := repo.Insert(ctx, original); err != nil {
			t.Fatalf("insert: %v", err)
		}

		changed := original
		changed.Type = TypePatch
		changed.ReleaseNotes = "fixed"
		changed.DownloadURL = "https://example.com/app.apk"
		changed.UpdatedAt = base.Add(time.Hour)
		if err := repo.Update(ctx, changed); err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := repo.Get(ctx, "1.0.0")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Type != TypePatch || got.ReleaseNotes != "fixed" || got.DownloadURL != changed.DownloadURL {
			t.Fatalf("unexpected record after update: %#v", got)
		}
		if !got.CreatedAt.Equal(original.CreatedAt) || !got.UpdatedAt.Equal(changed.UpdatedAt) {
			t.Fatalf("unexpected timestamps: %v %v", got.CreatedAt, got.UpdatedAt)
		}

		missing := record("9.9.9", 0)
		if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
			t.Fatalf("update missing error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Insert(ctx, record("1.0.0", 0)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := repo.Delete(ctx, "1.0.0"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.Get(ctx, "1.0.0"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("get after delete error = %v, want ErrNotFound", err)
		}
		if err := repo.Delete(ctx, "1.0.0"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete error = %v, want ErrNotFound", err)
		}
	})
}
