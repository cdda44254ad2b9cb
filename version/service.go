package version

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewID returns a record ID. Defaults to a random UUID.
	NewID func() string
}

// Service implements latest-version lookup and publishing.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// NewService returns a Service backed by repo.
func NewService(repo Repository, opts ServiceOptions) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{repo: repo, now: now, newID: newID}
}

// Latest returns the most recently created record, restricted to the given
// major line when major is non-empty.
func (s *Service) Latest(ctx context.Context, major string) (Record, error) {
	major, err := ParseMajorFilter(major)
	if err != nil {
		return Record{}, err
	}
	prefix := ""
	if major != "" {
		prefix = major + "."
	}
	record, err := s.repo.Latest(ctx, prefix)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

// PublishRequest describes a release to publish.
type PublishRequest struct {
	Version      string `json:"version"`
	Type         string `json:"type"`
	ReleaseNotes string `json:"releaseNotes"`

	// DownloadURL, when set, is stored on the record instead of the
	// inherited link.
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// PublishResult is the outcome of Publish.
type PublishResult struct {
	Record  Record
	Created bool
}

// Publish creates the record for req.Version or updates it in place.
//
// The download link is inherited from the x.0.0 record of the same major
// line. An existing record only has its link refreshed when that base record
// has one; a new record falls back to PlaceholderDownloadURL.
func (s *Service) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	version := strings.TrimSpace(req.Version)
	semver, err := ParseSemver(version)
	if err != nil {
		return PublishResult{}, err
	}
	releaseType, err := ParseType(req.Type)
	if err != nil {
		return PublishResult{}, err
	}
	notes := strings.TrimSpace(req.ReleaseNotes)
	if notes == "" {
		return PublishResult{}, ErrMissingReleaseNotes
	}
	explicitURL := strings.TrimSpace(req.DownloadURL)

	inherited := ""
	base, err := s.repo.Get(ctx, BaseVersion(semver.Major))
	switch {
	case err == nil:
		inherited = base.DownloadURL
	case !errors.Is(err, ErrNotFound):
		return PublishResult{}, fmt.Errorf("look up base version: %w", err)
	}

	now := s.now().UTC()
	existing, err := s.repo.Get(ctx, version)
	switch {
	case err == nil:
		existing.Type = releaseType
		existing.ReleaseNotes = notes
		if explicitURL != "" {
			existing.DownloadURL = explicitURL
		} else if inherited != "" {
			existing.DownloadURL = inherited
		}
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return PublishResult{}, fmt.Errorf("update version: %w", err)
		}
		return PublishResult{Record: existing}, nil
	case !errors.Is(err, ErrNotFound):
		return PublishResult{}, fmt.Errorf("look up version: %w", err)
	}

	downloadURL := PlaceholderDownloadURL
	switch {
	case explicitURL != "":
		downloadURL = explicitURL
	case inherited != "":
		downloadURL = inherited
	}
	record := Record{
		ID:           s.newID(),
		Version:      version,
		Type:         releaseType,
		ReleaseNotes: notes,
		DownloadURL:  downloadURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return PublishResult{}, fmt.Errorf("insert version: %w", err)
	}
	return PublishResult{Record: record, Created: true}, nil
}

// Unpublish deletes the record for an exact version.
func (s *Service) Unpublish(ctx context.Context, version string) error {
	version = strings.TrimSpace(version)
	if _, err := ParseSemver(version); err != nil {
		return err
	}
	return s.repo.Delete(ctx, version)
}
