package feedback

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Now   func() time.Time
	NewID func() string
}

// Service validates and stores submissions.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

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

// Submit validates and stores a submission.
func (s *Service) Submit(ctx context.Context, submission Submission) (Record, error) {
	valid, err := submission.Validate()
	if err != nil {
		return Record{}, err
	}

	now := s.now().UTC()
	record := Record{
		ID:         s.newID(),
		Type:       Type(valid.Type),
		Name:       valid.Name,
		Email:      valid.Email,
		Text:       valid.Text,
		Timestamp:  valid.Timestamp,
		Platform:   valid.Platform,
		Version:    valid.Version,
		DeviceInfo: valid.DeviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return Record{}, fmt.Errorf("store feedback: %w", err)
	}
	return record, nil
}

// List returns every submission, newest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return records, nil
}

func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
