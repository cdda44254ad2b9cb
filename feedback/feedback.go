// Package feedback collects user feedback submissions.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/remindme/internal/validation"
)

// Type categorizes a submission.
type Type string

const (
	TypeBugReport Type = "Bug Report"
	TypeFeedback  Type = "Feedback"
	TypeOther     Type = "Other"
)

var (
	// ErrInvalidType is returned for a type outside the known categories.
	ErrInvalidType = errors.New("invalid feedback type")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("missing required field")
)

// Record is a stored submission.
type Record struct {
	ID         string    `json:"_id"`
	Type       Type      `json:"type"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Text       string    `json:"text"`
	Timestamp  int64     `json:"timestamp"`
	Platform   string    `json:"platform"`
	Version    string    `json:"version,omitempty"`
	DeviceInfo string    `json:"deviceInfo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Submission is what a client sends.
type Submission struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	Platform   string `json:"platform"`
	Version    string `json:"version,omitempty"`
	DeviceInfo string `json:"deviceInfo,omitempty"`
}

// ParseType matches value against the known categories, ignoring case.
func ParseType(value string) (Type, error) {
	value = strings.TrimSpace(value)
	types := []Type{TypeBugReport, TypeFeedback, TypeOther}
	for _, t := range types {
		if strings.EqualFold(value, string(t)) {
			return t, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrInvalidType, Type(value), types)
}

// Validate checks the submission and returns it with whitespace trimmed.
func (s Submission) Validate() (Submission, error) {
	t, err := ParseType(s.Type)
	if err != nil {
		return Submission{}, err
	}
	s.Type = string(t)
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Text = strings.TrimSpace(s.Text)
	s.Platform = strings.TrimSpace(s.Platform)
	s.Version = strings.TrimSpace(s.Version)
	s.DeviceInfo = strings.TrimSpace(s.DeviceInfo)

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"text", s.Text},
		{"platform", s.Platform},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if s.Timestamp <= 0 {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return Submission{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return s, nil
}
