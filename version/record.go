// Package version resolves which published app release a client should see.
//
// Records are keyed by their exact "major.minor.patch" string. The x.0.0
// record of each major line carries the authoritative download link for the
// whole line; other releases inherit it when they are published.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/remindme/internal/validation"
)

// PlaceholderDownloadURL marks a record with no binary available yet.
const PlaceholderDownloadURL = "https://drive.google.com/placeholder"

// Type classifies a release.
type Type string

const (
	TypeMajor Type = "major"
	TypeMinor Type = "minor"
	TypePatch Type = "patch"
)

var (
	// ErrInvalidFormat is returned for version strings that aren't x.y.z.
	ErrInvalidFormat = errors.New("invalid version format. Use x.y.z format")

	// ErrVersionOutOfRange is returned for a well-formed version whose
	// components don't fit in an int.
	ErrVersionOutOfRange = errors.New("version component out of range")

	// ErrInvalidType is returned for a release type outside major|minor|patch.
	ErrInvalidType = errors.New("invalid release type")

	// ErrMissingReleaseNotes is returned when publishing without notes.
	ErrMissingReleaseNotes = errors.New("release notes are required")

	// ErrInvalidMajor is returned for a major filter that isn't a non-negative integer.
	ErrInvalidMajor = errors.New("major version must be a non-negative integer")

	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("no version found")

	// ErrDuplicateVersion is returned by repositories when inserting an existing version.
	ErrDuplicateVersion = errors.New("version already exists")
)

// Record is one published release.
type Record struct {
	ID           string    `json:"_id"`
	Version      string    `json:"version"`
	Type         Type      `json:"type"`
	ReleaseNotes string    `json:"releaseNotes"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Semver is a parsed major.minor.patch version.
type Semver struct {
	Major int
	Minor int
	Patch int
}

// Components have no leading zeros, so each major line has exactly one
// spelling and "1." prefix lookups find all of it.
var semverPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)$`)

// ParseSemver parses an x.y.z version string.
func ParseSemver(value string) (Semver, error) {
	if !semverPattern.MatchString(value) {
		return Semver{}, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	parts := strings.Split(value, ".")
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Semver{}, fmt.Errorf("%w: %q", ErrVersionOutOfRange, value)
		}
		nums[i] = n
	}
	return Semver{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Semver) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Major returns the leading integer component of a version string.
// Only the major component needs to be numeric.
func Major(value string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(value), ".")
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 || head == "" || head[0] == '+' || head[0] == '-' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	return n, nil
}

// BaseVersion returns the x.0.0 version of a major line.
func BaseVersion(major int) string {
	return fmt.Sprintf("%d.0.0", major)
}

// ParseMajorFilter validates a major filter. The empty string means no filter.
func ParseMajorFilter(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidMajor, value)
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMajor, value)
	}
	return strconv.Itoa(n), nil
}

// ParseType validates a release type.
func ParseType(value string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(value))); t {
	case TypeMajor, TypeMinor, TypePatch:
		return t, nil
	default:
		return "", validation.FormatInvalidValueError(ErrInvalidType, Type(value), []Type{TypeMajor, TypeMinor, TypePatch})
	}
}

// IsRealDownloadURL reports whether url points at an actual binary.
func IsRealDownloadURL(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != PlaceholderDownloadURL
}
