package validation

import (
	"errors"
	"testing"
)

type releaseKind string

const (
	kindMajor releaseKind = "major"
	kindMinor releaseKind = "minor"
)

func TestFormatValidValues(t *testing.T) {
	got := FormatValidValues([]releaseKind{kindMajor, kindMinor})
	if got != "major, minor" {
		t.Fatalf("expected %q, got %q", "major, minor", got)
	}
	if got := FormatValidValues([]releaseKind(nil)); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	base := errors.New("invalid release type")
	err := FormatInvalidValueError(base, releaseKind("huge"), []releaseKind{kindMajor, kindMinor})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := "invalid release type: \"huge\" (valid: major, minor)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
