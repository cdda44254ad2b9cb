package version

import (
	"errors"
	"testing"
)

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in      string
		want    Semver
		wantErr bool
	}{
		{in: "1.2.3", want: Semver{1, 2, 3}},
		{in: "10.0.0", want: Semver{10, 0, 0}},
		{in: "1.3", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "v1.2.3", wantErr: true},
		{in: "1.2.x", wantErr: true},
		{in: "", wantErr: true},
		{in: "01.2.0", wantErr: true},
		{in: "1.02.0", wantErr: true},
		{in: "1.0.00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSemver(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("ParseSemver(%q) error = %v, want ErrInvalidFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSemver(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseSemver(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Fatalf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestParseSemverOutOfRange(t *testing.T) {
	_, err := ParseSemver("99999999999999999999.0.0")
	if !errors.Is(err, ErrVersionOutOfRange) {
		t.Fatalf("error = %v, want ErrVersionOutOfRange", err)
	}
	if errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("well-formed version reported as malformed: %v", err)
	}
}

func TestMajor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1.2.3", want: 1},
		{in: "2", want: 2},
		{in: "12.0.0-beta", want: 12},
		{in: "x.1.0", wantErr: true},
		{in: "-1.0.0", wantErr: true},
		{in: "+1.0.0", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Major(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Major(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("Major(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestParseMajorFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: " 2 ", want: "2"},
		{in: "007", want: "7"},
		{in: "-1", wantErr: true},
		{in: "1.0", wantErr: true},
		{in: "one", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMajorFilter(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMajor) {
				t.Fatalf("ParseMajorFilter(%q) error = %v, want ErrInvalidMajor", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseMajorFilter(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	for _, in := range []string{"major", "Minor", " patch "} {
		if _, err := ParseType(in); err != nil {
			t.Fatalf("ParseType(%q): %v", in, err)
		}
	}
	if _, err := ParseType("hotfix"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestIsRealDownloadURL(t *testing.T) {
	if IsRealDownloadURL("") {
		t.Fatal("empty url is not real")
	}
	if IsRealDownloadURL(PlaceholderDownloadURL) {
		t.Fatal("placeholder is not real")
	}
	if !IsRealDownloadURL("https://example.com/app.apk") {
		t.Fatal("expected real url")
	}
}
