package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"buy  milk", "buy milk"},
		{"\tbuy\nmilk  ", "buy milk"},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.input); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeLowerTrimSpace(t *testing.T) {
	if got := NormalizeLowerTrimSpace("  Buy MILK "); got != "buy milk" {
		t.Fatalf("expected %q, got %q", "buy milk", got)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t\n") {
		t.Error("expected whitespace to be blank")
	}
	if IsBlank(" x ") {
		t.Error("expected non-whitespace to be non-blank")
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc"); got != "a\nb\nc" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestTrimTrailing(t *testing.T) {
	if got := TrimTrailingNewlines("notes\r\n\n"); got != "notes" {
		t.Errorf("TrimTrailingNewlines = %q", got)
	}
	if got := TrimTrailingSlash("http://host//"); got != "http://host" {
		t.Errorf("TrimTrailingSlash = %q", got)
	}
}

func TestHasFoldedPrefix(t *testing.T) {
	tests := []struct {
		value  string
		prefix string
		want   bool
	}{
		{"Buy milk", "buy", true},
		{"Buy milk", "BUY M", true},
		{"Buy milk", "milk", false},
		{"Buy milk", "", true},
	}
	for _, tt := range tests {
		if got := HasFoldedPrefix(tt.value, tt.prefix); got != tt.want {
			t.Errorf("HasFoldedPrefix(%q, %q) = %v, want %v", tt.value, tt.prefix, got, tt.want)
		}
	}
}
