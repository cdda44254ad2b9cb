package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"strconv"
	"strings"
	"time"
)

// HandleLength is the length of generated notification handles.
const HandleLength = 12

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length <= 0 {
		return ""
	}
	if length > len(encoded) {
		length = len(encoded)
	}
	return strings.ToLower(encoded[:length])
}

// Handle derives a notification handle from a seed and the scheduling time.
func Handle(seed string, at time.Time) string {
	return Generate(seed+at.Format(time.RFC3339Nano), HandleLength)
}

// Millis returns the Unix millisecond timestamp of at as a decimal string.
func Millis(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10)
}

// NextMillis returns the first millisecond ID at or after at that taken
// reports as free.
func NextMillis(at time.Time, taken func(string) bool) string {
	ms := at.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if taken == nil || !taken(id) {
			return id
		}
		ms++
	}
}
