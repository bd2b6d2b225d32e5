// Package httputil holds helpers shared by the outbound HTTP clients.
package httputil

import (
	"io"
	"unicode/utf8"
)

// MaxErrorBody bounds the response body kept for diagnostics.
const MaxErrorBody = 512

// ReadErrorBody reads at most MaxErrorBody bytes of r (plus one to detect
// overflow) and returns them truncated. Read errors yield what was read.
func ReadErrorBody(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, MaxErrorBody+1))
	return Truncate(b)
}

// Truncate cuts b to MaxErrorBody bytes on a rune boundary and marks the cut with "...".
func Truncate(b []byte) string {
	if len(b) <= MaxErrorBody {
		return string(b)
	}
	cut := MaxErrorBody
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
