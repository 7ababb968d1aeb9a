// Package entropy fills random buffers. Bytes come from an OS random source
// when one is available; pointer-motion sampling can be folded in on top, and
// is mandatory when the OS source fails.
package entropy

import (
	"fmt"
	"io"

	"github.com/eykd/stringgen-go/internal/domain"
)

// RandomSource abstracts a cryptographically secure byte source.
// crypto/rand.Reader satisfies it.
type RandomSource interface {
	Read(p []byte) (int, error)
}

// Acquire allocates a buffer of length bytes and fills it from src.
//
// If src is nil, fails, or returns short, the buffer is returned zeroed with
// fallbackRequired set; cause carries the read error for diagnostics and is
// nil when src is nil. Acquire makes a single attempt and never retries.
func Acquire(src RandomSource, length int) (buf domain.RandomBuffer, fallbackRequired bool, cause error) {
	buf = make(domain.RandomBuffer, length)
	if src == nil {
		return buf, true, nil
	}
	if _, err := io.ReadFull(src, buf); err != nil {
		buf.Wipe()
		return buf, true, fmt.Errorf("reading OS random source: %w", err)
	}
	return buf, false, nil
}
