package domain

import (
	"errors"
	"fmt"
)

// Length bounds for a generated string.
const (
	MinLength = 1
	MaxLength = 255
)

// ErrInvalidLength is returned when a requested length is outside
// MinLength..MaxLength.
var ErrInvalidLength = errors.New("length must be between 1 and 255")

// RandomBuffer holds the raw bytes of one generation request. It is created
// by the entropy selector, mixed in place, and finally mapped to text.
type RandomBuffer []byte

// Wipe zeroes the buffer.
func (b RandomBuffer) Wipe() {
	clear(b)
}

// ValidateLength checks that n is a valid output length.
func ValidateLength(n int) error {
	if n < MinLength || n > MaxLength {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, n)
	}
	return nil
}

// GenerationConfig is the caller-owned request for one generated string.
type GenerationConfig struct {
	Length  int
	Classes ClassSelection
	// Motion requests pointer-motion mixing even when the OS source works.
	Motion bool
}

// Validate checks the class selection first, then the length, so that an
// empty selection is always reported as ErrEmptyAlphabet.
func (c GenerationConfig) Validate() error {
	if c.Classes.Empty() {
		return ErrEmptyAlphabet
	}
	return ValidateLength(c.Length)
}
