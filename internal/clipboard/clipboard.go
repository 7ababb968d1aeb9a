// Package clipboard copies generated strings to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is available.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Writer abstracts writing text to a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System writes to the desktop clipboard.
type System struct{}

// Supported reports whether a clipboard backend was found on this system.
func (System) Supported() bool {
	return !clipboard.Unsupported
}

// WriteAll replaces the clipboard contents with text.
func (s System) WriteAll(text string) error {
	if !s.Supported() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Copy writes text through w, wrapping failures in ErrUnavailable.
func Copy(w Writer, text string) error {
	if w == nil {
		return ErrUnavailable
	}
	if err := w.WriteAll(text); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
