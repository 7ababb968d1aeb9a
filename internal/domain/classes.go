// Package domain holds the character classes, alphabets and buffers that the
// generator works on. It has no dependencies outside the standard library.
package domain

import (
	"fmt"
	"strings"
)

// Class identifies one character class.
type Class int

const (
	// ClassNumbers is the decimal digits.
	ClassNumbers Class = iota
	// ClassLowercase is the ASCII lowercase letters.
	ClassLowercase
	// ClassUppercase is the ASCII uppercase letters.
	ClassUppercase
	// ClassSpecial is the punctuation set, including the space character.
	ClassSpecial
)

// Character tables, in canonical order.
const (
	Numbers   = "0123456789"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Special   = " -~!@#$%^&*_+=`|(){}[:;\"'<>,.?]"
)

// AllClasses lists every class in the order alphabets are assembled.
var AllClasses = []Class{ClassNumbers, ClassLowercase, ClassUppercase, ClassSpecial}

// String returns the configuration name of the class.
func (c Class) String() string {
	switch c {
	case ClassNumbers:
		return "numbers"
	case ClassLowercase:
		return "lowercase"
	case ClassUppercase:
		return "uppercase"
	case ClassSpecial:
		return "special"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Chars returns the character table for the class.
func (c Class) Chars() string {
	switch c {
	case ClassNumbers:
		return Numbers
	case ClassLowercase:
		return Lowercase
	case ClassUppercase:
		return Uppercase
	case ClassSpecial:
		return Special
	default:
		return ""
	}
}

// ParseClass converts a configuration name into a Class. A few short aliases
// are accepted so that environment variables stay terse.
func ParseClass(name string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "numbers", "digits", "d":
		return ClassNumbers, nil
	case "lowercase", "lower", "l":
		return ClassLowercase, nil
	case "uppercase", "upper", "u":
		return ClassUppercase, nil
	case "special", "symbols", "s":
		return ClassSpecial, nil
	default:
		return 0, fmt.Errorf("unknown character class %q", name)
	}
}

// ClassSelection records which classes a caller asked for.
type ClassSelection struct {
	Numbers   bool
	Lowercase bool
	Uppercase bool
	Special   bool
}

// SelectionOf builds a ClassSelection from a list of classes. Duplicates and
// ordering have no effect.
func SelectionOf(classes ...Class) ClassSelection {
	var s ClassSelection
	for _, c := range classes {
		s = s.With(c)
	}
	return s
}

// With returns a copy of s with class c selected.
func (s ClassSelection) With(c Class) ClassSelection {
	switch c {
	case ClassNumbers:
		s.Numbers = true
	case ClassLowercase:
		s.Lowercase = true
	case ClassUppercase:
		s.Uppercase = true
	case ClassSpecial:
		s.Special = true
	}
	return s
}

// Has reports whether class c is selected.
func (s ClassSelection) Has(c Class) bool {
	switch c {
	case ClassNumbers:
		return s.Numbers
	case ClassLowercase:
		return s.Lowercase
	case ClassUppercase:
		return s.Uppercase
	case ClassSpecial:
		return s.Special
	default:
		return false
	}
}

// Empty reports whether no class is selected.
func (s ClassSelection) Empty() bool {
	return !s.Numbers && !s.Lowercase && !s.Uppercase && !s.Special
}

// Classes returns the selected classes in canonical order.
func (s ClassSelection) Classes() []Class {
	var out []Class
	for _, c := range AllClasses {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the configuration names of the selected classes.
func (s ClassSelection) Names() []string {
	classes := s.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}
	return names
}
