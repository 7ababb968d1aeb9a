package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrEmptyAlphabet is returned when no character class is selected.
var ErrEmptyAlphabet = errors.New("no character class selected")

// ErrInternalEncoding is returned when a mapped buffer is not valid text.
// Every alphabet member is ASCII, so this always indicates a defect.
var ErrInternalEncoding = errors.New("internal error: mapped bytes are not valid UTF-8")

// Alphabet is the ordered set of characters a buffer is mapped onto.
type Alphabet struct {
	chars string
}

// BuildAlphabet concatenates the tables of the selected classes in canonical
// order (numbers, lowercase, uppercase, special).
func BuildAlphabet(sel ClassSelection) (Alphabet, error) {
	if sel.Empty() {
		return Alphabet{}, ErrEmptyAlphabet
	}
	var b strings.Builder
	for _, c := range sel.Classes() {
		b.WriteString(c.Chars())
	}
	return Alphabet{chars: b.String()}, nil
}

// Len returns the number of characters, which is also the reduction modulus.
func (a Alphabet) Len() int {
	return len(a.chars)
}

// String returns the characters of the alphabet.
func (a Alphabet) String() string {
	return a.chars
}

// At maps a raw byte onto the alphabet: alphabet[b mod len].
func (a Alphabet) At(b byte) byte {
	return a.chars[int(b)%len(a.chars)]
}

// Map converts buf in place into characters of the alphabet implied by sel
// and returns the resulting text. buf is consumed; its contents after the
// call are the mapped characters.
//
// Reduction is a plain modulo, so alphabets whose size does not divide 256
// favour their leading characters slightly. See Alphabet.Bias.
func Map(buf RandomBuffer, sel ClassSelection) (string, error) {
	a, err := BuildAlphabet(sel)
	if err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = a.At(b)
	}
	if !utf8.Valid(buf) {
		return "", ErrInternalEncoding
	}
	return string(buf), nil
}

// Bias describes the weight each character receives under modulo reduction
// of a uniformly random byte. Weights are out of 256.
type Bias struct {
	Size       int
	Favored    int // leading characters carrying HighWeight
	HighWeight int
	LowWeight  int
}

// Uniform reports whether every character is equally likely.
func (b Bias) Uniform() bool {
	return b.Favored == 0
}

// Bias computes the modulo bias of the alphabet.
func (a Alphabet) Bias() Bias {
	n := a.Len()
	if n == 0 {
		return Bias{}
	}
	q, r := 256/n, 256%n
	high := q
	if r > 0 {
		high = q + 1
	}
	return Bias{Size: n, Favored: r, HighWeight: high, LowWeight: q}
}
