// Package report describes alphabets for humans: size, entropy per character
// and the modulo bias of the byte mapping.
package report

import (
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eykd/stringgen-go/internal/domain"
)

// Summary is the machine-readable form of a report.
type Summary struct {
	Classes        []string `json:"classes"`
	Alphabet       string   `json:"alphabet"`
	Size           int      `json:"size"`
	Length         int      `json:"length"`
	BitsPerChar    float64  `json:"bits_per_char"`
	TotalBits      float64  `json:"total_bits"`
	Favored        string   `json:"favored"`
	HighWeight     int      `json:"high_weight"`
	LowWeight      int      `json:"low_weight"`
	MaxProbability float64  `json:"max_probability"`
	MinProbability float64  `json:"min_probability"`
}

// Summarize computes the report for sel and an output length.
func Summarize(sel domain.ClassSelection, length int) (Summary, error) {
	a, err := domain.BuildAlphabet(sel)
	if err != nil {
		return Summary{}, err
	}
	bias := a.Bias()
	bits := math.Log2(float64(a.Len()))
	return Summary{
		Classes:        sel.Names(),
		Alphabet:       a.String(),
		Size:           a.Len(),
		Length:         length,
		BitsPerChar:    bits,
		TotalBits:      bits * float64(length),
		Favored:        a.String()[:bias.Favored],
		HighWeight:     bias.HighWeight,
		LowWeight:      bias.LowWeight,
		MaxProbability: float64(bias.HighWeight) / 256,
		MinProbability: float64(bias.LowWeight) / 256,
	}, nil
}

// Writer prints summaries with locale-aware number formatting.
type Writer struct {
	p *message.Printer
}

// NewWriter returns a Writer for the given BCP 47 tag. An unparseable tag
// falls back to English.
func NewWriter(tag string) *Writer {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.English
	}
	return &Writer{p: message.NewPrinter(lang)}
}

// WriteClasses lists every character class with its size.
func (w *Writer) WriteClasses(out io.Writer) {
	for _, c := range domain.AllClasses {
		w.p.Fprintf(out, "%-10s %3d  %s\n", c.String(), len(c.Chars()), visible(c.Chars()))
	}
}

// WriteSummary prints s as an aligned block.
func (w *Writer) WriteSummary(out io.Writer, s Summary) {
	w.p.Fprintf(out, "Classes:   %s\n", strings.Join(s.Classes, ", "))
	w.p.Fprintf(out, "Alphabet:  %s\n", visible(s.Alphabet))
	w.p.Fprintf(out, "Size:      %d characters\n", s.Size)
	w.p.Fprintf(out, "Entropy:   %.2f bits per character, %.1f bits for %d characters\n", s.BitsPerChar, s.TotalBits, s.Length)
	if s.Favored == "" {
		w.p.Fprintf(out, "Bias:      none (every character has weight %d/256)\n", s.LowWeight)
		return
	}
	w.p.Fprintf(out, "Bias:      %d leading characters at %d/256 (%.3f%%), the other %d at %d/256 (%.3f%%)\n",
		len(s.Favored), s.HighWeight, s.MaxProbability*100,
		s.Size-len(s.Favored), s.LowWeight, s.MinProbability*100)
	w.p.Fprintf(out, "Favored:   %s\n", visible(s.Favored))
}

// visible quotes strings that start or end with a space so the space is not
// lost on a terminal.
func visible(s string) string {
	if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		return "\"" + s + "\""
	}
	return s
}
