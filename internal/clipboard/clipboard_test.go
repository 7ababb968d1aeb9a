package clipboard

import (
	"errors"
	"testing"
)

type mockWriter struct {
	got string
	err error
}

func (m *mockWriter) WriteAll(text string) error {
	m.got = text
	return m.err
}

func TestCopy(t *testing.T) {
	errXsel := errors.New("xsel: exit status 1")

	tests := []struct {
		name    string
		writer  *mockWriter
		wantErr bool
	}{
		{"writes text", &mockWriter{}, false},
		{"wraps writer failure", &mockWriter{err: errXsel}, true},
		{"keeps already wrapped failure", &mockWriter{err: ErrUnavailable}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Copy(tt.writer, "s3cret")

			if tt.writer.got != "s3cret" {
				t.Errorf("writer got %q, want %q", tt.writer.got, "s3cret")
			}
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("error = %v, want ErrUnavailable", err)
			}
			if tt.writer.err != nil && !errors.Is(err, tt.writer.err) {
				t.Errorf("error = %v, should wrap %v", err, tt.writer.err)
			}
		})
	}
}

func TestCopy_NilWriter(t *testing.T) {
	if err := Copy(nil, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
