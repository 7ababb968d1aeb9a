package entropy

import (
	"bytes"
	"errors"
	"testing"
)

type failingReader struct {
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, f.err
}

// shortReader writes n bytes of 0xFF and then fails.
type shortReader struct {
	n int
}

func (s *shortReader) Read(p []byte) (int, error) {
	if s.n == 0 {
		return 0, errors.New("exhausted")
	}
	k := min(s.n, len(p))
	for i := 0; i < k; i++ {
		p[i] = 0xFF
	}
	s.n -= k
	return k, nil
}

func TestAcquire_FillsFromSource(t *testing.T) {
	src := bytes.NewReader([]byte{0, 25, 26, 51, 52, 77, 78, 103})

	buf, fallback, cause := Acquire(src, 8)

	if fallback {
		t.Error("fallback should not be required")
	}
	if cause != nil {
		t.Errorf("unexpected cause: %v", cause)
	}
	if !bytes.Equal(buf, []byte{0, 25, 26, 51, 52, 77, 78, 103}) {
		t.Errorf("buf = %v", buf)
	}
}

func TestAcquire_FailureReturnsZeroBufferAndFallback(t *testing.T) {
	errDenied := errors.New("getrandom: operation not permitted")

	tests := []struct {
		name      string
		src       RandomSource
		wantCause error
	}{
		{"read error", &failingReader{err: errDenied}, errDenied},
		{"short read", &shortReader{n: 3}, nil},
		{"disabled source", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, fallback, cause := Acquire(tt.src, 6)

			if !fallback {
				t.Fatal("expected fallback to be required")
			}
			if len(buf) != 6 {
				t.Fatalf("len(buf) = %d, want 6", len(buf))
			}
			for i, b := range buf {
				if b != 0 {
					t.Errorf("buf[%d] = %d, want 0", i, b)
				}
			}
			if tt.wantCause != nil && !errors.Is(cause, tt.wantCause) {
				t.Errorf("cause = %v, want %v", cause, tt.wantCause)
			}
			if tt.src == nil && cause != nil {
				t.Errorf("disabled source should have no cause, got %v", cause)
			}
		})
	}
}
