package entropy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eykd/stringgen-go/internal/domain"
)

// Sampling calibration.
const (
	TicksPerSecond = 200
	SampleDelay    = 5 * time.Millisecond
	DuplicateDelay = 10 * time.Millisecond
	// DeadlineFactor bounds a mixing pass to this many times its budget.
	DeadlineFactor = 3
)

// ErrSourceUnavailable is returned when the pointer cannot report a position.
var ErrSourceUnavailable = errors.New("pointer position unavailable")

// ErrPointerIdle is returned when the deadline passes before every buffer
// position received at least one sample.
var ErrPointerIdle = errors.New("pointer did not move enough before the deadline")

// ErrInvalidMix is returned for a non-positive budget or a rotation width
// outside 1..len(buffer).
var ErrInvalidMix = errors.New("invalid mixing parameters")

// PointerSource reports the current pointer coordinates.
type PointerSource interface {
	Position() (x, y int, err error)
}

// PointerFunc adapts a function to PointerSource.
type PointerFunc func() (int, int, error)

// Position calls f.
func (f PointerFunc) Position() (int, int, error) {
	return f()
}

// ProgressFunc is called after every accepted sample.
type ProgressFunc func(accepted, target int)

// MixFunc runs one mixing pass against the given pointer.
type MixFunc func(ctx context.Context, pointer PointerSource, progress ProgressFunc) error

// Collector owns a pointer device for the duration of one mixing pass.
// Implementations may present a UI while mix runs.
type Collector interface {
	Collect(ctx context.Context, mix MixFunc) error
}

// Direct is a Collector over an already-open PointerSource.
type Direct struct {
	Pointer  PointerSource
	Progress ProgressFunc
}

// Collect runs mix with the wrapped pointer.
func (d Direct) Collect(ctx context.Context, mix MixFunc) error {
	if d.Pointer == nil {
		return ErrSourceUnavailable
	}
	return mix(ctx, d.Pointer, d.Progress)
}

// Clock abstracts time for the sampling loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// MixStats summarises one mixing pass.
type MixStats struct {
	Target     int
	Accepted   int
	Duplicates int
	// Truncated is set when the deadline ended the pass early but every
	// position had already been mixed at least once.
	Truncated bool
}

// Mixer folds pointer samples into a buffer.
type Mixer struct {
	clock          Clock
	ticksPerSecond int
	sampleDelay    time.Duration
	duplicateDelay time.Duration
	deadlineFactor int
}

// MixerOption configures a Mixer.
type MixerOption func(*Mixer)

// WithClock replaces the wall clock.
func WithClock(c Clock) MixerOption {
	return func(m *Mixer) { m.clock = c }
}

// WithTicksPerSecond overrides the sample target per budget second.
func WithTicksPerSecond(n int) MixerOption {
	return func(m *Mixer) { m.ticksPerSecond = n }
}

// NewMixer creates a Mixer with the default calibration.
func NewMixer(opts ...MixerOption) *Mixer {
	m := &Mixer{
		clock:          SystemClock,
		ticksPerSecond: TicksPerSecond,
		sampleDelay:    SampleDelay,
		duplicateDelay: DuplicateDelay,
		deadlineFactor: DeadlineFactor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mix samples pointer until budgetSeconds*ticksPerSecond distinct positions
// have been accepted, adding (x+y) mod 256 to buf[i] with wraparound and
// advancing i round-robin over the first rotationWidth positions.
//
// A reading equal to the previous accepted sample is discarded without
// advancing the index or the count; the previous sample starts at the origin.
// The pass is bounded by a deadline of budgetSeconds*DeadlineFactor seconds.
// The buffer is returned in every case; on error it may be partially mixed
// and must not be used.
func (m *Mixer) Mix(ctx context.Context, buf domain.RandomBuffer, budgetSeconds, rotationWidth int, pointer PointerSource, progress ProgressFunc) (domain.RandomBuffer, MixStats, error) {
	if budgetSeconds < 1 || rotationWidth < 1 || rotationWidth > len(buf) {
		return buf, MixStats{}, fmt.Errorf("%w: budget %ds, rotation %d, buffer %d",
			ErrInvalidMix, budgetSeconds, rotationWidth, len(buf))
	}
	if pointer == nil {
		return buf, MixStats{}, ErrSourceUnavailable
	}

	stats := MixStats{Target: budgetSeconds * m.ticksPerSecond}
	deadline := m.clock.Now().Add(time.Duration(budgetSeconds*m.deadlineFactor) * time.Second)

	var lastX, lastY, index int
	for stats.Accepted < stats.Target {
		if err := ctx.Err(); err != nil {
			return buf, stats, err
		}
		if !m.clock.Now().Before(deadline) {
			if stats.Accepted < rotationWidth {
				return buf, stats, fmt.Errorf("%w: %d of %d samples", ErrPointerIdle, stats.Accepted, stats.Target)
			}
			stats.Truncated = true
			break
		}

		x, y, err := pointer.Position()
		if err != nil {
			return buf, stats, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}

		if x == lastX && y == lastY {
			stats.Duplicates++
			m.clock.Sleep(m.duplicateDelay)
			continue
		}
		lastX, lastY = x, y

		// Conversion truncates, which is (x+y) mod 256 for negative sums too.
		buf[index] += byte(x + y)
		index = (index + 1) % rotationWidth
		stats.Accepted++

		if progress != nil {
			progress(stats.Accepted, stats.Target)
		}
		m.clock.Sleep(m.sampleDelay)
	}

	return buf, stats, nil
}
