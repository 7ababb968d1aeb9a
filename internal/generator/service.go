// Package generator provides the application service that turns a generation
// request into a random string: acquire OS entropy, optionally mix pointer
// motion into it, and map the bytes onto the selected alphabet.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/tevino/abool"

	"github.com/eykd/stringgen-go/internal/domain"
	"github.com/eykd/stringgen-go/internal/entropy"
)

// DefaultBudgetSeconds is the motion budget when mixing is requested while
// the OS source works. It is doubled when the OS source fails.
const DefaultBudgetSeconds = 10

// ErrMotionUnavailable is returned when motion mixing was required or
// requested but could not be completed.
var ErrMotionUnavailable = errors.New("pointer motion entropy unavailable")

// ErrMotionBusy is returned when another request in this process is already
// sampling the pointer.
var ErrMotionBusy = errors.New("motion collection already in progress")

// Locker abstracts the cross-process lock held while sampling the pointer.
type Locker interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// Logger is the subset of a leveled logger used by the service.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

// Result holds the outcome of one generation.
type Result struct {
	Value         string
	AlphabetSize  int
	Fallback      bool
	Mixed         bool
	BudgetSeconds int
	Motion        entropy.MixStats
}

// Service generates random strings.
type Service struct {
	random    entropy.RandomSource
	collector entropy.Collector
	mixer     *entropy.Mixer
	locker    Locker
	log       Logger
	budget    int
	mixing    *abool.AtomicBool
}

// Option configures a Service.
type Option func(*Service)

// WithRandom replaces the OS random source. A nil source disables it.
func WithRandom(r entropy.RandomSource) Option {
	return func(s *Service) { s.random = r }
}

// WithCollector sets the pointer collector used for motion mixing.
func WithCollector(c entropy.Collector) Option {
	return func(s *Service) { s.collector = c }
}

// WithLocker sets the lock held while the pointer is sampled.
func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithLogger sets the service logger.
func WithLogger(l Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMixer replaces the default mixer.
func WithMixer(m *entropy.Mixer) Option {
	return func(s *Service) { s.mixer = m }
}

// WithBudget sets the base motion budget in seconds. Values below one are
// ignored.
func WithBudget(seconds int) Option {
	return func(s *Service) {
		if seconds >= 1 {
			s.budget = seconds
		}
	}
}

// NewService creates a Service reading from random. A nil random source
// disables the OS source, which makes motion mixing mandatory.
func NewService(random entropy.RandomSource, opts ...Option) *Service {
	s := &Service{
		random: random,
		mixer:  entropy.NewMixer(),
		log:    nopLogger{},
		budget: DefaultBudgetSeconds,
		mixing: abool.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces one random string for cfg.
//
// opts override the service configuration for this call only. The motion
// guard is shared by every call on s, so a second concurrent mixing pass
// fails with ErrMotionBusy whatever options it was given.
//
// An empty class selection fails with domain.ErrEmptyAlphabet before any
// entropy source is touched.
func (s *Service) Generate(ctx context.Context, cfg domain.GenerationConfig, opts ...Option) (*Result, error) {
	if len(opts) > 0 {
		call := *s
		for _, opt := range opts {
			opt(&call)
		}
		s = &call
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alphabet, err := domain.BuildAlphabet(cfg.Classes)
	if err != nil {
		return nil, err
	}

	buf, fallback, cause := entropy.Acquire(s.random, cfg.Length)
	defer buf.Wipe()

	result := &Result{AlphabetSize: alphabet.Len(), Fallback: fallback}

	if fallback || cfg.Motion {
		budget := s.budget
		if fallback {
			budget *= 2
			if cause != nil {
				s.log.Warnf("OS random source failed, pointer motion is required: %v", cause)
			} else {
				s.log.Warnf("OS random source disabled, pointer motion is required")
			}
		}
		result.BudgetSeconds = budget

		stats, err := s.mix(ctx, buf, budget)
		result.Motion = stats
		if err != nil {
			return nil, err
		}
		result.Mixed = true
		s.log.Debugf("mixed %d pointer samples (%d duplicates) over %d positions", stats.Accepted, stats.Duplicates, len(buf))
	}

	value, err := domain.Map(buf, cfg.Classes)
	if err != nil {
		return nil, err
	}
	result.Value = value
	return result, nil
}

// mix runs one guarded mixing pass over buf.
func (s *Service) mix(ctx context.Context, buf domain.RandomBuffer, budget int) (entropy.MixStats, error) {
	if s.collector == nil {
		return entropy.MixStats{}, fmt.Errorf("%w: no pointer source configured", ErrMotionUnavailable)
	}
	if !s.mixing.SetToIf(false, true) {
		return entropy.MixStats{}, ErrMotionBusy
	}
	defer s.mixing.UnSet()

	if s.locker != nil {
		if err := s.locker.TryLock(ctx); err != nil {
			return entropy.MixStats{}, err
		}
		defer s.locker.Unlock()
	}

	var stats entropy.MixStats
	err := s.collector.Collect(ctx, func(ctx context.Context, pointer entropy.PointerSource, progress entropy.ProgressFunc) error {
		var mixErr error
		_, stats, mixErr = s.mixer.Mix(ctx, buf, budget, len(buf), pointer, progress)
		return mixErr
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return stats, err
		}
		return stats, fmt.Errorf("%w: %w", ErrMotionUnavailable, err)
	}
	if stats.Truncated {
		s.log.Warnf("pointer motion stopped early: %d of %d samples", stats.Accepted, stats.Target)
	}
	return stats, nil
}
