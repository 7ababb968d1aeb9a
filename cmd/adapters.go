package cmd

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/eykd/stringgen-go/internal/clipboard"
	"github.com/eykd/stringgen-go/internal/config"
	"github.com/eykd/stringgen-go/internal/domain"
	"github.com/eykd/stringgen-go/internal/entropy"
	"github.com/eykd/stringgen-go/internal/generator"
	"github.com/eykd/stringgen-go/internal/lock"
	"github.com/eykd/stringgen-go/internal/pointer"
	"github.com/eykd/stringgen-go/internal/tui"
)

// environment is the process state backend selection depends on.
type environment struct {
	getenv     func(string) string
	isTerminal func() bool
	stdin      io.Reader
	stderr     io.Writer
}

func processEnvironment() environment {
	return environment{
		getenv:     os.Getenv,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		stdin:      os.Stdin,
		stderr:     os.Stderr,
	}
}

// DefaultDeps wires the command tree to the real OS random source, pointer
// backends, clipboard and lock file.
func DefaultDeps() Deps {
	env := processEnvironment()
	return Deps{
		Generate: newGenerateAdapter(rand.Reader, logger, env, clipboard.System{}, lock.DefaultPath()),
		Doctor: &doctorAdapter{
			random:        rand.Reader,
			env:           env,
			dial:          pointer.DialX11,
			clipSupported: clipboard.System{}.Supported,
			lockPath:      lock.DefaultPath(),
		},
		LoadConfig: func(path string, overridden ...string) (config.Config, error) {
			return config.Loader{DotEnvPath: ".env"}.Load(path, overridden...)
		},
	}
}

// resolveCollector picks the pointer backend for motion sampling. It returns
// nil when no backend can serve.
func resolveCollector(backend string, env environment) entropy.Collector {
	x11 := announcer{next: pointer.X11{}, w: env.stderr}
	terminal := tui.Collector{In: env.stdin, Out: env.stderr}

	switch backend {
	case config.PointerX11:
		return x11
	case config.PointerTerminal:
		if !env.isTerminal() {
			return nil
		}
		return terminal
	case config.PointerNone:
		return nil
	}

	if env.getenv("DISPLAY") != "" {
		return x11
	}
	if env.isTerminal() {
		return terminal
	}
	return nil
}

// announcer prints a prompt before handing over to a collector that has no
// screen of its own.
type announcer struct {
	next entropy.Collector
	w    io.Writer
}

func (a announcer) Collect(ctx context.Context, mix entropy.MixFunc) error {
	fmt.Fprintln(a.w, "Move the mouse to mix in pointer entropy (ctrl+c cancels)...")
	return a.next.Collect(ctx, mix)
}

// --- generateAdapter ---

// generateAdapter serves every request from one generator.Service so the
// in-process motion guard covers them all.
type generateAdapter struct {
	svc     *generator.Service
	random  entropy.RandomSource
	log     *logrus.Logger
	env     environment
	clip    clipboard.Writer
	resolve func(backend string, env environment) entropy.Collector
}

func newGenerateAdapter(random entropy.RandomSource, log *logrus.Logger, env environment, clip clipboard.Writer, lockPath string) *generateAdapter {
	return &generateAdapter{
		svc: generator.NewService(random,
			generator.WithLogger(log),
			generator.WithLocker(lock.NewFromPath(lockPath)),
		),
		random:  random,
		log:     log,
		env:     env,
		clip:    clip,
		resolve: resolveCollector,
	}
}

func (a *generateAdapter) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	random := a.random
	if !opts.OSRandom {
		random = nil
	}

	callOpts := []generator.Option{
		generator.WithRandom(random),
		generator.WithBudget(opts.MotionSeconds),
		generator.WithCollector(a.resolve(opts.Pointer, a.env)),
	}
	a.log.WithFields(logrus.Fields{
		"length":  opts.Length,
		"classes": opts.Classes.Names(),
		"motion":  opts.Motion,
		"pointer": opts.Pointer,
	}).Debug("generating")

	res, err := a.svc.Generate(ctx, domain.GenerationConfig{
		Length:  opts.Length,
		Classes: opts.Classes,
		Motion:  opts.Motion,
	}, callOpts...)
	if err != nil {
		return nil, err
	}

	out := &GenerateResult{
		Value:           res.Value,
		Length:          len(res.Value),
		AlphabetSize:    res.AlphabetSize,
		Fallback:        res.Fallback,
		MotionSamples:   res.Motion.Accepted,
		MotionTruncated: res.Motion.Truncated,
	}
	if opts.Copy {
		if err := clipboard.Copy(a.clip, res.Value); err != nil {
			a.log.Warnf("not copied: %v", err)
		} else {
			out.Copied = true
		}
	}
	return out, nil
}

// --- doctorAdapter ---

type doctorAdapter struct {
	random        entropy.RandomSource
	env           environment
	dial          pointer.Dialer
	clipSupported func() bool
	lockPath      string
}

func (a *doctorAdapter) Doctor(ctx context.Context) (*DoctorResult, error) {
	return &DoctorResult{Findings: []CheckFinding{
		a.checkOSRandom(),
		a.checkPointer(),
		a.checkClipboard(),
		a.checkLock(ctx),
	}}, nil
}

func (a *doctorAdapter) checkOSRandom() CheckFinding {
	buf, fallback, cause := entropy.Acquire(a.random, 32)
	buf.Wipe()
	if !fallback {
		return CheckFinding{Check: CheckOSRandom, Severity: SeverityOK, Message: "OS random source readable"}
	}
	msg := "no OS random source; every generation needs pointer motion"
	if cause != nil {
		msg = cause.Error() + "; every generation needs pointer motion"
	}
	return CheckFinding{Check: CheckOSRandom, Severity: SeverityError, Message: msg}
}

func (a *doctorAdapter) checkPointer() CheckFinding {
	if display := a.env.getenv("DISPLAY"); display != "" {
		q, err := a.dial(display)
		if err != nil {
			return CheckFinding{Check: CheckPointer, Severity: SeverityWarning, Message: err.Error()}
		}
		defer q.Close()
		x, y, err := q.QueryPointer()
		if err != nil {
			return CheckFinding{Check: CheckPointer, Severity: SeverityWarning, Message: err.Error()}
		}
		return CheckFinding{Check: CheckPointer, Severity: SeverityOK, Message: fmt.Sprintf("X11 pointer on %s at (%d, %d)", display, x, y)}
	}
	if a.env.isTerminal() {
		return CheckFinding{Check: CheckPointer, Severity: SeverityOK, Message: "terminal mouse tracking (no $DISPLAY)"}
	}
	return CheckFinding{Check: CheckPointer, Severity: SeverityWarning, Message: "no pointer backend: no $DISPLAY and stdin is not a terminal"}
}

func (a *doctorAdapter) checkClipboard() CheckFinding {
	if a.clipSupported() {
		return CheckFinding{Check: CheckClipboard, Severity: SeverityOK, Message: "clipboard utility found"}
	}
	return CheckFinding{Check: CheckClipboard, Severity: SeverityWarning, Message: clipboard.ErrUnavailable.Error() + "; --copy will be ignored"}
}

func (a *doctorAdapter) checkLock(ctx context.Context) CheckFinding {
	l := lock.NewFromPath(a.lockPath)
	if err := l.TryLock(ctx); err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return CheckFinding{Check: CheckLock, Severity: SeverityWarning, Message: err.Error()}
		}
		return CheckFinding{Check: CheckLock, Severity: SeverityError, Message: err.Error()}
	}
	if err := l.Unlock(); err != nil {
		return CheckFinding{Check: CheckLock, Severity: SeverityError, Message: err.Error()}
	}
	return CheckFinding{Check: CheckLock, Severity: SeverityOK, Message: "lock file " + l.Path() + " is free"}
}
