package checklist

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultDelay gives a serial console time to attach before the first line.
const DefaultDelay = 2000 * time.Millisecond

type State int32

const (
	Idle State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

type Options struct {
	Console io.Writer
	Clock   Clock
	Delay   time.Duration
	// Hold keeps Run from returning after the last line until the context is
	// done, like firmware that never leaves main.
	Hold   bool
	Logger *zap.Logger
}

// DefaultOptions writes to console after DefaultDelay on the real clock.
func DefaultOptions(console io.Writer) Options {
	return Options{
		Console: console,
		Clock:   RealClock(),
		Delay:   DefaultDelay,
	}
}

// Result is what a line showed.
type Result struct {
	Check    Check
	Observed int32
	Expected int32
}

type Runner struct {
	options Options
	logger  *zap.Logger
	state   atomic.Int32
}

func NewRunner(options Options) *Runner {
	if options.Clock == nil {
		options.Clock = RealClock()
	}
	if options.Console == nil {
		options.Console = io.Discard
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		options: options,
		logger:  logger,
	}
}

func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
	r.logger.Debug("runner state", zap.Stringer("state", s))
}

// Run waits for the configured delay, then calls every check's routine in
// order and writes one line per check. Observed and expected values are only
// printed, never compared.
func (r *Runner) Run(ctx context.Context, list Checklist, lib Library) ([]Result, error) {
	r.setState(Running)
	defer r.setState(Terminated)

	start := r.options.Clock.Now()
	if err := r.options.Clock.Sleep(ctx, r.options.Delay); err != nil {
		return nil, errors.Wrap(err, "waiting for console")
	}
	r.logger.Debug("console delay elapsed", zap.Duration("delay", r.options.Clock.Now().Sub(start)))

	results := make([]Result, 0, len(list))
	for _, check := range list {
		observed, err := lib.Call(ctx, check.Symbol, check.Args...)
		if err != nil {
			return results, errors.Wrapf(err, "check %s", check.Label)
		}

		expected := check.Expected()
		if _, err := io.WriteString(r.options.Console, FormatLine(check.Label, observed, expected)); err != nil {
			return results, errors.Wrapf(err, "check %s: console write failed", check.Label)
		}

		r.logger.Debug("check printed",
			zap.String("label", check.Label),
			zap.String("symbol", check.Symbol),
			zap.Int32("observed", observed),
			zap.Int32("expected", expected))
		results = append(results, Result{Check: check, Observed: observed, Expected: expected})
	}

	if r.options.Hold {
		r.setState(Terminated)
		<-ctx.Done()
	}
	return results, nil
}
