// Package lint runs a fixed pipeline of external checkers against a file,
// stopping at the first one that fails.
package lint

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// ExitError is returned by Runner.Run when a step fails.
type ExitError struct {
	// Step is the name of the failed step.
	Step string
	// Code is the exit status of the failed step, it's never zero.
	Code int
	// Err is set if the step couldn't be run to completion.
	Err error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed with status %d: %v", e.Step, e.Code, e.Err)
	}
	return fmt.Sprintf("%s failed with status %d", e.Step, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes steps in order.
type Runner struct {
	Steps    []Step
	Executor Executor

	// Trace receives each command line before it's run, nil disables tracing.
	Trace io.Writer
	// TraceColor formats trace lines if non-nil.
	TraceColor *color.Color

	Logger *zap.Logger
}

// NewRunner creates a runner that logs to logger, which may be nil.
func NewRunner(steps []Step, executor Executor, trace io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		Steps:    steps,
		Executor: executor,
		Trace:    trace,
		Logger:   logger,
	}
}

// Resolve returns the argument vectors of every step for target.
func (r *Runner) Resolve(target string) ([][]string, error) {
	var out [][]string
	for _, step := range r.Steps {
		argv, err := step.Argv(target)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}
		out = append(out, argv)
	}
	return out, nil
}

// Run runs every step against target. Each step must exit zero before the
// next starts, the first failing step's status is returned as an *ExitError.
func (r *Runner) Run(ctx context.Context, target string) error {
	// Every step must resolve before any of them run.
	argvs, err := r.Resolve(target)
	if err != nil {
		return err
	}

	for i, step := range r.Steps {
		argv := argvs[i]
		log := r.Logger.With(zap.String("step", step.Name), zap.Int("index", i))

		r.trace(argv)

		log.Debug("starting step", zap.Strings("argv", argv))
		start := time.Now()
		code, err := r.Executor.Execute(ctx, argv)
		log.Debug("finished step",
			zap.Int("status", code),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))

		if err != nil && r.Trace != nil {
			fmt.Fprintf(r.Trace, "%s: %v\n", argv[0], err)
		}

		if code == ExitOK && err == nil {
			continue
		}
		if code == ExitOK {
			code = ExitFailure
		}

		log.Debug("stopping pipeline", zap.Int("skipped", len(r.Steps)-i-1))
		return &ExitError{Step: step.Name, Code: code, Err: err}
	}

	return nil
}

func (r *Runner) trace(argv []string) {
	if r.Trace == nil {
		return
	}

	line := FormatTrace(argv)
	if r.TraceColor != nil {
		line = r.TraceColor.Sprint(line)
	}
	fmt.Fprintln(r.Trace, line)
}

// FormatTrace formats argv the way a shell with xtrace enabled echoes it.
func FormatTrace(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	return "+ " + strings.Join(quoted, " ")
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}

	safe := true
	for _, c := range arg {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("-_=+,./:@%{}^", c):
		default:
			safe = false
		}
	}
	if safe {
		return arg
	}

	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
