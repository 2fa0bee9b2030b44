// Package repl reads Brainfuck from an interactive prompt.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/bfkit/core/bf"
	"go.uber.org/zap"
)

const (
	Prompt  = "bf> "
	Goodbye = "Goodbye"
)

// LineSource is the part of a readline instance the REPL uses.
type LineSource interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

var _ LineSource = (*readline.Instance)(nil)

// REPL evaluates each line of input with a shared interpreter.
type REPL struct {
	Interpreter *bf.Interpreter

	lines  LineSource
	out    io.Writer
	logger *zap.Logger
}

// New creates a REPL reading lines from lines and writing to out. The
// interpreter's ',' instruction reads from the same source.
func New(opts bf.Options, lines LineSource, out io.Writer, logger *zap.Logger) *REPL {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts.FromFile = false
	return &REPL{
		Interpreter: bf.New(opts, out, &promptlessInput{lines: lines}),
		lines:       lines,
		out:         out,
		logger:      logger,
	}
}

// NewTerminal creates a REPL on a readline instance over the given streams.
func NewTerminal(opts bf.Options, stdin io.ReadCloser, stdout, stderr io.Writer, logger *zap.Logger) (*REPL, io.Closer, error) {
	cfg := &readline.Config{
		Prompt: Prompt,
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
	}
	if err := cfg.Init(); err != nil {
		return nil, nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, nil, err
	}

	return New(opts, instance, instance, logger), instance, nil
}

// Run reads and evaluates lines until the input ends or is interrupted.
func (r *REPL) Run() error {
	for {
		r.lines.SetPrompt(Prompt)
		line, err := r.lines.Readline()

		switch {
		case isQuit(err):
			fmt.Fprintln(r.out, Goodbye)
			return nil

		case err != nil:
			return err

		case strings.TrimSpace(line) == "":
			continue // empty line
		}

		steps, err := r.Interpreter.Evaluate(line)
		r.logger.Debug("evaluated line", zap.Int("steps", steps), zap.Error(err))
		switch {
		case isQuit(err):
			fmt.Fprintln(r.out, Goodbye)
			return nil

		case err != nil:
			fmt.Fprintln(r.out, err)
		}
	}
}

func isQuit(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}

// promptlessInput reads ',' input without showing the REPL prompt.
type promptlessInput struct {
	lines LineSource
}

func (p *promptlessInput) ReadLine() (string, error) {
	p.lines.SetPrompt("")
	defer p.lines.SetPrompt(Prompt)

	return p.lines.Readline()
}
