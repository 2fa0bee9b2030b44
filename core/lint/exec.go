package lint

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os/exec"
	"syscall"
)

// Executor runs a resolved step.
//
// Execute returns the exit status of the process. A non-nil error means the
// process couldn't be run to completion, in which case the status still
// describes the failure.
type Executor interface {
	Execute(ctx context.Context, argv []string) (int, error)
}

// ExecExecutor runs steps as child processes of the current one, sharing
// the given standard streams.
type ExecExecutor struct {
	// Dir is the working directory of the child, empty for the current one.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var _ Executor = (*ExecExecutor)(nil)

// Execute implements Executor.
func (e *ExecExecutor) Execute(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return ExitFailure, ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return ExitOK, nil

	case errors.As(err, &exitErr):
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return ExitSignalBase + int(status.Signal()), ctx.Err()
		}
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}
		return ExitFailure, ctx.Err()

	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound, err

	default:
		return ExitFailure, err
	}
}
