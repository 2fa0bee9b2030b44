package lint

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestExecExecutor_Execute(t *testing.T) {
	skipWithoutShell(t)

	cases := map[string]struct {
		argv     []string
		expected int
	}{
		"success":   {[]string{"sh", "-c", "exit 0"}, 0},
		"failure":   {[]string{"sh", "-c", "exit 3"}, 3},
		"high code": {[]string{"sh", "-c", "exit 200"}, 200},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			executor := &ExecExecutor{}
			code, err := executor.Execute(context.Background(), tc.argv)

			assert.Nil(t, err)
			assert.Equal(t, tc.expected, code)
		})
	}
}

func TestExecExecutor_Execute_streams(t *testing.T) {
	skipWithoutShell(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	executor := &ExecExecutor{Stdout: stdout, Stderr: stderr}

	code, err := executor.Execute(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"})

	assert.Nil(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestExecExecutor_Execute_notFound(t *testing.T) {
	executor := &ExecExecutor{}
	code, err := executor.Execute(context.Background(), []string{"bfkit-no-such-tool-exists"})

	assert.Equal(t, ExitNotFound, code)
	assert.True(t, errors.Is(err, exec.ErrNotFound), "got %v", err)
}

func TestExecExecutor_Execute_timeout(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	executor := &ExecExecutor{}
	code, err := executor.Execute(ctx, []string{"sh", "-c", "sleep 5"})

	assert.NotEqual(t, ExitOK, code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunner_Run_processes(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "bf.py")
	require.Nil(t, os.WriteFile(target, []byte("print('hi')\n"), 0600))
	marker := filepath.Join(dir, "third-ran")

	steps := []Step{
		{Name: "first", Run: "cat {target}"},
		{Name: "second", Run: `sh -c "exit 4"`},
		{Name: "third", Run: "touch " + marker},
	}

	stdout := &bytes.Buffer{}
	trace := &bytes.Buffer{}
	runner := NewRunner(steps, &ExecExecutor{Stdout: stdout}, trace, nil)

	err := runner.Run(context.Background(), target)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, "second", exitErr.Step)
	assert.Equal(t, 4, exitErr.Code)
	assert.Equal(t, "print('hi')\n", stdout.String())
	assert.NoFileExists(t, marker)
}

func TestRunner_Run_missingTarget(t *testing.T) {
	skipWithoutShell(t)

	missing := filepath.Join(t.TempDir(), "bf.py")
	marker := filepath.Join(t.TempDir(), "second-ran")
	steps := []Step{
		{Name: "first", Run: "cat {target}"},
		{Name: "second", Run: "touch " + marker},
	}

	stderr := &bytes.Buffer{}
	runner := NewRunner(steps, &ExecExecutor{Stderr: stderr}, nil, nil)

	err := runner.Run(context.Background(), missing)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, "first", exitErr.Step)
	assert.NotEqual(t, ExitOK, exitErr.Code)
	assert.Contains(t, stderr.String(), "No such file")
	assert.NoFileExists(t, marker)
}
