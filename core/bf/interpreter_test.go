package bf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
}

func fileOptions() Options {
	opts := DefaultOptions()
	opts.FromFile = true
	return opts
}

func ExampleInterpreter_Evaluate() {
	interp := New(fileOptions(), os.Stdout, NewLineReader(strings.NewReader("")))
	interp.Evaluate(helloWorld)

	// Output: Hello World!
	//
	// Completed in 906 steps.
}

func TestEvaluate_cells(t *testing.T) {
	cases := map[string]struct {
		code     string
		input    string
		expected byte
	}{
		"increment":       {"+++", "", 3},
		"wrap up":         {strings.Repeat("+", 300), "", 44},
		"wrap down":       {"-", "", 255},
		"comments":        {"a+b+c", "", 2},
		"loop clears":     {"+++++[-]", "", 0},
		"read":            {",", "65\n", 65},
		"read whitespace": {",", "  7 \n", 7},
		"read negative":   {",", "-1\n", 255},
		"read large":      {",", "513\n", 1},
		"read no newline": {",", "9", 9},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			interp := New(fileOptions(), io.Discard, NewLineReader(strings.NewReader(tc.input)))

			_, err := interp.Evaluate(tc.code)

			assert.Nil(t, err)
			assert.Equal(t, tc.expected, interp.Cell(interp.Head()))
		})
	}
}

func TestEvaluate_output(t *testing.T) {
	cases := map[string]struct {
		opts     Options
		code     string
		expected string
	}{
		"file chars": {
			opts:     fileOptions(),
			code:     helloWorld,
			expected: "Hello World!\n\nCompleted in 906 steps.\n",
		},
		"file raw": {
			opts:     Options{FromFile: true, PrintRaw: true},
			code:     "a+b+c.d",
			expected: "2\nCompleted in 3 steps.\n",
		},
		"prompt raw": {
			opts:     Options{PrintRaw: true},
			code:     "+.+.",
			expected: "1\n2\n\nCompleted in 4 steps.\n",
		},
		"empty": {
			opts:     DefaultOptions(),
			code:     "no instructions here",
			expected: "\nCompleted in 0 steps.\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := &bytes.Buffer{}
			interp := New(tc.opts, out, NewLineReader(strings.NewReader("")))

			_, err := interp.Evaluate(tc.code)

			assert.Nil(t, err)
			assert.Equal(t, tc.expected, out.String())
		})
	}
}

func TestEvaluate_steps(t *testing.T) {
	interp := New(fileOptions(), io.Discard, NewLineReader(strings.NewReader("")))

	steps, err := interp.Evaluate("+[-]")
	assert.Nil(t, err)
	// The loop body runs once.
	assert.Equal(t, 4, steps)

	steps, err = interp.Evaluate("[+++]")
	assert.Nil(t, err)
	// Jumps straight over the body.
	assert.Equal(t, 1, steps)
}

func TestEvaluate_errors(t *testing.T) {
	t.Run("unmatched", func(t *testing.T) {
		out := &bytes.Buffer{}
		interp := New(fileOptions(), out, NewLineReader(strings.NewReader("")))

		steps, err := interp.Evaluate("+[")
		assert.ErrorIs(t, err, ErrUnmatchedBracket)
		assert.Equal(t, 0, steps)
		assert.Empty(t, out.String())
	})

	t.Run("input closed", func(t *testing.T) {
		interp := New(fileOptions(), io.Discard, NewLineReader(strings.NewReader("")))

		steps, err := interp.Evaluate("+,+")
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 2, steps)
		assert.Equal(t, byte(1), interp.Cell(0))
	})

	t.Run("not a number", func(t *testing.T) {
		interp := New(fileOptions(), io.Discard, NewLineReader(strings.NewReader("A\n")))

		_, err := interp.Evaluate(",")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("step prompt closed", func(t *testing.T) {
		opts := fileOptions()
		opts.StepByStep = true
		interp := New(opts, io.Discard, NewLineReader(strings.NewReader("\n")))

		steps, err := interp.Evaluate("+++")
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 2, steps)
	})
}

func TestEvaluate_memoryPersists(t *testing.T) {
	interp := New(fileOptions(), io.Discard, NewLineReader(strings.NewReader("")))

	_, err := interp.Evaluate("+++>++")
	require.Nil(t, err)
	_, err = interp.Evaluate("+")
	require.Nil(t, err)

	assert.Equal(t, byte(3), interp.Cell(0))
	assert.Equal(t, byte(3), interp.Cell(1))
	assert.Equal(t, 1, interp.Head())

	interp.Reset()
	assert.Equal(t, 0, interp.Head())
	assert.Equal(t, byte(0), interp.Cell(0))
	assert.Equal(t, byte(0), interp.Cell(1))
}

func TestEvaluate_tapeGrowth(t *testing.T) {
	opts := fileOptions()
	opts.ChunkSize = 2
	interp := New(opts, io.Discard, NewLineReader(strings.NewReader("")))

	_, err := interp.Evaluate("<<<<<+>>>>>>>>>>++<<<<<+++")
	require.Nil(t, err)

	assert.Equal(t, byte(1), interp.Cell(-5))
	assert.Equal(t, byte(2), interp.Cell(5))
	assert.Equal(t, byte(3), interp.Cell(0))
	assert.Equal(t, byte(0), interp.Cell(100), "cells past the tape read as zero")
	assert.Equal(t, byte(0), interp.Cell(-100), "cells before the tape read as zero")
}

func TestEvaluate_rate(t *testing.T) {
	interp := New(fileOptions(), io.Discard, NewLineReader(strings.NewReader("")))
	interp.SetRate(100)

	start := time.Now()
	_, err := interp.Evaluate("+++++")
	require.Nil(t, err)

	// The bucket starts with one token, the rest arrive every 10ms.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	interp.SetRate(0)
	start = time.Now()
	_, err = interp.Evaluate(strings.Repeat("+", 1000))
	require.Nil(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEvaluate_golden(t *testing.T) {
	cases := map[string]struct {
		opts  Options
		code  string
		input string
	}{
		"verbose-loop": {
			opts: Options{FromFile: true, Verbose: true, PrintRaw: true},
			code: "+[->+<]>.",
		},
		"show-memory": {
			opts: Options{FromFile: true, ShowMemory: true, WindowSize: 5, Margin: 1},
			code: "++>+<",
		},
		"step-by-step": {
			opts:  Options{FromFile: true, StepByStep: true, PrintRaw: true},
			code:  "+.+.",
			input: "\n\n\n\n",
		},
		"prompt-io": {
			opts:  DefaultOptions(),
			code:  ",.",
			input: "72\n",
		},
	}

	g := newGolden(t)
	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := &bytes.Buffer{}
			interp := New(tc.opts, out, NewLineReader(strings.NewReader(tc.input)))

			_, err := interp.Evaluate(tc.code)
			require.Nil(t, err)

			g.Assert(t, tn, out.Bytes())
		})
	}
}

func TestWriteTape_golden(t *testing.T) {
	smallWindow := fileOptions()
	smallWindow.WindowSize = 4
	smallWindow.Margin = 1

	cases := map[string]struct {
		opts Options
		code string
	}{
		"tape-initial":       {fileOptions(), ""},
		"tape-after-moves":   {fileOptions(), "+++>++>+"},
		"tape-shifted-right": {fileOptions(), ">>>>>>>>>++++++++++++"},
		"tape-shifted-left":  {fileOptions(), "<<<<--"},
		"tape-small-window":  {smallWindow, "+>++"},
	}

	g := newGolden(t)
	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			interp := New(tc.opts, io.Discard, NewLineReader(strings.NewReader("")))
			_, err := interp.Evaluate(tc.code)
			require.Nil(t, err)

			out := &bytes.Buffer{}
			interp.WriteTape(out)
			g.Assert(t, tn, out.Bytes())
		})
	}
}

func TestCenter3(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"0", " 0 "},
		{"10", "10 "},
		{"-2", "-2 "},
		{"255", "255"},
		{"1000", "1000"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, center3(tc.in))
		})
	}
}

func Example_printRaw() {
	interp := New(Options{PrintRaw: true}, os.Stdout, NewLineReader(strings.NewReader("")))
	steps, _ := interp.Evaluate("+++.")
	fmt.Println(steps)

	// Output: 3
	//
	// Completed in 4 steps.
	// 4
}
