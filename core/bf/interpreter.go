// Package bf is a Brainfuck interpreter that can narrate its execution and
// draw the memory around the head as it runs.
package bf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/juju/ratelimit"
)

const (
	DefaultWindowSize = 10
	DefaultMargin     = 2
	DefaultChunkSize  = 32

	// StepPrompt is shown between instructions in step-by-step mode.
	StepPrompt = "Enter to continue to next step..."
)

var ErrInvalidInput = errors.New("invalid input")

// Options configures how the interpreter reports its execution.
type Options struct {
	// StepByStep waits for a line of input after each instruction, it only
	// applies when FromFile is set.
	StepByStep bool
	// ShowMemory prints the tape window after each instruction.
	ShowMemory bool
	// WindowSize is the number of cells printed.
	WindowSize int
	// Margin is the minimum number of cells between the head and the window
	// edge before the window shifts.
	Margin int
	// Verbose describes each instruction as it's executed.
	Verbose bool
	// PrintRaw prints cells as numbers rather than characters.
	PrintRaw bool
	// FromFile is set when the source came from a file rather than a prompt,
	// output isn't followed by a newline.
	FromFile bool
	// ChunkSize is the number of cells added when the head leaves the tape.
	ChunkSize int
}

// DefaultOptions returns the options used by the command line.
func DefaultOptions() Options {
	return Options{
		WindowSize: DefaultWindowSize,
		Margin:     DefaultMargin,
		ChunkSize:  DefaultChunkSize,
	}
}

// LineReader supplies lines for the ',' instruction and step prompts.
type LineReader interface {
	ReadLine() (string, error)
}

// NewLineReader reads newline separated lines from r.
func NewLineReader(r io.Reader) LineReader {
	return &bufferedLineReader{r: bufio.NewReader(r)}
}

type bufferedLineReader struct {
	r *bufio.Reader
}

func (b *bufferedLineReader) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// Interpreter evaluates programs against a tape that persists between calls
// to Evaluate.
type Interpreter struct {
	opts Options
	out  io.Writer
	in   LineReader

	// bucket throttles instructions if set.
	bucket *ratelimit.Bucket

	tape []byte
	// addrPtr is the head's logical address, the cell is tape[addrPtr+addrOffset].
	addrPtr    int
	addrOffset int
	// windowStart is the logical address of the first printed cell.
	windowStart int

	prog *Program
	pc   int
}

// New creates an interpreter writing to out and reading from in. A
// non-positive WindowSize or ChunkSize, or a negative Margin, uses the default.
func New(opts Options, out io.Writer, in LineReader) *Interpreter {
	defaults := DefaultOptions()
	if opts.WindowSize <= 0 {
		opts.WindowSize = defaults.WindowSize
	}
	if opts.Margin < 0 {
		opts.Margin = defaults.Margin
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaults.ChunkSize
	}

	interp := &Interpreter{
		opts: opts,
		out:  out,
		in:   in,
	}
	interp.Reset()
	return interp
}

// SetRate limits execution to perSecond instructions, zero removes the limit.
func (b *Interpreter) SetRate(perSecond float64) {
	if perSecond <= 0 {
		b.bucket = nil
		return
	}
	b.bucket = ratelimit.NewBucketWithRate(perSecond, 1)
}

// Reset clears the tape and moves the head back to the origin.
func (b *Interpreter) Reset() {
	b.tape = make([]byte, b.opts.ChunkSize)
	b.addrPtr = 0
	b.addrOffset = 0
	b.windowStart = b.addrPtr - b.opts.Margin
}

// Head returns the logical address of the head.
func (b *Interpreter) Head() int {
	return b.addrPtr
}

// Evaluate runs a fragment of code to completion and returns the number of
// instructions executed.
func (b *Interpreter) Evaluate(code string) (int, error) {
	prog, err := Preprocess(code)
	if err != nil {
		return 0, err
	}

	b.prog = prog
	b.pc = 0
	steps := 0
	for b.pc < len(prog.Code) {
		if b.bucket != nil {
			b.bucket.Wait(1)
		}

		steps++
		if err := b.exec(prog.Code[b.pc]); err != nil {
			return steps, err
		}
		b.pc++

		if b.opts.ShowMemory {
			b.PrintTape()
		}
		if b.opts.StepByStep && b.opts.FromFile {
			fmt.Fprint(b.out, StepPrompt)
			if _, err := b.in.ReadLine(); err != nil {
				return steps, err
			}
		}
	}

	fmt.Fprintf(b.out, "\nCompleted in %d steps.\n", steps)
	return steps, nil
}

func (b *Interpreter) exec(instruction byte) error {
	switch instruction {
	case '<':
		b.moveLeft()
	case '>':
		b.moveRight()
	case '.':
		b.write()
	case ',':
		return b.read()
	case '+':
		b.verbosef("Incrementing the current cell.")
		b.setCurrentCell(b.currentCell() + 1)
	case '-':
		b.verbosef("Decrementing the current cell.")
		b.setCurrentCell(b.currentCell() - 1)
	case '[':
		b.jumpIfZero()
	case ']':
		b.jumpUnlessZero()
	}
	return nil
}

func (b *Interpreter) verbosef(format string, a ...interface{}) {
	if b.opts.Verbose {
		fmt.Fprintf(b.out, format+"\n", a...)
	}
}

// Cell returns the value at a logical address, cells off the tape are zero.
func (b *Interpreter) Cell(addr int) byte {
	idx := addr + b.addrOffset
	if idx < 0 || idx >= len(b.tape) {
		return 0
	}
	return b.tape[idx]
}

func (b *Interpreter) currentCell() byte {
	return b.Cell(b.addrPtr)
}

func (b *Interpreter) setCurrentCell(val byte) {
	b.tape[b.addrPtr+b.addrOffset] = val
}

func (b *Interpreter) moveLeft() {
	b.verbosef("Moving the head left from cell %d to %d.", b.addrPtr, b.addrPtr-1)

	b.addrPtr--
	if b.addrPtr-b.windowStart < b.opts.Margin {
		b.windowStart--
	}
	if b.addrPtr+b.addrOffset < 0 {
		b.tape = append(make([]byte, b.opts.ChunkSize), b.tape...)
		b.addrOffset += b.opts.ChunkSize
	}
}

func (b *Interpreter) moveRight() {
	b.verbosef("Moving the head right from cell %d to %d.", b.addrPtr, b.addrPtr+1)

	b.addrPtr++
	if b.windowStart+b.opts.WindowSize-b.addrPtr <= b.opts.Margin {
		b.windowStart++
	}
	if b.addrPtr+b.addrOffset >= len(b.tape) {
		b.tape = append(b.tape, make([]byte, b.opts.ChunkSize)...)
	}
}

func (b *Interpreter) write() {
	b.verbosef("Writing cell to stdout.")

	var text string
	if b.opts.PrintRaw {
		text = strconv.Itoa(int(b.currentCell()))
	} else {
		text = string(rune(b.currentCell()))
	}
	if !b.opts.FromFile {
		text += "\n"
	}
	fmt.Fprint(b.out, text)
}

func (b *Interpreter) read() error {
	b.verbosef("Waiting for input...")

	line, err := b.in.ReadLine()
	if err != nil {
		return err
	}

	val, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, line)
	}

	// Wrap negative numbers the same as positive ones.
	b.setCurrentCell(byte(((val % 256) + 256) % 256))
	return nil
}

func (b *Interpreter) jumpIfZero() {
	if b.currentCell() != 0 {
		b.verbosef("Current cell is not 0. Not jumping.")
		return
	}

	target, _ := b.prog.Jump(b.pc)
	b.verbosef("Jumping to instruction %d", target)
	b.pc = target
}

func (b *Interpreter) jumpUnlessZero() {
	if b.currentCell() == 0 {
		b.verbosef("Current cell is 0. Not jumping.")
		return
	}

	target, _ := b.prog.Jump(b.pc)
	b.verbosef("Jumping to instruction %d.", target)
	b.pc = target
}
