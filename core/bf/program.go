package bf

import (
	"errors"
	"fmt"
	"strings"
)

// Instructions holds every character with meaning, all others are comments.
const Instructions = ",.<>+-[]"

var ErrUnmatchedBracket = errors.New("unmatched bracket")

// Program is preprocessed source ready for evaluation.
type Program struct {
	// Code holds only instruction characters.
	Code []byte

	// jumps maps the position of each bracket to its partner.
	jumps map[int]int
}

// Jump returns the position of the bracket matching the one at pc.
func (p *Program) Jump(pc int) (int, bool) {
	target, ok := p.jumps[pc]
	return target, ok
}

// Preprocess strips comments from code and matches its brackets.
func Preprocess(code string) (*Program, error) {
	prog := &Program{jumps: make(map[int]int)}

	var opens []int
	for _, c := range []byte(code) {
		if strings.IndexByte(Instructions, c) < 0 {
			continue
		}

		idx := len(prog.Code)
		prog.Code = append(prog.Code, c)

		switch c {
		case '[':
			opens = append(opens, idx)
		case ']':
			if len(opens) == 0 {
				return nil, fmt.Errorf("%w: ']' at instruction %d has no '['", ErrUnmatchedBracket, idx)
			}
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			prog.jumps[open] = idx
			prog.jumps[idx] = open
		}
	}

	if len(opens) > 0 {
		return nil, fmt.Errorf("%w: '[' at instruction %d has no ']'", ErrUnmatchedBracket, opens[len(opens)-1])
	}

	return prog, nil
}
