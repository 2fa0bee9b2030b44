package lint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// TargetPlaceholder is replaced with the checked file in a step's command line.
const TargetPlaceholder = "{target}"

var ErrEmptyCommand = errors.New("empty command")

// Step is a single external tool invocation.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string
	// Run is the command line, split using POSIX shell quoting rules.
	Run string
	// Disable holds diagnostic categories passed to the tool as --disable.
	Disable []string
}

// Argv resolves the argument vector used to run the step against target.
func (s Step) Argv(target string) ([]string, error) {
	tokens, err := shlex.Split(s.Run, true)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", s.Run, err)
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	substituted := false
	for i, tok := range tokens {
		if strings.Contains(tok, TargetPlaceholder) {
			tokens[i] = strings.ReplaceAll(tok, TargetPlaceholder, target)
			substituted = true
		}
	}

	if !substituted {
		tokens = append(tokens, target)
	}

	if len(s.Disable) > 0 {
		tokens = append(tokens, "--disable="+strings.Join(s.Disable, ","))
	}

	return tokens, nil
}
