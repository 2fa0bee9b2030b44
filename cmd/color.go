package cmd

import (
	"fmt"

	"github.com/fatih/color"
)

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var colorBoldCyan = color.New(color.FgCyan, color.Bold)

// traceColor returns the color for command traces, nil if traces shouldn't
// be colored.
func traceColor() (*color.Color, error) {
	switch colorMode {
	case colorAlways:
		c := color.New(color.FgCyan, color.Bold)
		c.EnableColor()
		return c, nil
	case colorNever:
		return nil, nil
	case colorAuto:
		if color.NoColor {
			return nil, nil
		}
		return colorBoldCyan, nil
	default:
		return nil, fmt.Errorf("invalid --color %q (always|auto|never)", colorMode)
	}
}
