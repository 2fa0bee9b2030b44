package bf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintTape draws the cells in the print window with a caret under the head.
func (b *Interpreter) PrintTape() {
	b.WriteTape(b.out)
}

// WriteTape draws the print window to w.
//
//	  -1     0     1     2
//	+-----+-----+-----+-----+
//	|  0  |  1  |  2  |  0  |
//	+-----+-----+-----+-----+
//	               ^
func (b *Interpreter) WriteTape(w io.Writer) {
	size := b.opts.WindowSize

	fmt.Fprintf(w, "\n  %s", center3(strconv.Itoa(b.windowStart)))
	for i := b.windowStart + 1; i < b.windowStart+size; i++ {
		fmt.Fprintf(w, "   %s", center3(strconv.Itoa(i)))
	}
	fmt.Fprintln(w)

	border := strings.Repeat("+-----", size) + "+"
	fmt.Fprintln(w, border)
	for i := b.windowStart; i < b.windowStart+size; i++ {
		fmt.Fprintf(w, "| %s ", center3(strconv.Itoa(int(b.Cell(i)))))
	}
	fmt.Fprintln(w, "|")
	fmt.Fprintln(w, border)

	offset := b.addrPtr - b.windowStart
	if offset < 0 {
		offset = 0
	}
	fmt.Fprintf(w, "%s   ^\n", strings.Repeat("      ", offset))
}

// center3 centers s in three columns, odd padding goes on the right.
func center3(s string) string {
	pad := 3 - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
