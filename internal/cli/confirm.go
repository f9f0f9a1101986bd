package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/quizbank/internal/session"
)

// promptConfirmer asks on out and reads a y/N answer from in. EOF or any
// answer other than y/yes declines.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(i session.Intent) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", i)
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

const cancelled = "Cancelled."
