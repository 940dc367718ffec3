package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter collects interactive input. Commands default to os.Stdin; tests
// substitute a reader with scripted lines.
type prompter struct {
	in  *bufio.Reader
	raw io.Reader
}

func newPrompter(in io.Reader) *prompter {
	if in == nil {
		in = os.Stdin
	}
	return &prompter{in: bufio.NewReader(in), raw: in}
}

// line prints the prompt and reads one trimmed line.
func (p *prompter) line(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	s, err := p.in.ReadString('\n')
	if err != nil && s == "" {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// password reads a line with echo disabled when the input is a terminal,
// falling back to a plain line read otherwise.
func (p *prompter) password(out io.Writer, prompt string) (string, error) {
	if f, ok := p.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return p.line(out, prompt)
}
