package adminuser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the operator for values
type Prompter interface {
	Ask(question, fallback string) (string, error)
	Secret(question string) (string, error)
}

// LinePrompter reads answers line by line. When the input is a terminal,
// secrets are read with echo disabled.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewTerminalPrompter prompts on f, usually os.Stdin
func NewTerminalPrompter(f *os.File, out io.Writer) *LinePrompter {
	fd := int(f.Fd())

	return &LinePrompter{
		in:  bufio.NewReader(f),
		out: out,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
}

// NewReaderPrompter prompts on an arbitrary reader; secrets are echoed
func NewReaderPrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
}

// Ask returns fallback when the answer is blank
func (p *LinePrompter) Ask(question, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(p.out, " %s [%s]:\n > ", question, fallback)
	} else {
		fmt.Fprintf(p.out, " %s:\n > ", question)
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}

	if answer == "" {
		return fallback, nil
	}

	return answer, nil
}

func (p *LinePrompter) Secret(question string) (string, error) {
	fmt.Fprintf(p.out, " %s:\n > ", question)

	if !p.tty {
		return p.readLine()
	}

	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return strings.TrimSpace(string(b)), nil
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimSpace(line), nil
}
