package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// passwordReader abstracts hidden terminal input for testing.
type passwordReader interface {
	ReadPassword() (string, error)
	IsTerminal() bool
}

// terminalReader reads passwords from the terminal using golang.org/x/term.
type terminalReader struct {
	fd int
}

func newTerminalReader(fd int) *terminalReader {
	return &terminalReader{fd: fd}
}

func (r *terminalReader) ReadPassword() (string, error) {
	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (r *terminalReader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// prompter abstracts line input and menu selection for testing.
type prompter interface {
	SelectOption(options []string) (int, error)
	ReadLine(prompt string) (string, error)
}

var errNoInput = errors.New("no input")

// terminalPrompter reads answers line by line. One buffered reader is kept
// for the prompter's lifetime so consecutive prompts do not lose input.
type terminalPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func newTerminalPrompter(r io.Reader, w io.Writer) *terminalPrompter {
	return &terminalPrompter{reader: bufio.NewReader(r), writer: w}
}

func (p *terminalPrompter) line() (string, error) {
	s, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimSpace(s), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *terminalPrompter) SelectOption(options []string) (int, error) {
	for {
		input, err := p.line()
		if err != nil {
			return 0, err
		}
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(options) {
			_, _ = fmt.Fprintf(p.writer, "Please enter a number between 1 and %d: ", len(options))
			continue
		}
		return idx - 1, nil
	}
}

// ReadLine prints prompt and returns the trimmed answer. End of input
// yields an empty answer.
func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.writer, prompt)
	s, err := p.line()
	if errors.Is(err, errNoInput) {
		return "", nil
	}
	return s, err
}

// readSecret prompts for hidden input on w.
func readSecret(w io.Writer, pr passwordReader, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)
	secret, err := pr.ReadPassword()
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return secret, nil
}

// promptIfEmpty asks for value when it was not given as a flag.
func promptIfEmpty(p prompter, value, prompt string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	return p.ReadLine(prompt)
}
