// Package prompt reads the post-report export decision from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ExportToken is the answer that triggers a spreadsheet export.
const ExportToken = "ED"

// Prompter asks single-line questions. Reads block without a timeout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer. EOF counts as an empty answer.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// WantsExport reports whether the user typed ED (any case, surrounding space ignored).
func (p *Prompter) WantsExport() (bool, error) {
	answer, err := p.Ask("\nType ED and press Enter to export report to Excel (or any other key to exit): ")
	if err != nil {
		return false, err
	}
	return strings.ToUpper(answer) == ExportToken, nil
}

// Destination asks where to save the workbook, falling back to def on empty input.
func (p *Prompter) Destination(def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("Enter path to save Excel report (press Enter for default: %s): ", def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
