package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"

	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

// ErrAborted is returned when input ends before a prompt is answered.
var ErrAborted = apperrors.NewDomainError("ABORTED", "Operation cancelled.", apperrors.ExitInternal, nil)

// Prompter asks for missing option values line by line.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	color *color.Color
}

func NewPrompter(in io.Reader, out io.Writer, c *color.Color) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, color: c}
}

// Ask prints label and returns the trimmed answer. Empty answers are asked again.
func (p *Prompter) Ask(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		line, err := p.in.ReadString('\n')
		value := strings.TrimSpace(line)
		if value != "" {
			return value, nil
		}
		if err != nil {
			fmt.Fprintln(p.out)
			if err == io.EOF {
				return "", ErrAborted
			}
			return "", errors.Wrap(err, "read input")
		}
	}
}

// AskValid repeats the question until the validator registered for field
// accepts the answer.
func (p *Prompter) AskValid(label, field string) (string, error) {
	for {
		value, err := p.Ask(label)
		if err != nil {
			return "", err
		}
		normalized, err := validate.Validate(field, value)
		if err == nil {
			return normalized, nil
		}
		fmt.Fprintln(p.out, p.color.Red(err.Error()))
	}
}

// AskSecret reads a password. With confirm set the value must be typed twice.
// Input is echoed; the terminal is not switched to raw mode.
func (p *Prompter) AskSecret(label string, confirm bool) (string, error) {
	for {
		value, err := p.Ask(label)
		if err != nil || !confirm {
			return value, err
		}
		again, err := p.Ask("Repeat for confirmation")
		if err != nil {
			return "", err
		}
		if value == again {
			return value, nil
		}
		fmt.Fprintln(p.out, p.color.Red("Error: The two entered values do not match."))
	}
}

// option returns the flag value, or prompts for it when the flag is empty.
func (p *Prompter) option(value, label, field string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	if field == "" {
		return p.Ask(label)
	}
	return p.AskValid(label, field)
}
