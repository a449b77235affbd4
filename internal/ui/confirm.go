// Package ui provides the interactive and rendered parts of the command line:
// confirmation prompts, step progress, and the release summary table.
package ui

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// Confirmer asks the operator a yes/no question.
type Confirmer struct {
	ask func(prompt survey.Prompt, response any) error
}

// NewConfirmer creates a confirmer backed by survey.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		ask: func(prompt survey.Prompt, response any) error {
			return survey.AskOne(prompt, response)
		},
	}
}

// Confirm shows message and returns the operator's answer. The default is no.
func (c *Confirmer) Confirm(message string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}

	if err := c.ask(prompt, &ok); err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return ok, nil
}

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
