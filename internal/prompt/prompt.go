/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter defines the interface for user prompting
type Prompter interface {
	Confirm(message string) (bool, error)
}

// StdinPrompter implements Prompter using standard input
type StdinPrompter struct {
	input  io.Reader
	output io.Writer
}

// NewStdinPrompter creates a new prompter that reads from stdin
func NewStdinPrompter() *StdinPrompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// NewPrompter creates a prompter over arbitrary streams
func NewPrompter(input io.Reader, output io.Writer) *StdinPrompter {
	return &StdinPrompter{input: input, output: output}
}

// Confirm asks the question and reads one line. Only "Y" or "YES", exactly
// and after trimming surrounding whitespace, counts as confirmation.
func (p *StdinPrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.output, "%s [Y/YES to continue]: ", message)

	reader := bufio.NewReader(p.input)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	return IsConfirmation(line), nil
}

// IsConfirmation reports whether a line of input confirms
func IsConfirmation(line string) bool {
	switch strings.TrimSpace(line) {
	case "Y", "YES":
		return true
	default:
		return false
	}
}

// AutoApprove is a Prompter that confirms without asking
type AutoApprove struct{}

func (AutoApprove) Confirm(string) (bool, error) {
	return true, nil
}

// defaultPrompter is the package-level default prompter
var defaultPrompter Prompter = NewStdinPrompter()

// SetPrompter allows injection of a custom prompter (for testing)
func SetPrompter(p Prompter) {
	defaultPrompter = p
}

// GetDefaultPrompter returns the current default prompter
func GetDefaultPrompter() Prompter {
	return defaultPrompter
}

// Confirm asks for confirmation using the default prompter
func Confirm(message string) (bool, error) {
	return defaultPrompter.Confirm(message)
}
