package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nao1215/adoperator/internal/wizard"
)

// errNoInput is returned when stdin ends before an answer is read.
var errNoInput = errors.New("no input")

// console prints wizard toasts and loading messages to stderr and reads
// answers from stdin.
type console struct {
	out io.Writer

	mu   sync.Mutex
	last string

	in *bufio.Reader
}

var _ wizard.Notifier = (*console)(nil)

func newConsole(out io.Writer, in io.Reader) *console {
	return &console{out: out, in: bufio.NewReader(in)}
}

// Error implements wizard.Notifier.
func (c *console) Error(msg string) {
	fmt.Fprintf(c.out, "✗ %s\n", msg)
}

// Success implements wizard.Notifier.
func (c *console) Success(msg string) {
	fmt.Fprintf(c.out, "✓ %s\n", msg)
}

// Loading prints each new loading message once. It receives "" when the
// stage settles.
func (c *console) Loading(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg == "" || msg == c.last {
		c.last = msg
		return
	}
	c.last = msg
	fmt.Fprintf(c.out, "… %s\n", msg)
}

// Ask prints label and returns the trimmed line typed by the user.
func (c *console) Ask(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Anything but an explicit yes is a no.
func (c *console) Confirm(question string) (bool, error) {
	answer, err := c.Ask(question + " [s/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// required returns value, or asks for it when empty.
func (c *console) required(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	v, err := c.Ask(label)
	if err != nil {
		return "", fmt.Errorf("%s is required: %w", strings.ToLower(label), err)
	}
	if v == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return v, nil
}
