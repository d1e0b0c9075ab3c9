package classify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Runtime runs model inference over a FASTA file and writes a .npy score
// array to output.
type Runtime interface {
	Infer(ctx context.Context, model Model, input, output string) error
}

// CLI runs inference through the deepac command line.
type CLI struct {
	binary string
	cores  int
}

// CLIOption configures CLI.
type CLIOption func(*CLI)

// WithBinary overrides the model runtime executable.
func WithBinary(binary string) CLIOption {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithCores sets the number of worker processes the runtime may use.
func WithCores(cores int) CLIOption {
	return func(c *CLI) {
		if cores > 0 {
			c.cores = cores
		}
	}
}

// NewCLI returns a Runtime backed by the deepac executable.
func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{binary: "deepac"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the executable name.
func (c *CLI) Binary() string {
	return c.binary
}

// Infer implements Runtime.
func (c *CLI) Infer(ctx context.Context, model Model, input, output string) error {
	args := c.args(model, input, output)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", c.binary, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (c *CLI) args(model Model, input, output string) []string {
	args := []string{"predict"}
	if model.Custom() {
		args = append(args, "--model", model.File)
	} else {
		args = append(args, "--config", model.Config, "--weights", model.Weights)
	}
	if c.cores > 0 {
		args = append(args, "--n-cpus", strconv.Itoa(c.cores))
	}
	return append(args, "--output", output, input)
}
