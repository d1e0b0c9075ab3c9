package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"deepaclive/internal/unit"
)

var commandContext = exec.CommandContext

// Toolkit selects records from an alignment file and writes them as BAM or
// FASTA. Implementations write output directly; the Extractor hands them a
// temporary path and publishes it afterwards.
type Toolkit interface {
	Extract(ctx context.Context, input string, flags Flags, format string, output string) error
}

// Samtools runs the samtools binary.
type Samtools struct {
	binary  string
	threads int
}

// SamtoolsOption configures Samtools.
type SamtoolsOption func(*Samtools)

// WithBinary overrides the samtools executable.
func WithBinary(binary string) SamtoolsOption {
	return func(s *Samtools) {
		if strings.TrimSpace(binary) != "" {
			s.binary = binary
		}
	}
}

// WithThreads sets the number of additional compression threads (-@).
func WithThreads(threads int) SamtoolsOption {
	return func(s *Samtools) {
		if threads > 0 {
			s.threads = threads
		}
	}
}

// NewSamtools returns a samtools-backed Toolkit.
func NewSamtools(opts ...SamtoolsOption) *Samtools {
	s := &Samtools{binary: "samtools"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract runs "samtools view -b" for BAM output or "samtools fasta" for FASTA
// output, which is captured from stdout.
func (s *Samtools) Extract(ctx context.Context, input string, flags Flags, format string, output string) error {
	args := s.args(input, flags, format, output)
	cmd := commandContext(ctx, s.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if format == unit.ExtFASTA {
		out, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		cmd.Stdout = out
		runErr := cmd.Run()
		closeErr := out.Close()
		if runErr != nil {
			return fmt.Errorf("%s %s: %w: %s", s.binary, strings.Join(args, " "), runErr, strings.TrimSpace(stderr.String()))
		}
		return closeErr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", s.binary, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (s *Samtools) args(input string, flags Flags, format string, output string) []string {
	var args []string
	if format == unit.ExtFASTA {
		args = []string{"fasta"}
	} else {
		args = []string{"view", "-b"}
	}
	if s.threads > 0 {
		args = append(args, "-@", strconv.Itoa(s.threads))
	}
	if flags.Require != 0 {
		args = append(args, "-f", strconv.Itoa(int(flags.Require)))
	}
	if flags.Exclude != 0 {
		exclude := flags.Exclude
		if format == unit.ExtFASTA {
			exclude |= flagSecondary | flagSupplementary
		}
		args = append(args, "-F", strconv.Itoa(int(exclude)))
	}
	if format != unit.ExtFASTA {
		args = append(args, "-o", output)
	}
	return append(args, input)
}
