// Package deps locates the external programs a stage drives and reports
// what it found.
package deps

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrNotConfigured marks a tool whose binary setting is empty.
var ErrNotConfigured = errors.New("binary not configured")

// versionTimeout bounds a version probe; a hung tool must not stall startup.
const versionTimeout = 5 * time.Second

// Tool is an external program a stage may execute.
type Tool struct {
	Name    string
	Binary  string
	Purpose string
	// VersionArgs, when set, are run against the resolved binary and the
	// first line of output is reported as the version.
	VersionArgs []string
}

// Finding is the outcome of probing one Tool.
type Finding struct {
	Tool    Tool
	Path    string
	Version string
	Err     error
}

// OK reports whether the tool was found.
func (f Finding) OK() bool { return f.Err == nil }

// Describe summarizes the finding in one line.
func (f Finding) Describe() string {
	if f.Err != nil {
		return fmt.Sprintf("%v (%s)", f.Err, f.Tool.Purpose)
	}
	if f.Version != "" {
		return f.Path + " (" + f.Version + ")"
	}
	return f.Path
}

// Probe resolves each tool on PATH and, where requested, records its version.
// A failing version probe does not mark the tool missing.
func Probe(ctx context.Context, tools ...Tool) []Finding {
	findings := make([]Finding, 0, len(tools))
	for _, tool := range tools {
		finding := Finding{Tool: tool}
		binary := strings.TrimSpace(tool.Binary)
		switch path, err := exec.LookPath(binary); {
		case binary == "":
			finding.Err = ErrNotConfigured
		case err != nil:
			finding.Err = fmt.Errorf("%q not found on PATH", binary)
		default:
			finding.Path = path
			if len(tool.VersionArgs) > 0 {
				finding.Version = version(ctx, path, tool.VersionArgs)
			}
		}
		findings = append(findings, finding)
	}
	return findings
}

func version(ctx context.Context, path string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return ""
	}
	line, _, _ := bufio.NewReader(bytes.NewReader(out)).ReadLine()
	return strings.TrimSpace(string(line))
}
