package copilot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner runs the copilot binary with args
type CommandRunner interface {
	Run(ctx context.Context, args []string) (stdout, stderr string, err error)
}

// ExecRunner runs a binary on disk
type ExecRunner struct {
	path string
}

// NewExecRunner creates a runner for the binary at path
func NewExecRunner(path string) *ExecRunner {
	return &ExecRunner{path: path}
}

// Name returns the binary name shown in transcripts
func (r *ExecRunner) Name() string {
	return filepath.Base(r.path)
}

// Run executes the binary and captures its output. A non-zero exit status
// is not an error; the caller sees it through stderr and the exit error.
func (r *ExecRunner) Run(ctx context.Context, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, r.path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to run %s: %w", r.path, err)
	}
	return stdout.String(), stderr.String(), nil
}

// Demo drives the copilot commands and prints what they produce
type Demo struct {
	runner CommandRunner
	out    io.Writer
	name   string
	tmpDir string
}

// NewDemo creates a demo using runner, printing to out
func NewDemo(runner CommandRunner, out io.Writer) *Demo {
	name := "copilot"
	if named, ok := runner.(interface{ Name() string }); ok {
		name = named.Name()
	}
	return &Demo{runner: runner, out: out, name: name}
}

// Run executes every example in order
func (d *Demo) Run(ctx context.Context) error {
	fmt.Fprintln(d.out, "=== Copilot Application Demo ===")
	fmt.Fprintln(d.out)

	fmt.Fprintln(d.out, "1. Text Processing Examples:")
	textExamples := [][]string{
		{"text", "hello world", "--operation", "upper"},
		{"text", "HELLO WORLD", "--operation", "lower"},
		{"text", "go programming", "--operation", "title"},
		{"text", "reverse this text", "--operation", "reverse"},
		{"text", "count these words here", "--operation", "word_count"},
	}
	for _, args := range textExamples {
		if err := d.step(ctx, args); err != nil {
			return err
		}
	}

	fmt.Fprintln(d.out, "\n2. File Operations Examples:")
	dir, err := os.MkdirTemp(d.tmpDir, "copilot-demo-")
	if err != nil {
		return fmt.Errorf("failed to create demo directory: %w", err)
	}
	defer os.RemoveAll(dir)

	demoFile := filepath.Join(dir, "demo_file.txt")
	demoContent := "This is a demonstration file created by the Copilot Application!"
	if err := d.step(ctx, []string{"file", "--write", demoFile, demoContent}); err != nil {
		return err
	}
	if err := d.step(ctx, []string{"file", "--read", demoFile}); err != nil {
		return err
	}
	if err := os.Remove(demoFile); err == nil {
		fmt.Fprintf(d.out, "\nCleaned up %s\n", filepath.Base(demoFile))
	}

	fmt.Fprintln(d.out, "\n3. System Information:")
	if err := d.step(ctx, []string{"info"}); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\n4. Help Information:")
	if err := d.step(ctx, []string{"--help"}); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\n=== Demo Complete ===")
	return nil
}

func (d *Demo) step(ctx context.Context, args []string) error {
	fmt.Fprintf(d.out, "\n$ %s %s\n", d.name, quoteArgs(args))

	stdout, stderr, err := d.runner.Run(ctx, args)
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(stdout); s != "" {
		fmt.Fprintln(d.out, s)
	}
	if s := strings.TrimSpace(stderr); s != "" {
		fmt.Fprintf(d.out, "Error: %s\n", s)
	}
	return nil
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			quoted[i] = fmt.Sprintf("%q", arg)
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}
