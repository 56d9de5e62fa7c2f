package copilot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, int) {
	var out bytes.Buffer
	code := Main(args, &out)
	return out.String(), code
}

func TestTextCommand(t *testing.T) {
	out, code := run("text", "hello world", "--operation", "upper")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Result: HELLO WORLD\n")
	assert.Contains(t, out, "Copilot application initialized")

	out, code = run("text", "count these words", "--operation", "word_count")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Result: 3\n")

	out, code = run("text", "x", "--operation", "shout")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "unknown operation: shout")
}

func TestFileCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")

	out, code := run("file", "--write", path, "some content")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Content written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "some content", string(data))

	out, code = run("file", "--read", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "File content:\nsome content\n")

	out, code = run("file", "--read", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "file not found")

	out, code = run("file")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Please specify --read or --write operation")
	assert.NotContains(t, out, "Application error")
}

func TestLogLevel(t *testing.T) {
	out, code := run("--log-level", "error", "text", "abc")
	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "initialized")
	assert.Contains(t, out, "Result: ABC")

	_, code = run("--log-level", "TRACE", "text", "abc")
	assert.Equal(t, 1, code)
}

func TestNoCommandPrintsHelp(t *testing.T) {
	out, code := run()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Available Commands")
}

func TestInfoCommand(t *testing.T) {
	out, code := run("info")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "System Information:")
	for _, key := range []string{"platform", "go_version", "architecture", "processor", "current_directory"} {
		assert.Contains(t, out, "  "+key+": ")
	}
}

// inProcess runs the commands through Main instead of a child process
type inProcess struct {
	calls [][]string
}

func (r *inProcess) Run(_ context.Context, args []string) (string, string, error) {
	r.calls = append(r.calls, args)
	var out bytes.Buffer
	Main(append([]string{"--log-level", "ERROR"}, args...), &out)
	return out.String(), "", nil
}

func TestDemo(t *testing.T) {
	runner := &inProcess{}
	var out bytes.Buffer
	d := NewDemo(runner, &out)
	d.tmpDir = t.TempDir()

	require.NoError(t, d.Run(context.Background()))

	transcript := out.String()
	assert.True(t, strings.HasPrefix(transcript, "=== Copilot Application Demo ==="))
	assert.Contains(t, transcript, `$ copilot text "hello world" --operation upper`)
	assert.Contains(t, transcript, "Result: HELLO WORLD")
	assert.Contains(t, transcript, "Result: Go Programming")
	assert.Contains(t, transcript, "Result: txet siht esrever")
	assert.Contains(t, transcript, "Result: 4")
	assert.Contains(t, transcript, "This is a demonstration file created by the Copilot Application!")
	assert.Contains(t, transcript, "Cleaned up demo_file.txt")
	assert.Contains(t, transcript, "System Information:")
	assert.True(t, strings.HasSuffix(transcript, "=== Demo Complete ===\n"))
	assert.Len(t, runner.calls, 9)

	entries, err := os.ReadDir(d.tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppReadWrite(t *testing.T) {
	app := NewApp(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "f.txt")

	require.NoError(t, app.WriteFile(path, "abc"))
	content, err := app.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", content)

	assert.Error(t, app.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.txt"), "x"))
}

func TestQuoteArgs(t *testing.T) {
	assert.Equal(t, `text "a b" --operation upper`, quoteArgs([]string{"text", "a b", "--operation", "upper"}))
}
