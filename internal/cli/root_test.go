package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// isolate points the config and cache directories at temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// execute runs the root command with args on a fresh CLI and returns what
// the command wrote to its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writePersons writes a small three-generation family to dir.
func writePersons(t *testing.T, dir string) string {
	t.Helper()
	persons := []family.Person{
		{ID: "A", Name: "Alice", SpouseIDs: []string{"B"}, Width: 100},
		{ID: "B", Name: "Bob", SpouseIDs: []string{"A"}, Width: 100},
		{ID: "C", FatherID: "B", MotherID: "A", SpouseIDs: []string{"E"}, Width: 100},
		{ID: "D", FatherID: "B", MotherID: "A", Width: 100},
		{ID: "E", SpouseIDs: []string{"C"}, Width: 100},
		{ID: "F", FatherID: "C", MotherID: "E", Width: 100},
	}
	data, err := json.Marshal(persons)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "family.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	want := []string{"layout", "highlight", "render", "visualize", "explore", "serve", "cache", "config", "version", "completion"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) error: %v", name, err)
			}
			if cmd.Name() != name {
				t.Errorf("Find(%q) = %q", name, cmd.Name())
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if want := buildinfo.Get().String(); strings.TrimSpace(out) != want {
		t.Errorf("version = %q, want %q", strings.TrimSpace(out), want)
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json error: %v", err)
	}
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if info != buildinfo.Get() {
		t.Errorf("version --json = %+v, want %+v", info, buildinfo.Get())
	}
}

func TestHighlightRequiresRoot(t *testing.T) {
	isolate(t)
	path := writePersons(t, t.TempDir())
	if _, err := execute(t, "highlight", path); err == nil {
		t.Error("highlight without --root should fail")
	}
}

func TestUnknownConfigFile(t *testing.T) {
	isolate(t)
	path := writePersons(t, t.TempDir())
	if _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "layout", path); err == nil {
		t.Error("layout with a missing explicit config file should fail")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", context.Canceled, ExitInterrupted},
		{"wrapped canceled", fmt.Errorf("compute layout: %w", context.Canceled), ExitInterrupted},
		{"coded canceled", lerrors.FromContext(context.Canceled), ExitInterrupted},
		{"invalid options", lerrors.New(lerrors.ErrCodeInvalidOptions, "attraction out of range"), ExitInvalid},
		{"invalid config", fmt.Errorf("load: %w", lerrors.New(lerrors.ErrCodeInvalidConfig, "bad toml")), ExitInvalid},
		{"unknown person", lerrors.New(lerrors.ErrCodeNotFound, "person %q not found", "Z"), ExitNotFound},
		{"missing file", lerrors.New(lerrors.ErrCodeFileNotFound, "no such file"), ExitNotFound},
		{"plain", io.ErrUnexpectedEOF, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExecuteReportsErrors(t *testing.T) {
	isolate(t)
	var stderr bytes.Buffer
	c := New(&stderr, log.InfoLevel)

	args := []string{"highlight", filepath.Join(t.TempDir(), "family.json")}
	if got := c.Execute(context.Background(), args); got == ExitOK {
		t.Fatalf("Execute() = %d, want a failure code", got)
	}
	if !strings.Contains(stderr.String(), "✗") {
		t.Errorf("stderr = %q, want an error line", stderr.String())
	}
}
