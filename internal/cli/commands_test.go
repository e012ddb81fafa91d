package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
)

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writePersons(t, dir)

	t.Run("default output", func(t *testing.T) {
		out, err := execute(t, "layout", input, "--no-cache")
		if err != nil {
			t.Fatalf("layout error: %v", err)
		}
		if !strings.Contains(out, "Layout complete") || !strings.Contains(out, "6 persons") {
			t.Errorf("layout output = %q", out)
		}
		l, err := graph.ReadLayoutFile(filepath.Join(dir, "family.layout.json"))
		if err != nil {
			t.Fatalf("ReadLayoutFile() error: %v", err)
		}
		if got := countPersons(l); got != 6 {
			t.Errorf("persons = %d, want 6", got)
		}
		if len(l.Rows) != 3 {
			t.Errorf("rows = %d, want 3", len(l.Rows))
		}
	})

	t.Run("explicit output", func(t *testing.T) {
		out := filepath.Join(dir, "custom.json")
		if _, err := execute(t, "layout", input, "-o", out, "--grid", "20", "--attraction", "1"); err != nil {
			t.Fatalf("layout error: %v", err)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("stat %s: %v", out, err)
		}
	})

	t.Run("invalid attraction", func(t *testing.T) {
		if _, err := execute(t, "layout", input, "--no-cache", "--attraction", "1.5"); err == nil {
			t.Error("layout with attraction 1.5 should fail")
		}
	})

	t.Run("missing input", func(t *testing.T) {
		if _, err := execute(t, "layout", filepath.Join(dir, "nope.json")); err == nil {
			t.Error("layout with a missing input should fail")
		}
	})
}

func TestHighlightCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writePersons(t, dir)
	layoutPath := filepath.Join(dir, "highlighted.json")

	out, err := execute(t, "highlight", input, "--root", "F", "--json", "-o", layoutPath, "--no-cache")
	if err != nil {
		t.Fatalf("highlight error: %v", err)
	}

	var bl highlight.Bloodline
	if err := json.Unmarshal([]byte(out), &bl); err != nil {
		t.Fatalf("decode bloodline %q: %v", out, err)
	}
	if bl.Root != "F" {
		t.Errorf("root = %q, want F", bl.Root)
	}
	members := map[string]bool{}
	for _, id := range bl.Persons {
		members[id] = true
	}
	for _, id := range []string{"A", "B", "C", "E", "F"} {
		if !members[id] {
			t.Errorf("bloodline missing %s", id)
		}
	}
	if members["D"] {
		t.Error("bloodline should not contain D")
	}

	l, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if l.Root != "F" {
		t.Errorf("layout root = %q, want F", l.Root)
	}

	if _, err := execute(t, "highlight", input, "--root", "Z", "--no-cache"); err == nil {
		t.Error("highlight of an unknown person should fail")
	}
}

func TestRenderAndVisualizeCommands(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writePersons(t, dir)
	base := filepath.Join(dir, "out", "tree")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "render", input, "-f", "json,dot", "-o", base, "--highlight", "F"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "digraph G") {
		t.Errorf("dot output missing graph header:\n%s", dot)
	}

	// The json artifact is a layout file that visualize accepts.
	dotPath := filepath.Join(dir, "again.dot")
	if _, err := execute(t, "visualize", base+".json", "-f", "dot", "-o", dotPath); err != nil {
		t.Fatalf("visualize error: %v", err)
	}
	again, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(again), "highlight-edge") {
		t.Errorf("visualize should keep the highlighted bloodline:\n%s", again)
	}

	if _, err := execute(t, "render", input, "-f", "gif"); err == nil {
		t.Error("render with an unknown format should fail")
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	path, err := config.Path()
	if err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}

	if _, err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := config.Parse(data); err != nil {
		t.Errorf("written config does not parse: %v", err)
	}
	if _, err := execute(t, "config", "init"); err == nil {
		t.Error("config init over an existing file should fail without --force")
	}
	if _, err := execute(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error: %v", err)
	}

	out, err = execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(out, "[layout]") {
		t.Errorf("config show missing [layout] table:\n%s", out)
	}
}
