package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"refimpact/internal/analysis"
	"refimpact/internal/config"
	"refimpact/internal/graph"
	"refimpact/internal/refactor"
)

func fixtureGraph(t *testing.T) *graph.DependencyGraph {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.py": "import b\nimport requests\n",
		"b.py": "import a\n",
		"c.py": "import a\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	g, err := graph.Build(context.Background(), root, config.Default())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestDOTGenerator(t *testing.T) {
	g := fixtureGraph(t)
	cycles := g.FindCycles()

	out, err := NewDOTGenerator(g).Generate(cycles)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(out, "digraph dependencies {") {
		t.Error("Expected a digraph header")
	}
	for _, want := range []string{`"a"`, `"b"`, `"c"`, `"requests"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %s", want)
		}
	}
	// The a<->b cycle is highlighted, the unresolved import is dashed.
	if !strings.Contains(out, "CYCLE") {
		t.Error("Expected cycle edges to be labeled")
	}
	if !strings.Contains(out, "style=dashed") {
		t.Error("Expected unresolved edges to render dashed")
	}
	if !strings.Contains(out, "mistyrose") {
		t.Error("Expected cycle members to be highlighted")
	}
}

func TestDOTGenerator_Deterministic(t *testing.T) {
	g := fixtureGraph(t)
	cycles := g.FindCycles()

	first, err := NewDOTGenerator(g).Generate(cycles)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewDOTGenerator(g).Generate(cycles)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Expected identical DOT output across runs")
	}
}

func sampleReport() *analysis.Report {
	return &analysis.Report{
		RunID:     "run-1",
		Root:      "/proj",
		Operation: refactor.Rename("a", "old", "new"),
		Summary:   analysis.Summary{Files: 3, Modules: 3, ImportEdges: 4, UnresolvedEdges: 1},
		Cycles:    [][]string{{"a", "b"}},
		Assessment: refactor.Assessment{
			Level:    refactor.Medium,
			Metrics:  refactor.Metrics{AffectedModules: 4, ImportStatements: 4, CycleCount: 1, MaxCycleLength: 2},
			Warnings: []string{"4 modules depend on a; review each affected import"},
		},
		Changes: refactor.ChangeSet{
			"/proj/b.py": {
				{File: "/proj/b.py", Line: 1, OldText: "from a import old", NewText: "from a import new"},
			},
		},
	}
}

func TestMarkdownGenerator(t *testing.T) {
	out, err := NewMarkdownGenerator(sampleReport()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"# Impact Analysis: rename a.old to new",
		"**MEDIUM**",
		"a -> b -> a",
		"review each affected import",
		"-from a import old",
		"+from a import new",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestMarkdownGenerator_PreviewError(t *testing.T) {
	r := sampleReport()
	r.Changes = nil
	r.PreviewErr = "preview: b uses a wildcard import of a"

	out, err := NewMarkdownGenerator(r).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "No preview available") {
		t.Error("Expected the preview error to be reported")
	}
}

func TestJSON(t *testing.T) {
	out, err := JSON(sampleReport())
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded analysis.Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded.RunID != "run-1" {
		t.Errorf("Expected run id preserved, got %s", decoded.RunID)
	}
	if decoded.Assessment.Level != refactor.Medium {
		t.Errorf("Expected risk level preserved, got %v", decoded.Assessment.Level)
	}
	if len(decoded.Changes["/proj/b.py"]) != 1 {
		t.Error("Expected changes preserved")
	}
}
