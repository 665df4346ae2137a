package refactor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"refimpact/internal/config"
	"refimpact/internal/graph"
)

// buildGraph materializes a map of relative path -> content under a temp dir
// and builds its dependency graph.
func buildGraph(t *testing.T, files map[string]string) *graph.DependencyGraph {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
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

// fanIn builds a graph where n modules each import the target directly.
func fanIn(t *testing.T, n int) *graph.DependencyGraph {
	t.Helper()
	files := map[string]string{"target.py": "def api():\n    pass\n"}
	for i := 0; i < n; i++ {
		files[fmt.Sprintf("dep%02d.py", i)] = "import target\n"
	}
	return buildGraph(t, files)
}

func TestAssess_LowRiskMove(t *testing.T) {
	g := buildGraph(t, map[string]string{
		"a.py": "pass\n",
		"b.py": "import a\n",
		"c.py": "pass\n",
	})

	got := Assess(g, Move("a", "lib.a"), g.FindCycles())
	if got.Level != Low {
		t.Errorf("Expected Low, got %s", got.Level)
	}
	if got.Metrics.AffectedModules != 1 {
		t.Errorf("Expected 1 affected module, got %d", got.Metrics.AffectedModules)
	}
	if got.Metrics.ImportStatements != 1 {
		t.Errorf("Expected 1 import statement, got %d", got.Metrics.ImportStatements)
	}
}

func TestAssess_Tiers(t *testing.T) {
	cases := []struct {
		dependents int
		want       Level
	}{
		{0, Low},
		{2, Low},
		{3, Medium},
		{5, Medium},
		{6, High},
		{9, High},
	}
	for _, c := range cases {
		g := fanIn(t, c.dependents)
		got := Assess(g, Move("target", "lib.target"), nil)
		if got.Level != c.want {
			t.Errorf("Expected %s for %d dependents, got %s", c.want, c.dependents, got.Level)
		}
		if got.Metrics.AffectedModules != c.dependents {
			t.Errorf("Expected %d affected modules, got %d", c.dependents, got.Metrics.AffectedModules)
		}
		if got.Level > Low && len(got.Warnings) == 0 {
			t.Errorf("Expected a warning at %s", got.Level)
		}
	}
}

func TestAssess_Monotonic(t *testing.T) {
	prev := Low
	for n := 0; n <= 8; n++ {
		g := fanIn(t, n)
		got := Assess(g, Move("target", "lib.target"), nil)
		if got.Level < prev {
			t.Fatalf("Expected risk not to decrease, went %s -> %s at %d dependents", prev, got.Level, n)
		}
		prev = got.Level
	}
}

func TestAssess_TransitiveDependentsCounted(t *testing.T) {
	g := buildGraph(t, map[string]string{
		"a.py": "pass\n",
		"b.py": "import a\n",
		"c.py": "import b\n",
		"d.py": "import c\n",
	})

	got := Assess(g, Rename("a", "x", "y"), nil)
	if got.Metrics.AffectedModules != 3 {
		t.Errorf("Expected 3 transitive dependents, got %d", got.Metrics.AffectedModules)
	}
	if got.Level != Medium {
		t.Errorf("Expected Medium, got %s", got.Level)
	}
}

func TestAssess_CycleRaisesLevel(t *testing.T) {
	g := buildGraph(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import a\n",
	})
	cycles := g.FindCycles()

	got := Assess(g, Move("a", "lib.a"), cycles)
	if got.Metrics.CycleCount != 1 || got.Metrics.MaxCycleLength != 2 {
		t.Errorf("Expected cycle metrics (1, 2), got (%d, %d)", got.Metrics.CycleCount, got.Metrics.MaxCycleLength)
	}
	// One dependent would be Low; the cycle through the target raises it.
	if got.Level != Medium {
		t.Errorf("Expected cycle to raise Low to Medium, got %s", got.Level)
	}
	if len(got.Warnings) == 0 {
		t.Error("Expected a cycle warning")
	}
}

func TestAssess_CycleNotTouchingTarget(t *testing.T) {
	g := buildGraph(t, map[string]string{
		"a.py": "pass\n",
		"b.py": "import a\n",
		"x.py": "import y\n",
		"y.py": "import x\n",
	})
	cycles := g.FindCycles()

	got := Assess(g, Move("a", "lib.a"), cycles)
	if got.Level != Low {
		t.Errorf("Expected unrelated cycle not to raise the level, got %s", got.Level)
	}
}

func TestAssess_UnknownTarget(t *testing.T) {
	g := buildGraph(t, map[string]string{"a.py": "pass\n"})

	got := Assess(g, Move("ghost", "lib.ghost"), nil)
	if got.Level != Low {
		t.Errorf("Expected Low for unknown target, got %s", got.Level)
	}
	if got.Metrics.AffectedModules != 0 {
		t.Errorf("Expected 0 affected modules, got %d", got.Metrics.AffectedModules)
	}
	if len(got.Warnings) == 0 {
		t.Error("Expected a warning for an unknown target")
	}
}
