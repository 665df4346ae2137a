package graph

import (
	"reflect"
	"testing"
)

func TestFindCycles_None(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import c\n",
		"c.py": "pass\n",
	})
	g := build(t, root)

	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("Expected no cycles, got %v", cycles)
	}
}

func TestFindCycles_TriangleReportedOnce(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import c\n",
		"c.py": "import a\n",
	})
	g := build(t, root)

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected exactly 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a", "b", "c"}) {
		t.Errorf("Expected canonical rotation [a b c], got %v", cycles[0])
	}
}

func TestFindCycles_EntryOrderIndependent(t *testing.T) {
	// The same triangle with file names that change which module DFS
	// visits first; the reported cycle must not change.
	root := writeTree(t, map[string]string{
		"m.py": "import x\n",
		"x.py": "import z\n",
		"z.py": "import m\n",
	})
	g := build(t, root)

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected exactly 1 cycle, got %d", len(cycles))
	}
	if !reflect.DeepEqual(cycles[0], []string{"m", "x", "z"}) {
		t.Errorf("Expected canonical rotation [m x z], got %v", cycles[0])
	}
}

func TestFindCycles_TwoModuleCycle(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import a\n",
		"c.py": "import a\n",
	})
	g := build(t, root)

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 2 {
		t.Errorf("Expected cycle of length 2, got %v", cycles[0])
	}
}

func TestFindCycles_UnresolvedEdgesIgnored(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import requests\n",
		"b.py": "import a\n",
	})
	g := build(t, root)

	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("Expected unresolved edges to be excluded from traversal, got %v", cycles)
	}
}
