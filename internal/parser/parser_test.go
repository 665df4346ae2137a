package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Imports(t *testing.T) {
	src := `import os
import os.path as osp
from collections import OrderedDict, defaultdict as dd
from . import sibling
from ..pkg import helper
`
	f, err := Parse([]byte(src), "mod.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(f.Imports) != 4 {
		t.Fatalf("Expected 4 imports, got %d", len(f.Imports))
	}

	if f.Imports[0].Module != "os" || f.Imports[0].Level != 0 {
		t.Errorf("Expected plain import of os, got %+v", f.Imports[0])
	}
	if f.Imports[1].Module != "os.path" {
		t.Errorf("Expected aliased import of os.path, got %+v", f.Imports[1])
	}

	from := f.Imports[2]
	if from.Module != "collections" || len(from.Names) != 2 {
		t.Fatalf("Expected from-import of collections with 2 names, got %+v", from)
	}
	if from.Names[0].Name != "OrderedDict" || from.Names[0].Alias != "" {
		t.Errorf("Expected first name OrderedDict, got %+v", from.Names[0])
	}
	if from.Names[1].Name != "defaultdict" || from.Names[1].Alias != "dd" {
		t.Errorf("Expected defaultdict as dd, got %+v", from.Names[1])
	}
	if from.Names[1].Local() != "dd" {
		t.Errorf("Expected local name dd, got %s", from.Names[1].Local())
	}

	rel := f.Imports[3]
	if rel.Level != 2 || rel.Module != "pkg" {
		t.Errorf("Expected relative import level 2 of pkg, got level %d module %q", rel.Level, rel.Module)
	}
}

func TestParse_RelativeDotOnly(t *testing.T) {
	src := "from . import sibling\n"
	f, err := Parse([]byte(src), "pkg/__init__.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(f.Imports))
	}
	imp := f.Imports[0]
	if imp.Level != 1 || imp.Module != "" {
		t.Errorf("Expected level 1 with empty module, got level %d module %q", imp.Level, imp.Module)
	}
	if len(imp.Names) != 1 || imp.Names[0].Name != "sibling" {
		t.Errorf("Expected imported name sibling, got %+v", imp.Names)
	}
}

func TestParse_Symbols(t *testing.T) {
	src := `MAX_RETRIES = 3

def compute(x):
    y = x + 1
    return y

class Worker:
    def run(self):
        pass
`
	f, err := Parse([]byte(src), "mod.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(f.Symbols) != 3 {
		t.Fatalf("Expected 3 top-level symbols, got %d: %+v", len(f.Symbols), f.Symbols)
	}

	checks := []struct {
		name string
		kind SymbolKind
	}{
		{"MAX_RETRIES", KindConstant},
		{"compute", KindFunction},
		{"Worker", KindClass},
	}
	for _, c := range checks {
		sym, ok := f.Symbol(c.name)
		if !ok {
			t.Errorf("Expected symbol %s", c.name)
			continue
		}
		if sym.Kind != c.kind {
			t.Errorf("Expected %s to be %s, got %s", c.name, c.kind, sym.Kind)
		}
	}

	// Nested def must not appear at the top level.
	if _, ok := f.Symbol("run"); ok {
		t.Error("Expected method run to be excluded from top-level symbols")
	}
	// Local assignment inside compute must not appear either.
	if _, ok := f.Symbol("y"); ok {
		t.Error("Expected local y to be excluded from top-level symbols")
	}
}

func TestParse_DynamicImports(t *testing.T) {
	src := `import importlib

mod = importlib.import_module("plugins.audio")
other = __import__(name)
`
	f, err := Parse([]byte(src), "mod.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var dynamic []RawImport
	for _, imp := range f.Imports {
		if imp.Dynamic {
			dynamic = append(dynamic, imp)
		}
	}
	if len(dynamic) != 2 {
		t.Fatalf("Expected 2 dynamic imports, got %d", len(dynamic))
	}
	if dynamic[0].Module != "plugins.audio" {
		t.Errorf("Expected literal argument captured, got %q", dynamic[0].Module)
	}
	if dynamic[1].Module != "" {
		t.Errorf("Expected computed argument to stay empty, got %q", dynamic[1].Module)
	}
}

func TestParse_SyntaxError(t *testing.T) {
	src := "def broken(:\n    pass\n"
	_, err := Parse([]byte(src), "broken.py")
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ParseError, got %T", err)
	}
	if pe.Path != "broken.py" {
		t.Errorf("Expected path broken.py, got %s", pe.Path)
	}
	if !strings.Contains(pe.Reason, "syntax error") {
		t.Errorf("Expected a syntax error reason, got %q", pe.Reason)
	}
}

func TestParse_ReferencesSkipAttributesAndKeywords(t *testing.T) {
	src := `import helpers

helpers.format(width=80)
value = helpers
`
	f, err := Parse([]byte(src), "mod.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	names := make(map[string]int)
	for _, ref := range f.References {
		names[ref.Name]++
	}
	if names["helpers"] != 2 {
		t.Errorf("Expected 2 references to helpers, got %d", names["helpers"])
	}
	if names["format"] != 0 {
		t.Errorf("Expected attribute name format to be skipped, got %d references", names["format"])
	}
	if names["width"] != 0 {
		t.Errorf("Expected keyword name width to be skipped, got %d references", names["width"])
	}
}
