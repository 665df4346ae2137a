// Package graph builds and queries the whole-project import graph.
package graph

import (
	"sort"

	"refimpact/internal/parser"
)

// ModuleID is a stable integer handle into the graph's module arena.
// Modules are indexed in sorted-file-path order, so IDs are deterministic
// for a given filesystem snapshot.
type ModuleID int

// Module is one analyzable source file under its canonical dotted name.
// Modules are created during Build and never mutated afterwards.
type Module struct {
	ID      ModuleID
	Name    string
	Path    string
	Imports []*ImportEdge
	Symbols []parser.SymbolDef
}

// ImportEdge records that one module references names from another. An
// unresolved edge (external package, dynamic import, unknown name) has
// To == -1 and participates in diagnostics only, never in traversal.
//
// ViaName marks an edge created by a from-import whose imported name is
// itself a module ("from pkg import core"): the statement's module token
// names the parent package, not the edge target.
type ImportEdge struct {
	From     ModuleID
	To       ModuleID
	Target   string // canonical dotted target after relative resolution
	Line     int
	Resolved bool
	ViaName  bool
	Stmt     parser.RawImport
}

// Diagnostic records a file that could not be analyzed and why.
type Diagnostic struct {
	Path   string
	Reason string
}

// DependencyGraph holds forward and reverse adjacency over the project's
// modules, both built in one pass. It is immutable once Build returns and
// safe to share across concurrent read-only analyses.
type DependencyGraph struct {
	root       string
	modules    []*Module
	byName     map[string]ModuleID
	reverse    [][]*ImportEdge
	files      []*parser.ParsedFile
	sources    [][]byte
	unresolved []*ImportEdge
	skipped    []Diagnostic
}

func (g *DependencyGraph) Root() string { return g.root }

// Modules returns all modules in deterministic (file-path) order. Callers
// must treat the result as read-only.
func (g *DependencyGraph) Modules() []*Module { return g.modules }

func (g *DependencyGraph) ModuleCount() int { return len(g.modules) }

func (g *DependencyGraph) Module(id ModuleID) *Module {
	if id < 0 || int(id) >= len(g.modules) {
		return nil
	}
	return g.modules[id]
}

func (g *DependencyGraph) ModuleByName(name string) (*Module, bool) {
	id, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.modules[id], true
}

func (g *DependencyGraph) EdgeCount() int {
	n := 0
	for _, m := range g.modules {
		n += len(m.Imports)
	}
	return n
}

// File returns the parsed representation backing a module.
func (g *DependencyGraph) File(id ModuleID) *parser.ParsedFile {
	if id < 0 || int(id) >= len(g.files) {
		return nil
	}
	return g.files[id]
}

// Source returns the raw bytes the module was parsed from. The graph keeps
// them so that previews never re-read (or touch) the filesystem.
func (g *DependencyGraph) Source(id ModuleID) []byte {
	if id < 0 || int(id) >= len(g.sources) {
		return nil
	}
	return g.sources[id]
}

// UnresolvedImports returns every edge that could not be mapped to a known
// module, in deterministic order.
func (g *DependencyGraph) UnresolvedImports() []*ImportEdge { return g.unresolved }

// SkippedFiles returns the diagnostics for files that failed to parse.
func (g *DependencyGraph) SkippedFiles() []Diagnostic { return g.skipped }

// Dependents answers "who imports this module". Direct mode walks one level
// of reverse adjacency; transitive mode computes the full closure via
// breadth-first search with a visited set, so cycles terminate. An unknown
// target yields an empty result, not an error: modules may be queried
// speculatively before they exist.
func (g *DependencyGraph) Dependents(target string, transitive bool) []*Module {
	id, ok := g.byName[target]
	if !ok {
		return nil
	}

	seen := make(map[ModuleID]bool)
	var out []*Module

	collect := func(of ModuleID) []ModuleID {
		var next []ModuleID
		for _, edge := range g.reverse[of] {
			if !seen[edge.From] && edge.From != id {
				seen[edge.From] = true
				out = append(out, g.modules[edge.From])
				next = append(next, edge.From)
			}
		}
		return next
	}

	queue := collect(id)
	if transitive {
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			queue = append(queue, collect(curr)...)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Incoming returns the resolved edges pointing at the named module, or nil
// when the module is unknown.
func (g *DependencyGraph) Incoming(target string) []*ImportEdge {
	id, ok := g.byName[target]
	if !ok {
		return nil
	}
	return g.reverse[id]
}
