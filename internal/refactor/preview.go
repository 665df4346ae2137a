package refactor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"refimpact/internal/graph"
	"refimpact/internal/parser"
)

// ErrAmbiguousRewrite marks a rename whose new name is already visible in an
// affected module. Automatic disambiguation could silently change program
// behavior, so it is always surfaced instead of resolved.
var ErrAmbiguousRewrite = errors.New("ambiguous rewrite")

// PreviewError is recoverable at the orchestrator level: risk and cycle data
// are still returned when a preview cannot be produced.
type PreviewError struct {
	Reason string
	Err    error
}

func (e *PreviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("preview: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("preview: %s", e.Reason)
}

func (e *PreviewError) Unwrap() error { return e.Err }

// Preview computes the exact line-level edits the operation would require
// across every affected file. It only reads the sources the graph already
// holds; no file is ever opened or written.
func Preview(g *graph.DependencyGraph, op Operation) (ChangeSet, error) {
	var (
		cs  ChangeSet
		err error
	)
	switch op.Kind {
	case OpRename:
		cs, err = previewRename(g, op)
	case OpMove:
		cs, err = previewMove(g, op)
	case OpSplit:
		cs, err = previewSplit(g, op)
	default:
		err = &PreviewError{Reason: fmt.Sprintf("unsupported operation kind %v", op.Kind)}
	}
	if err != nil {
		return nil, err
	}
	cs.sortEdits()
	return cs, nil
}

func previewRename(g *graph.DependencyGraph, op Operation) (ChangeSet, error) {
	target, ok := g.ModuleByName(op.Module)
	if !ok {
		return nil, &PreviewError{Reason: fmt.Sprintf("module %s not found", op.Module)}
	}
	def, ok := targetSymbol(target, op.OldSymbol)
	if !ok {
		return nil, &PreviewError{Reason: fmt.Sprintf("symbol %s not defined in %s", op.OldSymbol, op.Module)}
	}

	targetFile := g.File(target.ID)
	if targetFile.BindsAtModuleLevel(op.NewSymbol) {
		return nil, &PreviewError{
			Reason: fmt.Sprintf("%s already binds %s", op.Module, op.NewSymbol),
			Err:    ErrAmbiguousRewrite,
		}
	}

	cs := ChangeSet{}

	// Defining module: the definition's name token plus every reference
	// that resolves to it. Constants surface their own definition as a
	// reference, so only function and class name tokens need the explicit
	// edit.
	rw := newRewriter(target.Path, g.Source(target.ID))
	if def.Kind != parser.KindConstant {
		rw.add(def.Line, def.Column, len(op.OldSymbol), op.NewSymbol)
	}
	if err := addBoundReferences(rw, targetFile, op.Module, op.OldSymbol, op.NewSymbol, def.StartByte); err != nil {
		return nil, err
	}
	rw.appendTo(cs)

	// Dependents: the import line plus every occurrence bound to that
	// import. Occurrences shadowed by a local binding are excluded.
	for _, dep := range g.Dependents(op.Module, false) {
		depFile := g.File(dep.ID)
		drw := newRewriter(dep.Path, g.Source(dep.ID))
		touched := false

		for _, edge := range dep.Imports {
			if !edge.Resolved || edge.To != target.ID {
				continue
			}
			if edge.ViaName {
				// The dependent imports the module itself as a name; its
				// symbols are reached by attribute access, which rename
				// does not touch.
				continue
			}
			if len(edge.Stmt.Names) == 0 {
				// "import a" followed by a.base(): attribute occurrences
				// are not tracked as references, so the rewrite cannot be
				// computed token-wise.
				return nil, &PreviewError{
					Reason: fmt.Sprintf("%s imports %s wholesale on line %d; attribute references to %s cannot be rewritten", dep.Name, op.Module, edge.Line, op.OldSymbol),
				}
			}
			for _, name := range edge.Stmt.Names {
				if name.Name == "*" {
					return nil, &PreviewError{
						Reason: fmt.Sprintf("%s uses a wildcard import of %s; references cannot be safely rewritten", dep.Name, op.Module),
					}
				}
				if name.Name != op.OldSymbol {
					continue
				}
				touched = true
				drw.add(name.Line, name.Column, len(op.OldSymbol), op.NewSymbol)
				if name.Alias == "" {
					if err := addBoundReferences(drw, depFile, dep.Name, op.OldSymbol, op.NewSymbol, name.Byte); err != nil {
						return nil, err
					}
				}
			}
		}

		if !touched {
			continue
		}
		if depFile.BindsAtModuleLevel(op.NewSymbol) {
			return nil, &PreviewError{
				Reason: fmt.Sprintf("%s already binds a symbol named %s", dep.Name, op.NewSymbol),
				Err:    ErrAmbiguousRewrite,
			}
		}
		drw.appendTo(cs)
	}

	return cs, nil
}

// addBoundReferences queues an edit for every reference to name whose
// visible binding is exactly the given binding site. A reference bound to a
// local definition, a parameter, or a module-level rebinding is left alone.
// A rewrite site where the replacement name is already bound in an enclosing
// scope would make the rewritten reference resolve to that binding instead,
// so it fails rather than silently changing behavior.
func addBoundReferences(rw *rewriter, file *parser.ParsedFile, moduleName, name, replacement string, bindingByte int) error {
	for _, ref := range file.References {
		if ref.Name != name {
			continue
		}
		bound, ok := file.BindingAt(name, ref.StartByte)
		if !ok || bound != bindingByte {
			continue
		}
		if file.BindsEnclosing(replacement, ref.StartByte) {
			return &PreviewError{
				Reason: fmt.Sprintf("%s already binds %s in a scope enclosing the use of %s on line %d", moduleName, replacement, name, ref.Line),
				Err:    ErrAmbiguousRewrite,
			}
		}
		rw.add(ref.Line, ref.Column, len(name), replacement)
	}
	return nil
}

func previewMove(g *graph.DependencyGraph, op Operation) (ChangeSet, error) {
	target, ok := g.ModuleByName(op.Module)
	if !ok {
		return nil, &PreviewError{Reason: fmt.Sprintf("module %s not found", op.Module)}
	}

	cs := ChangeSet{}
	for _, dep := range g.Dependents(op.Module, false) {
		drw := newRewriter(dep.Path, g.Source(dep.ID))
		touched := false
		for _, edge := range dep.Imports {
			if !edge.Resolved || edge.To != target.ID {
				continue
			}
			if edge.ViaName {
				// "from pkg import core": the statement's module token names
				// the parent package, so retargeting the import means
				// restructuring the statement, not substituting a token.
				return nil, &PreviewError{
					Reason: fmt.Sprintf("%s imports %s through its parent package on line %d; rewrite it manually", dep.Name, op.Module, edge.Line),
				}
			}
			// Only the module-name portion changes; imported names stay.
			drw.add(edge.Stmt.ModuleLine, edge.Stmt.ModuleColumn, len(edge.Stmt.Raw), op.NewLocation)
			touched = true
		}
		if touched {
			drw.appendTo(cs)
		}
	}
	return cs, nil
}

func previewSplit(g *graph.DependencyGraph, op Operation) (ChangeSet, error) {
	target, ok := g.ModuleByName(op.Module)
	if !ok {
		return nil, &PreviewError{Reason: fmt.Sprintf("module %s not found", op.Module)}
	}

	// Every symbol the module defines must land in exactly one destination.
	// Guessing a default bucket could silently strand a dependent.
	for _, sym := range target.Symbols {
		if _, assigned := op.Partition[sym.Name]; !assigned {
			return nil, &PreviewError{Reason: fmt.Sprintf("split partition leaves %s.%s unassigned", op.Module, sym.Name)}
		}
	}

	cs := ChangeSet{}
	for _, dep := range g.Dependents(op.Module, false) {
		drw := newRewriter(dep.Path, g.Source(dep.ID))
		touched := false

		for _, edge := range dep.Imports {
			if !edge.Resolved || edge.To != target.ID {
				continue
			}
			if edge.ViaName {
				return nil, &PreviewError{
					Reason: fmt.Sprintf("%s imports %s through its parent package on line %d; rewrite it manually", dep.Name, op.Module, edge.Line),
				}
			}
			if len(edge.Stmt.Names) == 0 {
				return nil, &PreviewError{
					Reason: fmt.Sprintf("%s imports %s wholesale; destination cannot be determined", dep.Name, op.Module),
				}
			}

			byDest := make(map[string][]parser.ImportedName)
			for _, name := range edge.Stmt.Names {
				if name.Name == "*" {
					return nil, &PreviewError{
						Reason: fmt.Sprintf("%s uses a wildcard import of %s; split destinations cannot be determined", dep.Name, op.Module),
					}
				}
				dest, assigned := op.Partition[name.Name]
				if !assigned {
					return nil, &PreviewError{
						Reason: fmt.Sprintf("split partition leaves %s.%s unassigned", op.Module, name.Name),
					}
				}
				byDest[dest] = append(byDest[dest], name)
			}

			oldLine := drw.line(edge.Stmt.Line)
			indent := oldLine[:len(oldLine)-len(strings.TrimLeft(oldLine, " \t"))]

			dests := make([]string, 0, len(byDest))
			for dest := range byDest {
				dests = append(dests, dest)
			}
			sort.Strings(dests)

			stmts := make([]string, 0, len(dests))
			for _, dest := range dests {
				stmts = append(stmts, indent+renderFromImport(dest, byDest[dest]))
			}

			drw.replaceLine(edge.Stmt.Line, strings.Join(stmts, "\n"))
			touched = true
		}

		if touched {
			drw.appendTo(cs)
		}
	}
	return cs, nil
}

func renderFromImport(module string, names []parser.ImportedName) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if n.Alias != "" {
			parts = append(parts, n.Name+" as "+n.Alias)
		} else {
			parts = append(parts, n.Name)
		}
	}
	return fmt.Sprintf("from %s import %s", module, strings.Join(parts, ", "))
}

func targetSymbol(mod *graph.Module, name string) (parser.SymbolDef, bool) {
	for _, s := range mod.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return parser.SymbolDef{}, false
}
