package graph

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"refimpact/internal/config"
	"refimpact/internal/parser"
	"refimpact/internal/resolver"
	"refimpact/internal/shared/observability"
)

// BuildError is fatal: the project root is missing or unreadable, so no
// partial analysis is possible. Per-file parse failures never produce it.
type BuildError struct {
	Root string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build graph for %s: %v", e.Root, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build walks the project root, parses every matching source file across a
// worker pool and assembles the dependency graph in a single-threaded reduce
// step. Parse results are consumed in sorted file-path order regardless of
// completion order, so edge ordering is reproducible across runs.
func Build(ctx context.Context, root string, cfg *config.Config) (*DependencyGraph, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &BuildError{Root: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &BuildError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &BuildError{Root: root, Err: fmt.Errorf("not a directory")}
	}

	paths, err := discover(absRoot, cfg)
	if err != nil {
		return nil, &BuildError{Root: root, Err: err}
	}
	sort.Strings(paths)

	type parseResult struct {
		file *parser.ParsedFile
		src  []byte
		err  error
	}
	results := make([]parseResult, len(paths))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	eg, groupCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, path := range paths {
		eg.Go(func() error {
			// Coarse cancellation: checked per file, an in-flight parse
			// is allowed to complete.
			if err := groupCtx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				results[i] = parseResult{err: err}
				observability.ParseFailures.Inc()
				return nil
			}
			file, err := parser.Parse(src, path)
			if err != nil {
				results[i] = parseResult{err: err}
				observability.ParseFailures.Inc()
				return nil
			}
			results[i] = parseResult{file: file, src: src}
			observability.FilesParsed.Inc()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g := &DependencyGraph{
		root:   absRoot,
		byName: make(map[string]ModuleID),
	}

	// First pass: register modules in path order so IDs are deterministic.
	for i, path := range paths {
		res := results[i]
		if res.err != nil {
			slog.Warn("skipping unparsable file", "path", path, "error", res.err)
			g.skipped = append(g.skipped, Diagnostic{Path: path, Reason: res.err.Error()})
			continue
		}

		name := resolver.ModuleName(absRoot, path)
		if name == "" {
			g.skipped = append(g.skipped, Diagnostic{Path: path, Reason: "cannot derive module name"})
			continue
		}
		if _, exists := g.byName[name]; exists {
			g.skipped = append(g.skipped, Diagnostic{Path: path, Reason: fmt.Sprintf("duplicate module name %s", name)})
			continue
		}

		id := ModuleID(len(g.modules))
		g.modules = append(g.modules, &Module{
			ID:      id,
			Name:    name,
			Path:    path,
			Symbols: res.file.Symbols,
		})
		g.byName[name] = id
		g.files = append(g.files, res.file)
		g.sources = append(g.sources, res.src)
	}

	// Second pass: resolve imports and mirror resolved edges into reverse
	// adjacency. Both directions are built together so lookups are O(1)
	// either way.
	g.reverse = make([][]*ImportEdge, len(g.modules))
	for _, mod := range g.modules {
		file := g.files[mod.ID]
		isPkg := resolver.IsPackage(mod.Path)

		for _, imp := range file.Imports {
			target := imp.Module
			if !imp.Dynamic && imp.Level > 0 {
				target = resolver.ResolveRelative(mod.Name, imp.Module, imp.Level, isPkg)
			}

			// "from pkg import core" may name submodules rather than
			// symbols. Names that resolve to a module get their own edge;
			// the rest share one edge to the statement's base target.
			symbolNames := false
			if !imp.Dynamic && len(imp.Names) > 0 {
				for _, nm := range imp.Names {
					if nm.Name == "*" {
						symbolNames = true
						continue
					}
					candidate := nm.Name
					if target != "" {
						candidate = target + "." + nm.Name
					}
					toID, ok := g.byName[candidate]
					if !ok || toID == mod.ID {
						symbolNames = true
						continue
					}
					edge := &ImportEdge{
						From:     mod.ID,
						To:       toID,
						Target:   candidate,
						Line:     imp.Line,
						Resolved: true,
						ViaName:  true,
						Stmt:     imp,
					}
					mod.Imports = append(mod.Imports, edge)
					g.reverse[toID] = append(g.reverse[toID], edge)
				}
				if !symbolNames {
					continue
				}
			}

			edge := &ImportEdge{
				From:   mod.ID,
				To:     -1,
				Target: target,
				Line:   imp.Line,
				Stmt:   imp,
			}
			if !imp.Dynamic {
				// A module never depends on itself; a self-target stays
				// unresolved and surfaces in diagnostics.
				if toID, ok := g.byName[target]; ok && toID != mod.ID {
					edge.To = toID
					edge.Resolved = true
				}
			}

			mod.Imports = append(mod.Imports, edge)
			if edge.Resolved {
				g.reverse[edge.To] = append(g.reverse[edge.To], edge)
			} else {
				g.unresolved = append(g.unresolved, edge)
			}
		}
	}

	observability.GraphModules.Set(float64(len(g.modules)))
	observability.GraphEdges.Set(float64(g.EdgeCount()))

	return g, nil
}

func discover(root string, cfg *config.Config) ([]string, error) {
	includeGlobs, err := compileGlobs(cfg.Include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	dirGlobs, err := compileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	fileGlobs, err := compileGlobs(cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != root {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		included := false
		for _, g := range includeGlobs {
			if g.Match(base) {
				included = true
				break
			}
		}
		if !included {
			return nil
		}

		for _, g := range fileGlobs {
			if g.Match(base) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
