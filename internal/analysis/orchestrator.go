// Package analysis runs the full pipeline for one refactoring request:
// graph build, cycle detection, risk assessment, and change preview, folded
// into a single report.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"refimpact/internal/config"
	"refimpact/internal/graph"
	"refimpact/internal/refactor"
	"refimpact/internal/shared/observability"
)

// Summary gives the top-line numbers for the analyzed project.
type Summary struct {
	Files           int `json:"files"`
	Modules         int `json:"modules"`
	ImportEdges     int `json:"import_edges"`
	UnresolvedEdges int `json:"unresolved_edges"`
}

// UnresolvedImport is the report-facing view of an edge that could not be
// mapped to a project module.
type UnresolvedImport struct {
	Module string `json:"module"`
	Target string `json:"target"`
	Line   int    `json:"line"`
}

// SkippedFile records a source file excluded from the graph and why.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report is the complete result of one analysis run. Recoverable problems
// (parse failures, unresolved imports, an impossible preview) are carried
// inside the report; only a failed graph build aborts the run.
type Report struct {
	RunID      string                `json:"run_id"`
	Root       string                `json:"root"`
	Operation  refactor.Operation    `json:"operation"`
	Summary    Summary               `json:"summary"`
	Skipped    []SkippedFile         `json:"skipped_files,omitempty"`
	Unresolved []UnresolvedImport    `json:"unresolved_imports,omitempty"`
	Cycles     [][]string            `json:"cycles,omitempty"`
	Assessment refactor.Assessment   `json:"assessment"`
	Changes    refactor.ChangeSet    `json:"changes,omitempty"`
	PreviewErr string                `json:"preview_error,omitempty"`
	Ambiguous  bool                  `json:"ambiguous,omitempty"`
	Duration   time.Duration         `json:"duration_ns"`
}

// Analyze builds the dependency graph for root and evaluates the operation
// against it. The context is checked between stages; each stage runs on the
// same immutable graph, so no stage can observe another's partial state.
func Analyze(ctx context.Context, root string, cfg *config.Config, op refactor.Operation) (*Report, error) {
	g, err := timedStage(ctx, "build", func() (*graph.DependencyGraph, error) {
		return graph.Build(ctx, root, cfg)
	})
	if err != nil {
		return nil, err
	}
	return Evaluate(ctx, g, op)
}

// Evaluate runs cycle detection, risk assessment, and change preview against
// an already-built graph. Callers that need the graph for other outputs
// build it once and pass it here.
func Evaluate(ctx context.Context, g *graph.DependencyGraph, op refactor.Operation) (*Report, error) {
	start := time.Now()

	report := &Report{
		RunID:     uuid.NewString(),
		Operation: op,
	}
	log := slog.With("run_id", report.RunID, "operation", op.Describe())
	log.Info("starting analysis", "root", g.Root())

	var err error
	report.Root = g.Root()
	report.Summary = Summary{
		Files:           g.ModuleCount() + len(g.SkippedFiles()),
		Modules:         g.ModuleCount(),
		ImportEdges:     g.EdgeCount(),
		UnresolvedEdges: len(g.UnresolvedImports()),
	}
	for _, d := range g.SkippedFiles() {
		report.Skipped = append(report.Skipped, SkippedFile{Path: d.Path, Reason: d.Reason})
	}
	for _, edge := range g.UnresolvedImports() {
		report.Unresolved = append(report.Unresolved, UnresolvedImport{
			Module: g.Module(edge.From).Name,
			Target: edge.Target,
			Line:   edge.Line,
		})
	}

	report.Cycles, err = timedStage(ctx, "cycles", func() ([][]string, error) {
		return g.FindCycles(), nil
	})
	if err != nil {
		return nil, err
	}

	report.Assessment, err = timedStage(ctx, "assess", func() (refactor.Assessment, error) {
		return refactor.Assess(g, op, report.Cycles), nil
	})
	if err != nil {
		return nil, err
	}

	changes, err := timedStage(ctx, "preview", func() (refactor.ChangeSet, error) {
		return refactor.Preview(g, op)
	})
	switch {
	case err == nil:
		report.Changes = changes
	case isPreviewError(err):
		// Risk and cycle results still stand; record why no preview exists.
		report.PreviewErr = err.Error()
		report.Ambiguous = errors.Is(err, refactor.ErrAmbiguousRewrite)
		log.Warn("preview unavailable", "reason", err)
	default:
		return nil, err
	}

	report.Duration = time.Since(start)
	log.Info("analysis complete",
		"modules", report.Summary.Modules,
		"edges", report.Summary.ImportEdges,
		"cycles", len(report.Cycles),
		"risk", report.Assessment.Level.String(),
		"edits", report.Changes.EditCount(),
		"duration", report.Duration,
	)
	return report, nil
}

func isPreviewError(err error) bool {
	var pe *refactor.PreviewError
	return errors.As(err, &pe)
}

func timedStage[T any](ctx context.Context, stage string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	start := time.Now()
	out, err := fn()
	observability.AnalysisDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return out, err
}
