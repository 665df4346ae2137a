package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"refimpact/internal/analysis"
	"refimpact/internal/config"
	"refimpact/internal/graph"
	"refimpact/internal/output"
	"refimpact/internal/refactor"
)

var (
	configPath = flag.String("config", "./refimpact.toml", "Path to config file")
	rootPath   = flag.String("root", ".", "Project root to analyze")
	renameSpec = flag.String("rename", "", "Rename a symbol: module.old:new")
	moveSpec   = flag.String("move", "", "Move a module: module:new.location")
	splitSpec  = flag.String("split", "", "Split a module: module:sym=dest,sym=dest,...")
	jsonOut    = flag.Bool("json", false, "Emit the full report as JSON")
	mdOut      = flag.Bool("markdown", false, "Emit the report as markdown")
	dotPath    = flag.String("dot", "", "Write the import graph in DOT form to this file")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("refimpact v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no config file, using defaults", "path", *configPath)
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	op, err := parseOperation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := graph.Build(ctx, *rootPath, cfg)
	if err != nil {
		slog.Error("graph build failed", "error", err)
		os.Exit(1)
	}

	report, err := analysis.Evaluate(ctx, g, op)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if *dotPath != "" {
		text, err := output.NewDOTGenerator(g).Generate(report.Cycles)
		if err != nil {
			slog.Error("failed to render graph", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*dotPath, []byte(text), 0644); err != nil {
			slog.Error("failed to write graph", "error", err)
			os.Exit(1)
		}
	}

	switch {
	case *jsonOut:
		text, err := output.JSON(report)
		if err != nil {
			slog.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
		fmt.Print(text)
	case *mdOut:
		text, err := output.NewMarkdownGenerator(report).Generate()
		if err != nil {
			slog.Error("failed to render report", "error", err)
			os.Exit(1)
		}
		fmt.Print(text)
	default:
		fmt.Print(formatReport(report))
	}

	if report.Assessment.Level == refactor.High {
		os.Exit(3)
	}
}

// parseOperation turns exactly one of the operation flags into an Operation.
func parseOperation() (refactor.Operation, error) {
	given := 0
	for _, spec := range []string{*renameSpec, *moveSpec, *splitSpec} {
		if spec != "" {
			given++
		}
	}
	if given != 1 {
		return refactor.Operation{}, fmt.Errorf("exactly one of --rename, --move, --split is required")
	}

	switch {
	case *renameSpec != "":
		target, newSym, ok := strings.Cut(*renameSpec, ":")
		if !ok {
			return refactor.Operation{}, fmt.Errorf("invalid --rename %q: want module.old:new", *renameSpec)
		}
		dot := strings.LastIndex(target, ".")
		if dot <= 0 || dot == len(target)-1 || newSym == "" {
			return refactor.Operation{}, fmt.Errorf("invalid --rename %q: want module.old:new", *renameSpec)
		}
		return refactor.Rename(target[:dot], target[dot+1:], newSym), nil

	case *moveSpec != "":
		module, dest, ok := strings.Cut(*moveSpec, ":")
		if !ok || module == "" || dest == "" {
			return refactor.Operation{}, fmt.Errorf("invalid --move %q: want module:new.location", *moveSpec)
		}
		return refactor.Move(module, dest), nil

	default:
		module, spec, ok := strings.Cut(*splitSpec, ":")
		if !ok || module == "" || spec == "" {
			return refactor.Operation{}, fmt.Errorf("invalid --split %q: want module:sym=dest,...", *splitSpec)
		}
		partition := make(map[string]string)
		for _, pair := range strings.Split(spec, ",") {
			sym, dest, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || sym == "" || dest == "" {
				return refactor.Operation{}, fmt.Errorf("invalid --split assignment %q: want sym=dest", pair)
			}
			partition[sym] = dest
		}
		return refactor.Split(module, partition), nil
	}
}

func formatReport(report *analysis.Report) string {
	var b strings.Builder

	b.WriteString("Refactoring Impact Analysis\n")
	b.WriteString("===========================\n")
	b.WriteString(fmt.Sprintf("Operation: %s\n", report.Operation.Describe()))
	b.WriteString(fmt.Sprintf("Root: %s\n\n", report.Root))

	b.WriteString(fmt.Sprintf("Modules: %d  Edges: %d  Unresolved: %d  Skipped files: %d\n",
		report.Summary.Modules, report.Summary.ImportEdges,
		report.Summary.UnresolvedEdges, len(report.Skipped)))
	b.WriteString(fmt.Sprintf("Risk: %s\n", strings.ToUpper(report.Assessment.Level.String())))
	b.WriteString(fmt.Sprintf("Affected modules: %d  Import statements: %d\n\n",
		report.Assessment.Metrics.AffectedModules, report.Assessment.Metrics.ImportStatements))

	if len(report.Assessment.Warnings) > 0 {
		b.WriteString("Warnings\n")
		for _, w := range report.Assessment.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
		b.WriteString("\n")
	}

	if len(report.Cycles) > 0 {
		b.WriteString(fmt.Sprintf("Import cycles (%d)\n", len(report.Cycles)))
		for _, cycle := range report.Cycles {
			b.WriteString(fmt.Sprintf("- %s -> %s\n", strings.Join(cycle, " -> "), cycle[0]))
		}
		b.WriteString("\n")
	}

	if len(report.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("Skipped files (%d)\n", len(report.Skipped)))
		for _, s := range report.Skipped {
			b.WriteString(fmt.Sprintf("- %s: %s\n", s.Path, s.Reason))
		}
		b.WriteString("\n")
	}

	if len(report.Unresolved) > 0 {
		b.WriteString(fmt.Sprintf("Unresolved imports (%d)\n", len(report.Unresolved)))
		for _, u := range report.Unresolved {
			b.WriteString(fmt.Sprintf("- %s:%d -> %s\n", u.Module, u.Line, u.Target))
		}
		b.WriteString("\n")
	}

	if report.PreviewErr != "" {
		b.WriteString(fmt.Sprintf("Preview unavailable: %s\n", report.PreviewErr))
		return b.String()
	}

	files := report.Changes.Files()
	b.WriteString(fmt.Sprintf("Proposed changes: %d edits in %d files\n", report.Changes.EditCount(), len(files)))
	for _, file := range files {
		b.WriteString(fmt.Sprintf("\n%s\n", file))
		for _, edit := range report.Changes[file] {
			b.WriteString(fmt.Sprintf("  %4d - %s\n", edit.Line, edit.OldText))
			for _, line := range strings.Split(edit.NewText, "\n") {
				b.WriteString(fmt.Sprintf("       + %s\n", line))
			}
		}
	}

	return b.String()
}
