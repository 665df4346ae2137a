package output

import (
	"fmt"
	"strings"

	"refimpact/internal/analysis"
)

type MarkdownGenerator struct {
	report *analysis.Report
}

func NewMarkdownGenerator(r *analysis.Report) *MarkdownGenerator {
	return &MarkdownGenerator{report: r}
}

// Generate renders the report as a markdown document suitable for pasting
// into a review or pull request description.
func (m *MarkdownGenerator) Generate() (string, error) {
	r := m.report
	var b strings.Builder

	fmt.Fprintf(&b, "# Impact Analysis: %s\n\n", r.Operation.Describe())
	fmt.Fprintf(&b, "Project root: `%s`\n\n", r.Root)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Modules | %d |\n", r.Summary.Modules)
	fmt.Fprintf(&b, "| Import edges | %d |\n", r.Summary.ImportEdges)
	fmt.Fprintf(&b, "| Unresolved edges | %d |\n", r.Summary.UnresolvedEdges)
	fmt.Fprintf(&b, "| Skipped files | %d |\n", len(r.Skipped))
	fmt.Fprintf(&b, "| Risk | **%s** |\n\n", strings.ToUpper(r.Assessment.Level.String()))

	if len(r.Assessment.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Assessment.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(r.Cycles) > 0 {
		b.WriteString("## Import Cycles\n\n")
		for _, cycle := range r.Cycles {
			fmt.Fprintf(&b, "- `%s -> %s`\n", strings.Join(cycle, " -> "), cycle[0])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Proposed Changes\n\n")
	switch {
	case r.PreviewErr != "":
		fmt.Fprintf(&b, "No preview available: %s\n\n", r.PreviewErr)
	case r.Changes.EditCount() == 0:
		b.WriteString("No edits required.\n\n")
	default:
		fmt.Fprintf(&b, "%d edits across %d files.\n\n", r.Changes.EditCount(), len(r.Changes.Files()))
		for _, file := range r.Changes.Files() {
			fmt.Fprintf(&b, "### `%s`\n\n", file)
			for _, edit := range r.Changes[file] {
				fmt.Fprintf(&b, "Line %d:\n\n```diff\n-%s\n+%s\n```\n\n", edit.Line, edit.OldText, edit.NewText)
			}
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped Files\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- `%s`: %s\n", s.Path, s.Reason)
		}
		b.WriteString("\n")
	}

	if len(r.Unresolved) > 0 {
		b.WriteString("## Unresolved Imports\n\n")
		for _, u := range r.Unresolved {
			fmt.Fprintf(&b, "- `%s` line %d: `%s`\n", u.Module, u.Line, u.Target)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
