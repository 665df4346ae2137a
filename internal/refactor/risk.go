package refactor

import (
	"fmt"

	"refimpact/internal/graph"
)

type Level int

const (
	Low Level = iota
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return "unknown"
}

// Metrics are derived per request and never cached across requests.
type Metrics struct {
	AffectedModules  int `json:"affected_modules"`
	ImportStatements int `json:"import_statements"`
	CycleCount       int `json:"cycle_count"`
	MaxCycleLength   int `json:"max_cycle_length"`
}

// Assessment is purely advisory: it informs the caller but never blocks a
// preview from running.
type Assessment struct {
	Level    Level    `json:"level"`
	Metrics  Metrics  `json:"metrics"`
	Warnings []string `json:"warnings,omitempty"`
}

// Assess computes impact metrics for the operation's target module and
// classifies them into a risk tier. Tiering is a deterministic threshold
// function of the transitive dependent count; a cycle touching the target
// raises the tier one level.
func Assess(g *graph.DependencyGraph, op Operation, cycles [][]string) Assessment {
	metrics := Metrics{
		CycleCount: len(cycles),
	}
	for _, cycle := range cycles {
		if len(cycle) > metrics.MaxCycleLength {
			metrics.MaxCycleLength = len(cycle)
		}
	}

	var warnings []string
	if _, ok := g.ModuleByName(op.Module); !ok {
		warnings = append(warnings, fmt.Sprintf("target module %s is not part of the graph", op.Module))
	}

	dependents := g.Dependents(op.Module, true)
	metrics.AffectedModules = len(dependents)
	metrics.ImportStatements = len(g.Incoming(op.Module))

	var level Level
	switch {
	case metrics.AffectedModules <= 2:
		level = Low
	case metrics.AffectedModules <= 5:
		level = Medium
		warnings = append(warnings, fmt.Sprintf("%d modules depend on %s; review each affected import", metrics.AffectedModules, op.Module))
	default:
		level = High
		warnings = append(warnings, fmt.Sprintf("%d modules depend on %s; consider a staged migration instead of one atomic change", metrics.AffectedModules, op.Module))
	}

	for _, cycle := range cycles {
		if containsModule(cycle, op.Module) {
			warnings = append(warnings, fmt.Sprintf("%s participates in an import cycle of length %d", op.Module, len(cycle)))
			if level < High {
				level++
			}
			break
		}
	}

	return Assessment{Level: level, Metrics: metrics, Warnings: warnings}
}

func containsModule(cycle []string, module string) bool {
	for _, m := range cycle {
		if m == module {
			return true
		}
	}
	return false
}
