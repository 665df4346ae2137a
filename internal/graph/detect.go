package graph

import "strings"

// FindCycles returns every import cycle found by depth-first search over
// resolved edges, tracking the recursion stack: an edge reaching a module
// already on the stack closes a cycle, reconstructed by slicing the stack.
// Cycles are deduplicated by rotation, so A->B->C->A is reported once no
// matter which module the search entered it from.
func (g *DependencyGraph) FindCycles() [][]string {
	var cycles [][]string
	seen := make(map[string]bool)
	visited := make(map[ModuleID]bool)
	onStack := make(map[ModuleID]bool)

	var walk func(id ModuleID, path []ModuleID)
	walk = func(id ModuleID, path []ModuleID) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, edge := range g.modules[id].Imports {
			if !edge.Resolved {
				continue
			}
			next := edge.To
			if onStack[next] {
				start := -1
				for i, m := range path {
					if m == next {
						start = i
						break
					}
				}
				if start >= 0 {
					cycle := make([]string, 0, len(path)-start)
					for _, m := range path[start:] {
						cycle = append(cycle, g.modules[m].Name)
					}
					cycle = canonicalRotation(cycle)
					key := strings.Join(cycle, "\x00")
					if !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
				}
			} else if !visited[next] {
				walk(next, path)
			}
		}

		onStack[id] = false
	}

	// Iterate in ID order so discovery order is deterministic.
	for _, mod := range g.modules {
		if !visited[mod.ID] {
			walk(mod.ID, nil)
		}
	}

	return cycles
}

// canonicalRotation rotates a cycle so its lexicographically smallest
// module comes first.
func canonicalRotation(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	min := 0
	for i, name := range cycle {
		if name < cycle[min] {
			min = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[min:]...)
	rotated = append(rotated, cycle[:min]...)
	return rotated
}
