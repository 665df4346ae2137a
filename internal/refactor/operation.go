// Package refactor assesses and previews structural changes against a built
// dependency graph. Nothing in this package ever writes to disk.
package refactor

import "fmt"

type OpKind int

const (
	OpRename OpKind = iota
	OpMove
	OpSplit
)

func (k OpKind) String() string {
	switch k {
	case OpRename:
		return "rename"
	case OpMove:
		return "move"
	case OpSplit:
		return "split"
	}
	return "unknown"
}

// Operation is a proposed structural change, not yet applied. It is a
// read-only input to Assess and Preview.
type Operation struct {
	Kind   OpKind `json:"kind"`
	Module string `json:"module"`

	// Rename
	OldSymbol string `json:"old_symbol,omitempty"`
	NewSymbol string `json:"new_symbol,omitempty"`

	// Move
	NewLocation string `json:"new_location,omitempty"`

	// Split: symbol -> destination module
	Partition map[string]string `json:"partition,omitempty"`
}

func Rename(module, oldSymbol, newSymbol string) Operation {
	return Operation{Kind: OpRename, Module: module, OldSymbol: oldSymbol, NewSymbol: newSymbol}
}

func Move(module, newLocation string) Operation {
	return Operation{Kind: OpMove, Module: module, NewLocation: newLocation}
}

func Split(module string, partition map[string]string) Operation {
	return Operation{Kind: OpSplit, Module: module, Partition: partition}
}

func (op Operation) Describe() string {
	switch op.Kind {
	case OpRename:
		return fmt.Sprintf("rename %s.%s to %s", op.Module, op.OldSymbol, op.NewSymbol)
	case OpMove:
		return fmt.Sprintf("move %s to %s", op.Module, op.NewLocation)
	case OpSplit:
		return fmt.Sprintf("split %s into %d destinations", op.Module, len(destinations(op.Partition)))
	}
	return "unknown operation"
}

func destinations(partition map[string]string) map[string]bool {
	dests := make(map[string]bool, len(partition))
	for _, dest := range partition {
		dests[dest] = true
	}
	return dests
}
