package parser

import "sort"

// Scope is a lexical scope covering a byte range of the file. Bindings map a
// name to the byte offsets where it is bound inside this scope, in ascending
// order. Import statements bind into the module scope like any other binding,
// so resolving an identifier is a single walk from the innermost scope
// outward.
type Scope struct {
	Start, End int
	Bindings   map[string][]int
	Children   []*Scope
	Parent     *Scope
}

func NewScope(parent *Scope, start, end int) *Scope {
	s := &Scope{
		Start:    start,
		End:      end,
		Bindings: make(map[string][]int),
		Parent:   parent,
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Bind records a binding site for name, keeping the offsets sorted.
func (s *Scope) Bind(name string, offset int) {
	offs := s.Bindings[name]
	i := sort.SearchInts(offs, offset)
	if i < len(offs) && offs[i] == offset {
		return
	}
	offs = append(offs, 0)
	copy(offs[i+1:], offs[i:])
	offs[i] = offset
	s.Bindings[name] = offs
}

// innermost returns the deepest scope whose range contains pos.
func (s *Scope) innermost(pos int) *Scope {
	for _, c := range s.Children {
		if pos >= c.Start && pos < c.End {
			return c.innermost(pos)
		}
	}
	return s
}

// BindingAt resolves name as seen from byte position pos: walking from the
// innermost enclosing scope outward, the nearest binding site at or before
// pos wins. Module-level names are resolved when a function body runs, not
// when it is defined, so for a reference inside a nested scope a module
// binding later in the file still counts. The returned offset identifies the
// binding site, so a caller can tell an import binding apart from a later
// rebinding that shadows it.
func (f *ParsedFile) BindingAt(name string, pos int) (int, bool) {
	if f.Scope == nil {
		return 0, false
	}
	inner := f.Scope.innermost(pos)
	for s := inner; s != nil; s = s.Parent {
		offs := s.Bindings[name]
		// Largest offset <= pos.
		i := sort.SearchInts(offs, pos+1) - 1
		if i >= 0 {
			return offs[i], true
		}
		if s.Parent == nil && s != inner && len(offs) > 0 {
			return offs[0], true
		}
	}
	return 0, false
}

// BindsAtModuleLevel reports whether name is bound anywhere in the module
// scope: a definition, a module-level assignment, or an import.
func (f *ParsedFile) BindsAtModuleLevel(name string) bool {
	return f.Scope != nil && len(f.Scope.Bindings[name]) > 0
}

// BindsEnclosing reports whether name is bound in any scope enclosing pos,
// regardless of where inside the scope the binding occurs. A function local
// binds for the whole body, so a collision check cannot stop at preceding
// bindings the way BindingAt does.
func (f *ParsedFile) BindsEnclosing(name string, pos int) bool {
	if f.Scope == nil {
		return false
	}
	for s := f.Scope.innermost(pos); s != nil; s = s.Parent {
		if len(s.Bindings[name]) > 0 {
			return true
		}
	}
	return false
}
