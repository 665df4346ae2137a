package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type extractor struct {
	src  []byte
	file *ParsedFile
}

func (e *extractor) extract(root *sitter.Node, path string) *ParsedFile {
	e.file = &ParsedFile{Path: path}
	e.file.Scope = NewScope(nil, 0, len(e.src))
	e.walk(root, e.file.Scope)
	return e.file
}

func (e *extractor) walk(node *sitter.Node, scope *Scope) {
	switch node.Kind() {
	case "import_statement":
		e.importStatement(node, scope)
		return
	case "import_from_statement":
		e.fromImport(node, scope)
		return
	case "future_import_statement":
		return
	case "function_definition":
		e.definition(node, scope, KindFunction)
		return
	case "class_definition":
		e.definition(node, scope, KindClass)
		return
	case "assignment", "augmented_assignment":
		if left := node.ChildByFieldName("left"); left != nil {
			e.bindTargets(left, scope, true)
		}
	case "for_statement":
		if left := node.ChildByFieldName("left"); left != nil {
			e.bindTargets(left, scope, false)
		}
	case "call":
		e.checkDynamicImport(node)
	case "identifier":
		e.reference(node)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), scope)
	}
}

func (e *extractor) definition(node *sitter.Node, scope *Scope, kind SymbolKind) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	nm := e.text(name)
	scope.Bind(nm, int(name.StartByte()))

	if scope.Parent == nil {
		e.file.Symbols = append(e.file.Symbols, SymbolDef{
			Name:      nm,
			Kind:      kind,
			Line:      e.line(name),
			Column:    e.column(name),
			StartByte: int(name.StartByte()),
			EndByte:   int(node.EndByte()),
		})
	}

	inner := NewScope(scope, int(node.StartByte()), int(node.EndByte()))
	if params := node.ChildByFieldName("parameters"); params != nil {
		e.bindTargets(params, inner, false)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		e.walk(body, inner)
	}
}

// bindTargets collects identifiers from an assignment target, for-loop
// target or parameter list and binds them in the given scope. Module-level
// assignment targets are additionally recorded as constant definitions.
func (e *extractor) bindTargets(node *sitter.Node, scope *Scope, asConstant bool) {
	if node.Kind() == "identifier" {
		nm := e.text(node)
		scope.Bind(nm, int(node.StartByte()))
		if asConstant && scope.Parent == nil {
			if _, exists := e.file.Symbol(nm); !exists {
				e.file.Symbols = append(e.file.Symbols, SymbolDef{
					Name:      nm,
					Kind:      KindConstant,
					Line:      e.line(node),
					Column:    e.column(node),
					StartByte: int(node.StartByte()),
					EndByte:   int(node.EndByte()),
				})
			}
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.bindTargets(node.Child(i), scope, asConstant)
	}
}

func (e *extractor) importStatement(node *sitter.Node, scope *Scope) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name":
			module := e.text(child)
			scope.Bind(firstSegment(module), int(child.StartByte()))
			e.file.Imports = append(e.file.Imports, RawImport{
				Module:       module,
				Raw:          module,
				Line:         e.line(node),
				ModuleLine:   e.line(child),
				ModuleColumn: e.column(child),
				StartByte:    int(child.StartByte()),
			})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil {
				continue
			}
			module := e.text(name)
			local := firstSegment(module)
			if alias != nil {
				local = e.text(alias)
			}
			scope.Bind(local, int(name.StartByte()))
			e.file.Imports = append(e.file.Imports, RawImport{
				Module:       module,
				Raw:          module,
				Line:         e.line(node),
				ModuleLine:   e.line(name),
				ModuleColumn: e.column(name),
				StartByte:    int(name.StartByte()),
			})
		}
	}
}

func (e *extractor) fromImport(node *sitter.Node, scope *Scope) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	imp := RawImport{
		Raw:          e.text(moduleNode),
		Line:         e.line(node),
		ModuleLine:   e.line(moduleNode),
		ModuleColumn: e.column(moduleNode),
		StartByte:    int(moduleNode.StartByte()),
	}

	if moduleNode.Kind() == "relative_import" {
		raw := imp.Raw
		imp.Level = len(raw) - len(strings.TrimLeft(raw, "."))
		imp.Module = strings.TrimLeft(raw, ".")
	} else {
		imp.Module = imp.Raw
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			entry := ImportedName{
				Name:   e.text(child),
				Line:   e.line(child),
				Column: e.column(child),
				Byte:   int(child.StartByte()),
			}
			scope.Bind(entry.Local(), entry.Byte)
			imp.Names = append(imp.Names, entry)
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil {
				continue
			}
			entry := ImportedName{
				Name:   e.text(name),
				Line:   e.line(name),
				Column: e.column(name),
				Byte:   int(name.StartByte()),
			}
			if alias != nil {
				entry.Alias = e.text(alias)
			}
			scope.Bind(entry.Local(), entry.Byte)
			imp.Names = append(imp.Names, entry)
		case "wildcard_import":
			imp.Names = append(imp.Names, ImportedName{
				Name:   "*",
				Line:   e.line(child),
				Column: e.column(child),
				Byte:   int(child.StartByte()),
			})
		}
	}

	e.file.Imports = append(e.file.Imports, imp)
}

// checkDynamicImport records importlib.import_module(...) and __import__(...)
// calls. These are a static-analysis boundary: they always become
// unresolvable edges, even when the argument happens to be a string literal.
func (e *extractor) checkDynamicImport(node *sitter.Node) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}

	dynamic := false
	switch fn.Kind() {
	case "identifier":
		dynamic = e.text(fn) == "__import__"
	case "attribute":
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		dynamic = obj != nil && attr != nil &&
			e.text(obj) == "importlib" && e.text(attr) == "import_module"
	}
	if !dynamic {
		return
	}

	imp := RawImport{
		Raw:       e.text(node),
		Line:      e.line(node),
		StartByte: int(node.StartByte()),
		Dynamic:   true,
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		for i := uint(0); i < args.ChildCount(); i++ {
			arg := args.Child(i)
			if arg.Kind() == "string" {
				imp.Module = strings.Trim(e.text(arg), `"'`)
				break
			}
		}
	}
	e.file.Imports = append(e.file.Imports, imp)
}

func (e *extractor) reference(node *sitter.Node) {
	if parent := node.Parent(); parent != nil {
		switch parent.Kind() {
		case "keyword_argument":
			// f(foo=1): the keyword name is not a reference to foo.
			if name := parent.ChildByFieldName("name"); name != nil && name.StartByte() == node.StartByte() {
				return
			}
		case "attribute":
			// obj.foo: the attribute part never refers to a module-level foo.
			if attr := parent.ChildByFieldName("attribute"); attr != nil && attr.StartByte() == node.StartByte() {
				return
			}
		}
	}

	e.file.References = append(e.file.References, Reference{
		Name:      e.text(node),
		Line:      e.line(node),
		Column:    e.column(node),
		StartByte: int(node.StartByte()),
	})
}

func (e *extractor) text(node *sitter.Node) string {
	return string(e.src[node.StartByte():node.EndByte()])
}

func (e *extractor) line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

func (e *extractor) column(node *sitter.Node) int {
	return int(node.StartPosition().Column)
}

func firstSegment(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}
