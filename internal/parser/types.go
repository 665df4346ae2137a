package parser

// ParsedFile is the result of parsing a single source file. It is a pure
// function of the file content: the parser never touches the filesystem.
type ParsedFile struct {
	Path       string
	Imports    []RawImport
	Symbols    []SymbolDef
	References []Reference
	Scope      *Scope // module-level scope
}

// RawImport is one import statement as written, before resolution against
// the project's module set.
type RawImport struct {
	Module string // dotted module path ("" for dynamic imports)
	Raw    string // module text as written, including leading dots
	Level  int    // relative import level (number of leading dots)
	Names  []ImportedName
	Line   int // 1-based line of the statement
	// Position of the module name token, for rewriting the module portion.
	ModuleLine   int
	ModuleColumn int // 0-based byte column
	StartByte    int
	Dynamic      bool // importlib.import_module / __import__ with a computed path
}

// ImportedName is one entry of a "from X import a, b as c" list.
type ImportedName struct {
	Name   string
	Alias  string
	Line   int
	Column int // 0-based byte column of the name token
	Byte   int // start byte of the name token; doubles as its binding site
}

// Local returns the name the import binds in the importing module.
func (n ImportedName) Local() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

type SymbolDef struct {
	Name      string
	Kind      SymbolKind
	Line      int
	Column    int
	StartByte int
	EndByte   int
}

type SymbolKind int

const (
	KindFunction SymbolKind = iota
	KindClass
	KindConstant
)

func (k SymbolKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindConstant:
		return "constant"
	}
	return "unknown"
}

// Reference is an identifier occurrence outside import statements and
// definition name positions.
type Reference struct {
	Name      string
	Line      int
	Column    int // 0-based byte column
	StartByte int
}

// Symbol returns the top-level definition with the given name, if any.
func (f *ParsedFile) Symbol(name string) (SymbolDef, bool) {
	for _, s := range f.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return SymbolDef{}, false
}
