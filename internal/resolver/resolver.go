// Package resolver maps file paths to canonical dotted module names and
// resolves relative imports against them.
package resolver

import (
	"path/filepath"
	"strings"
)

// ModuleName derives the canonical dotted name for a source file from its
// path relative to the project root: pkg/util.py -> pkg.util, and a package
// __init__.py collapses to the package name itself.
func ModuleName(projectRoot, filePath string) string {
	rel, err := filepath.Rel(projectRoot, filePath)
	if err != nil {
		return ""
	}

	rel = strings.TrimSuffix(rel, ".py")
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ".")
}

// IsPackage reports whether the file defines a package rather than a plain
// module. Relative imports anchor one level higher in plain modules.
func IsPackage(filePath string) bool {
	return filepath.Base(filePath) == "__init__.py"
}

// ResolveRelative resolves a relative import written inside fromModule.
// level is the number of leading dots: one dot refers to the containing
// package (the module itself when it is a package __init__), each further
// dot climbs one package higher. An empty string is returned when the
// import climbs past the project root.
func ResolveRelative(fromModule, imported string, level int, isPackage bool) string {
	if level <= 0 {
		return imported
	}

	drop := level
	if isPackage {
		drop = level - 1
	}

	parts := strings.Split(fromModule, ".")
	if fromModule == "" || drop > len(parts) {
		return ""
	}
	base := parts[:len(parts)-drop]

	switch {
	case imported == "" && len(base) == 0:
		return ""
	case imported == "":
		return strings.Join(base, ".")
	case len(base) == 0:
		return imported
	}
	return strings.Join(base, ".") + "." + imported
}
