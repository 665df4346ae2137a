package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var pythonLang = sitter.NewLanguage(tree_sitter_python.Language())

// ParseError marks a file the engine could not analyze. It is recoverable:
// callers skip the file and surface the reason as a diagnostic.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

// Parse extracts imports, top-level symbol definitions, identifier
// references and the lexical scope tree from one Python source file.
// Content is passed in by the caller; Parse never reads from disk.
func Parse(content []byte, path string) (*ParsedFile, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(pythonLang)

	tree := p.Parse(content, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Reason: "tree-sitter produced no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Reason: syntaxErrorReason(root)}
	}

	e := &extractor{src: content}
	return e.extract(root, path), nil
}

func syntaxErrorReason(root *sitter.Node) string {
	if n := firstErrorNode(root); n != nil {
		return fmt.Sprintf("syntax error at line %d", int(n.StartPosition().Row)+1)
	}
	return "syntax error"
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
