// Package symbols provides best-effort extraction of Python definition
// names for correlation. Parse failures never propagate: a file that cannot
// be parsed simply yields no names.
package symbols

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Extractor extracts top-level definition names from Python source.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates a new Python name extractor.
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{parser: parser}
}

// DefinitionNames returns the lowercase names of all top-level class and
// function definitions in source. On any parse failure the result is empty.
func (e *Extractor) DefinitionNames(ctx context.Context, source []byte) map[string]struct{} {
	names := make(map[string]struct{})

	defer func() {
		// tree-sitter bindings can panic on pathological input; a broken
		// source file must never abort correlation.
		_ = recover()
	}()

	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil || tree == nil {
		return names
	}

	root := tree.RootNode()
	if root == nil {
		return names
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		collectDefinition(child, source, names)
	}

	return names
}

// collectDefinition records the name of a class or function definition node.
// Decorated definitions wrap the real definition one level down.
func collectDefinition(node *sitter.Node, source []byte, names map[string]struct{}) {
	switch node.Type() {
	case "class_definition", "function_definition":
		if name := definitionName(node, source); name != "" {
			names[strings.ToLower(name)] = struct{}{}
		}
	case "decorated_definition":
		def := node.ChildByFieldName("definition")
		if def != nil {
			collectDefinition(def, source, names)
		}
	}
}

func definitionName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	start, end := nameNode.StartByte(), nameNode.EndByte()
	if int(end) > len(source) || start >= end {
		return ""
	}
	return string(source[start:end])
}
