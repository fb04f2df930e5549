package complexity

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps tree-sitter for the JS/TS language family.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Parse parses source code and returns the AST root node.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language) (*sitter.Node, error) {
	tsLang, err := getLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return tree.RootNode(), nil
}

func getLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// FunctionNodeTypes are the node types that represent functions.
func FunctionNodeTypes() []string {
	return []string{
		"function_declaration",
		"generator_function_declaration",
		"function_expression",
		"function", // older grammar revisions use this for expressions
		"arrow_function",
		"method_definition",
	}
}

// decisionNodeTypes contribute +1 to cyclomatic complexity. A
// binary_expression counts only when its operator is && or ||.
var decisionNodeTypes = map[string]bool{
	"if_statement":       true,
	"while_statement":    true,
	"do_statement":       true,
	"for_statement":      true,
	"for_in_statement":   true, // covers both for-in and for-of
	"switch_statement":   true,
	"switch_case":        true,
	"catch_clause":       true,
	"ternary_expression": true,
	"binary_expression":  true,
}

// cognitiveDecisionTypes contribute 1+nesting to cognitive complexity and
// increase nesting depth for their descendants. Boolean operators and
// break/continue are handled separately (flat +1).
var cognitiveDecisionTypes = map[string]bool{
	"if_statement":     true,
	"switch_statement": true,
	"while_statement":  true,
	"do_statement":     true,
	"for_statement":    true,
	"for_in_statement": true,
	"catch_clause":     true,
}

// isBooleanOperator reports whether a binary_expression uses && or ||.
func isBooleanOperator(node *sitter.Node, source []byte) bool {
	if node.Type() != "binary_expression" {
		return false
	}
	op := node.ChildByFieldName("operator")
	if op == nil {
		return false
	}
	text := string(source[op.StartByte():op.EndByte()])
	return text == "&&" || text == "||"
}

// FindNodes collects all descendants of root (inclusive) whose type is in
// types, in document order.
func FindNodes(root *sitter.Node, types []string) []*sitter.Node {
	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var result []*sitter.Node
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if wanted[node.Type()] {
			result = append(result, node)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return result
}
