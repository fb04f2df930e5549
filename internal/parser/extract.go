package parser

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"specmap/internal/complexity"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// extract walks the syntax tree and fills in the analysis. The exported
// flag tracks whether the current subtree hangs under an export statement.
func (p *Parser) extract(fa *FileAnalysis, node *sitter.Node, source []byte) {
	var walk func(n *sitter.Node, exported bool)
	walk = func(n *sitter.Node, exported bool) {
		switch n.Type() {
		case "import_statement":
			fa.Imports = append(fa.Imports, parseImport(n, source))
			return

		case "export_statement":
			fa.Exports = append(fa.Exports, parseExport(n, source)...)
			for i := 0; i < int(n.ChildCount()); i++ {
				if child := n.Child(i); child != nil {
					walk(child, true)
				}
			}
			return

		case "function_declaration", "generator_function_declaration":
			fn := p.parseFunction(n, nameOf(n, source), source)
			fn.IsExported = exported
			fa.Functions = append(fa.Functions, fn)
			return

		case "lexical_declaration", "variable_declaration":
			p.parseDeclaration(fa, n, source, exported)
			return

		case "class_declaration", "abstract_class_declaration":
			fa.Classes = append(fa.Classes, p.parseClass(n, source, exported))
			return

		case "interface_declaration":
			fa.Interfaces = append(fa.Interfaces, parseInterface(n, source, exported))
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				walk(child, exported)
			}
		}
	}
	walk(node, false)
}

// parseFunction extracts one function with its signature, call sites and
// complexity metrics.
func (p *Parser) parseFunction(n *sitter.Node, name string, source []byte) FunctionInfo {
	fn := FunctionInfo{
		Name:      name,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		IsAsync:   hasLeadingToken(n, source, "async"),
		Calls:     collectCalls(n, source),
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Parameters = parseParameters(params, source)
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		fn.ReturnType = strings.TrimSpace(strings.TrimPrefix(nodeText(rt, source), ":"))
	}
	if p.opts.CalculateComplexity {
		fn.Metrics = complexity.AnalyzeFunction(n, source)
	}
	return fn
}

// parseDeclaration handles const/let/var statements: declarators whose value
// is a function become functions, the rest become variables.
func (p *Parser) parseDeclaration(fa *FileAnalysis, n *sitter.Node, source []byte, exported bool) {
	for i := 0; i < int(n.ChildCount()); i++ {
		decl := n.Child(i)
		if decl == nil || decl.Type() != "variable_declarator" {
			continue
		}
		name := nameOf(decl, source)
		if name == "" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value != nil && isFunctionNode(value.Type()) {
			fn := p.parseFunction(value, name, source)
			fn.IsExported = exported
			fa.Functions = append(fa.Functions, fn)
			continue
		}
		fa.Variables = append(fa.Variables, VariableInfo{
			Name:       name,
			Line:       int(decl.StartPoint().Row) + 1,
			IsExported: exported,
		})
	}
}

// parseClass extracts a class with its heritage, methods and properties.
func (p *Parser) parseClass(n *sitter.Node, source []byte, exported bool) ClassInfo {
	cls := ClassInfo{
		Name:       nameOf(n, source),
		StartLine:  int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
		IsAbstract: n.Type() == "abstract_class_declaration" || hasLeadingToken(n, source, "abstract"),
		IsExported: exported,
	}

	cls.Extends, cls.Implements = parseHeritage(n, source)

	body := n.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member == nil {
			continue
		}
		switch member.Type() {
		case "method_definition":
			method := p.parseFunction(member, nameOf(member, source), source)
			cls.Methods = append(cls.Methods, method)
		case "public_field_definition", "field_definition", "property_definition":
			if name := nameOf(member, source); name != "" {
				cls.Properties = append(cls.Properties, name)
			}
		}
	}
	return cls
}

// parseHeritage reads the extends/implements clauses of a class. The
// TypeScript grammar nests extends_clause/implements_clause under
// class_heritage; the JavaScript grammar puts a bare expression after the
// extends keyword.
func parseHeritage(n *sitter.Node, source []byte) (extends string, implements []string) {
	for _, h := range complexity.FindNodes(n, []string{"class_heritage"}) {
		for i := 0; i < int(h.ChildCount()); i++ {
			child := h.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "extends_clause":
				if names := typeNames(child, source); len(names) > 0 {
					extends = names[0]
				}
			case "implements_clause":
				implements = append(implements, typeNames(child, source)...)
			case "identifier", "member_expression":
				// JavaScript grammar: class_heritage -> "extends" expression
				if extends == "" {
					extends = nodeText(child, source)
				}
			}
		}
	}
	return extends, implements
}

// parseInterface extracts a TypeScript interface declaration.
func parseInterface(n *sitter.Node, source []byte, exported bool) InterfaceInfo {
	iface := InterfaceInfo{
		Name:       nameOf(n, source),
		StartLine:  int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
		IsExported: exported,
	}

	for _, clause := range complexity.FindNodes(n, []string{"extends_type_clause", "extends_clause"}) {
		iface.Extends = append(iface.Extends, typeNames(clause, source)...)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return iface
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member == nil {
			continue
		}
		switch member.Type() {
		case "method_signature":
			iface.Methods = append(iface.Methods, collapseWhitespace(nodeText(member, source)))
		case "property_signature":
			if name := nameOf(member, source); name != "" {
				iface.Properties = append(iface.Properties, name)
			}
		}
	}
	return iface
}

// parseImport extracts the specifier and the default/named/namespace forms.
func parseImport(n *sitter.Node, source []byte) ImportInfo {
	imp := ImportInfo{Line: int(n.StartPoint().Row) + 1}

	if src := n.ChildByFieldName("source"); src != nil {
		imp.Source = strings.Trim(nodeText(src, source), `"'`)
	}

	for _, clause := range complexity.FindNodes(n, []string{"import_clause"}) {
		for i := 0; i < int(clause.ChildCount()); i++ {
			child := clause.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "identifier":
				imp.Default = nodeText(child, source)
			case "namespace_import":
				for j := 0; j < int(child.ChildCount()); j++ {
					if id := child.Child(j); id != nil && id.Type() == "identifier" {
						imp.Namespace = nodeText(id, source)
					}
				}
			case "named_imports":
				for _, spec := range complexity.FindNodes(child, []string{"import_specifier"}) {
					name := spec.ChildByFieldName("alias")
					if name == nil {
						name = spec.ChildByFieldName("name")
					}
					if name != nil {
						imp.Named = append(imp.Named, nodeText(name, source))
					}
				}
			}
		}
	}
	return imp
}

// parseExport records the exported bindings of one export statement.
func parseExport(n *sitter.Node, source []byte) []ExportInfo {
	line := int(n.StartPoint().Row) + 1
	isDefault := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && child.Type() == "default" {
			isDefault = true
		}
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		kind := exportKind(decl.Type())
		if kind == "variable" {
			var exports []ExportInfo
			for i := 0; i < int(decl.ChildCount()); i++ {
				d := decl.Child(i)
				if d == nil || d.Type() != "variable_declarator" {
					continue
				}
				exports = append(exports, ExportInfo{
					Name: nameOf(d, source),
					Kind: kind,
					Line: line,
				})
			}
			return exports
		}
		name := nameOf(decl, source)
		if name == "" && isDefault {
			name = "default"
		}
		return []ExportInfo{{Name: name, Kind: kind, IsDefault: isDefault, Line: line}}
	}

	// export { a, b as c } or a default expression
	var exports []ExportInfo
	for _, spec := range complexity.FindNodes(n, []string{"export_specifier"}) {
		name := spec.ChildByFieldName("alias")
		if name == nil {
			name = spec.ChildByFieldName("name")
		}
		if name != nil {
			exports = append(exports, ExportInfo{
				Name: nodeText(name, source),
				Kind: "reexport",
				Line: line,
			})
		}
	}
	if len(exports) == 0 && isDefault {
		exports = append(exports, ExportInfo{Name: "default", Kind: "expression", IsDefault: true, Line: line})
	}
	return exports
}

// collectCalls records the callee names of every call expression under n.
// Plain calls record the identifier; member calls record the property name.
func collectCalls(n *sitter.Node, source []byte) []string {
	var calls []string
	for _, call := range complexity.FindNodes(n, []string{"call_expression"}) {
		callee := call.ChildByFieldName("function")
		if callee == nil {
			continue
		}
		switch callee.Type() {
		case "identifier":
			calls = append(calls, nodeText(callee, source))
		case "member_expression":
			if prop := callee.ChildByFieldName("property"); prop != nil {
				calls = append(calls, nodeText(prop, source))
			}
		}
	}
	return calls
}

func parseParameters(params *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		switch child.Type() {
		case "identifier":
			out = append(out, nodeText(child, source))
		case "required_parameter", "optional_parameter":
			if pattern := child.ChildByFieldName("pattern"); pattern != nil {
				out = append(out, collapseWhitespace(nodeText(pattern, source)))
			}
		case "rest_pattern", "object_pattern", "array_pattern", "assignment_pattern":
			out = append(out, collapseWhitespace(nodeText(child, source)))
		}
	}
	return out
}

// typeNames collects identifier-ish names from a heritage clause.
func typeNames(n *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier", "type_identifier":
			names = append(names, nodeText(child, source))
		case "generic_type", "nested_type_identifier", "member_expression":
			names = append(names, nodeText(stripTypeArguments(child), source))
		}
	}
	return names
}

// stripTypeArguments returns the name node of a generic type, dropping the
// type-argument list.
func stripTypeArguments(n *sitter.Node) *sitter.Node {
	if name := n.ChildByFieldName("name"); name != nil {
		return name
	}
	return n
}

func isFunctionNode(t string) bool {
	switch t {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

func exportKind(declType string) string {
	switch declType {
	case "function_declaration", "generator_function_declaration":
		return "function"
	case "class_declaration", "abstract_class_declaration":
		return "class"
	case "interface_declaration":
		return "interface"
	case "lexical_declaration", "variable_declaration":
		return "variable"
	default:
		return "expression"
	}
}

// nameOf returns the text of a node's name field.
func nameOf(n *sitter.Node, source []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	return ""
}

// hasLeadingToken reports whether one of the node's first tokens equals the
// given keyword (async, abstract).
func hasLeadingToken(n *sitter.Node, source []byte, keyword string) bool {
	for i := 0; i < int(n.ChildCount()) && i < 3; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if nodeText(child, source) == keyword {
			return true
		}
	}
	return false
}

func nodeText(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
