package complexity

import (
	"math"

	sitter "github.com/smacker/go-tree-sitter"
)

// operandNodeTypes classify named leaf nodes as Halstead operands.
var operandNodeTypes = map[string]bool{
	"identifier":                            true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"shorthand_property_identifier_pattern": true,
	"statement_identifier":                  true,
	"type_identifier":                       true,
	"number":                                true,
	"string_fragment":                       true,
	"string":                                true,
	"regex_pattern":                         true,
	"true":                                  true,
	"false":                                 true,
	"null":                                  true,
	"undefined":                             true,
	"this":                                  true,
	"super":                                 true,
}

// operatorTokens classify leaf tokens as Halstead operators. Pure grouping
// punctuation (parens, braces, commas, semicolons) does not count.
var operatorTokens = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"=": true, "==": true, "===": true, "!=": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "!": true, "??": true, "?.": true,
	"?": true, ":": true, "=>": true, "...": true,
	"++": true, "--": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&&=": true, "||=": true, "??=": true,
	"&": true, "|": true, "^": true, "~": true,
	"<<": true, ">>": true, ">>>": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
	"typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "await": true, "yield": true,
	"return": true, "throw": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "break": true, "continue": true,
	"try": true, "catch": true, "finally": true,
}

// analyzeHalstead counts operators and operands in the given body node.
// A nil or empty body yields all-zero metrics, never NaN.
func analyzeHalstead(body *sitter.Node, source []byte) *HalsteadMetrics {
	if body == nil {
		return &HalsteadMetrics{}
	}

	operators := make(map[string]int)
	operands := make(map[string]int)

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.ChildCount() == 0 {
			text := string(source[n.StartByte():n.EndByte()])
			switch {
			case n.IsNamed() && operandNodeTypes[n.Type()]:
				operands[text]++
			case operatorTokens[text]:
				operators[text]++
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)

	n1 := len(operators)
	n2 := len(operands)
	if n1+n2 == 0 {
		return &HalsteadMetrics{}
	}

	var total1, total2 int
	for _, c := range operators {
		total1 += c
	}
	for _, c := range operands {
		total2 += c
	}

	volume := float64(total1+total2) * math.Log2(float64(n1+n2))
	difficulty := float64(n1) / 2 * float64(total2) / math.Max(float64(n2), 1)

	return &HalsteadMetrics{
		Volume:     volume,
		Difficulty: difficulty,
		Effort:     difficulty * volume,
	}
}
