package complexity

import (
	"math"

	sitter "github.com/smacker/go-tree-sitter"
)

// AnalyzeFunction computes all metrics for a single function node.
func AnalyzeFunction(node *sitter.Node, source []byte) Metrics {
	cyclomatic := cyclomaticComplexity(node, source)
	loc := LinesOfCode(node, source)

	return Metrics{
		Cyclomatic:           cyclomatic,
		Cognitive:            cognitiveComplexity(node, source),
		LinesOfCode:          loc,
		MaintainabilityIndex: maintainabilityIndex(float64(cyclomatic), loc),
		Halstead:             analyzeHalstead(node.ChildByFieldName("body"), source),
	}
}

// FileMaintainability computes the file-level maintainability index from the
// average cyclomatic complexity of the contained functions.
func FileMaintainability(avgCyclomatic float64, linesOfCode int) float64 {
	return maintainabilityIndex(avgCyclomatic, linesOfCode)
}

// cyclomaticComplexity counts decision points plus a base of 1.
func cyclomaticComplexity(node *sitter.Node, source []byte) int {
	complexity := 1

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		// default clauses are switch_default nodes and do not count
		if decisionNodeTypes[n.Type()] {
			if n.Type() != "binary_expression" || isBooleanOperator(n, source) {
				complexity++
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i))
	}
	return complexity
}

// cognitiveComplexity implements the nesting-weighted score: control-flow
// constructs cost 1 + current nesting depth and deepen nesting for their
// descendants; boolean operators and break/continue cost a flat 1; an
// else-if shares the nesting level of its parent if.
func cognitiveComplexity(node *sitter.Node, source []byte) int {
	return cognitiveChildren(node, source, 0)
}

func cognitiveChildren(node *sitter.Node, source []byte, depth int) int {
	total := 0
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		total += cognitiveNode(child, source, depth)
	}
	return total
}

func cognitiveNode(node *sitter.Node, source []byte, depth int) int {
	switch t := node.Type(); {
	case t == "if_statement":
		total := 1 + depth
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			if child.Type() == "else_clause" {
				total += cognitiveElse(child, source, depth)
			} else {
				total += cognitiveNode(child, source, depth+1)
			}
		}
		return total

	case cognitiveDecisionTypes[t]:
		return 1 + depth + cognitiveChildren(node, source, depth+1)

	case t == "binary_expression":
		if isBooleanOperator(node, source) {
			return 1 + cognitiveChildren(node, source, depth)
		}
		return cognitiveChildren(node, source, depth)

	case t == "break_statement" || t == "continue_statement":
		return 1

	default:
		return cognitiveChildren(node, source, depth)
	}
}

// cognitiveElse keeps an else-if at the same nesting level as its parent if
// (a single increment at the current level); a plain else block still nests
// its contents.
func cognitiveElse(node *sitter.Node, source []byte, depth int) int {
	total := 0
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "if_statement" {
			total += cognitiveNode(child, source, depth)
		} else {
			total += cognitiveNode(child, source, depth+1)
		}
	}
	return total
}

// linesOfCode counts the lines within node that contain something other
// than whitespace and comments.
func LinesOfCode(node *sitter.Node, source []byte) int {
	comments := commentRanges(node)

	count := 0
	start := int(node.StartByte())
	end := int(node.EndByte())
	if end > len(source) {
		end = len(source)
	}

	lineStart := start
	for pos := start; pos <= end; pos++ {
		if pos == end || source[pos] == '\n' {
			if lineHasCode(source, lineStart, pos, comments) {
				count++
			}
			lineStart = pos + 1
		}
	}
	return count
}

// commentRanges returns the byte ranges of all comment nodes under node.
func commentRanges(node *sitter.Node) [][2]int {
	var ranges [][2]int
	for _, c := range FindNodes(node, []string{"comment"}) {
		ranges = append(ranges, [2]int{int(c.StartByte()), int(c.EndByte())})
	}
	return ranges
}

func lineHasCode(source []byte, from, to int, comments [][2]int) bool {
	for i := from; i < to; i++ {
		c := source[i]
		if c == ' ' || c == '\t' || c == '\r' {
			continue
		}
		if inComment(i, comments) {
			continue
		}
		return true
	}
	return false
}

func inComment(pos int, comments [][2]int) bool {
	for _, r := range comments {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// maintainabilityIndex = clamp(171 - 0.23*cyclomatic - 16.2*ln(loc), 0, 100).
// A zero line count is treated as one line to keep the logarithm finite.
func maintainabilityIndex(cyclomatic float64, linesOfCode int) float64 {
	loc := linesOfCode
	if loc < 1 {
		loc = 1
	}
	mi := 171 - 0.23*cyclomatic - 16.2*math.Log(float64(loc))
	return math.Max(0, math.Min(100, mi))
}
