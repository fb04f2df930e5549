// Package complexity computes per-function complexity metrics over
// tree-sitter syntax trees: cyclomatic, cognitive, Halstead and a
// maintainability index.
package complexity

// Language represents a supported source language.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// HalsteadMetrics are derived from distinct/total operator and operand
// counts. All fields are zero (never NaN) for an empty function body.
type HalsteadMetrics struct {
	Volume     float64 `json:"volume"`
	Difficulty float64 `json:"difficulty"`
	Effort     float64 `json:"effort"`
}

// Metrics contains the complexity metrics for a single function.
type Metrics struct {
	// Cyclomatic is the count of decision points plus one. Always >= 1.
	Cyclomatic int `json:"cyclomaticComplexity"`

	// Cognitive is the nesting-weighted readability score. Always >= 0.
	Cognitive int `json:"cognitiveComplexity"`

	// LinesOfCode excludes blank lines and comments.
	LinesOfCode int `json:"linesOfCode"`

	// MaintainabilityIndex is clamped to [0,100].
	MaintainabilityIndex float64 `json:"maintainabilityIndex"`

	Halstead *HalsteadMetrics `json:"halsteadMetrics,omitempty"`
}

// LanguageFromExtension returns the Language for a file extension.
func LanguageFromExtension(ext string) (Language, bool) {
	switch ext {
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript, true
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	default:
		return "", false
	}
}
