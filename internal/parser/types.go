// Package parser turns a single source file into a FileAnalysis: functions,
// classes, interfaces, imports and exports, with per-function complexity
// metrics. Cross-file resolution is the dependency graph builder's job.
package parser

import (
	"specmap/internal/complexity"
)

// FileAnalysis is the structural analysis of one source file.
type FileAnalysis struct {
	Path        string              `json:"path"`        // repo-relative, slash-separated
	Language    complexity.Language `json:"language"`
	Lines       int                 `json:"lines"`       // physical line count
	LinesOfCode int                 `json:"linesOfCode"` // excluding blanks and comments

	Functions  []FunctionInfo  `json:"functions"`
	Classes    []ClassInfo     `json:"classes"`
	Interfaces []InterfaceInfo `json:"interfaces"`
	Variables  []VariableInfo  `json:"variables"`
	Imports    []ImportInfo    `json:"imports"`
	Exports    []ExportInfo    `json:"exports"`

	Complexity *FileComplexity `json:"complexity,omitempty"`
}

// FileComplexity aggregates function metrics at file granularity.
type FileComplexity struct {
	FunctionCount        int     `json:"functionCount"`
	TotalCyclomatic      int     `json:"totalCyclomatic"`
	AverageCyclomatic    float64 `json:"averageCyclomatic"`
	MaxCyclomatic        int     `json:"maxCyclomatic"`
	MaintainabilityIndex float64 `json:"maintainabilityIndex"`
}

// FunctionInfo describes one function, method, arrow function or function
// expression with a resolvable name.
type FunctionInfo struct {
	Name       string             `json:"name"`
	StartLine  int                `json:"startLine"`
	EndLine    int                `json:"endLine"`
	Parameters []string           `json:"parameters,omitempty"`
	ReturnType string             `json:"returnType,omitempty"`
	IsAsync    bool               `json:"isAsync,omitempty"`
	IsExported bool               `json:"isExported,omitempty"`
	Calls      []string           `json:"calls,omitempty"`
	Metrics    complexity.Metrics `json:"metrics"`
}

// ClassInfo describes a class declaration.
type ClassInfo struct {
	Name       string         `json:"name"`
	StartLine  int            `json:"startLine"`
	EndLine    int            `json:"endLine"`
	Extends    string         `json:"extends,omitempty"`
	Implements []string       `json:"implements,omitempty"`
	Methods    []FunctionInfo `json:"methods,omitempty"`
	Properties []string       `json:"properties,omitempty"`
	IsAbstract bool           `json:"isAbstract,omitempty"`
	IsExported bool           `json:"isExported,omitempty"`
}

// InterfaceInfo describes a TypeScript interface declaration.
type InterfaceInfo struct {
	Name       string   `json:"name"`
	StartLine  int      `json:"startLine"`
	EndLine    int      `json:"endLine"`
	Extends    []string `json:"extends,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Properties []string `json:"properties,omitempty"`
	IsExported bool     `json:"isExported,omitempty"`
}

// VariableInfo describes a top-level variable that is not a function value.
type VariableInfo struct {
	Name       string `json:"name"`
	Line       int    `json:"line"`
	IsExported bool   `json:"isExported,omitempty"`
}

// ImportInfo describes one import statement.
type ImportInfo struct {
	Source    string   `json:"source"` // module specifier, quotes stripped
	Default   string   `json:"default,omitempty"`
	Named     []string `json:"named,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Line      int      `json:"line"`
}

// ExportInfo describes one exported binding.
type ExportInfo struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"` // function, class, interface, variable, reexport
	IsDefault bool   `json:"isDefault,omitempty"`
	Line      int    `json:"line"`
}
