package engine

import (
	"specmap/internal/coverage"
	"specmap/internal/graph"
	"specmap/internal/hotspots"
	"specmap/internal/parser"
	"specmap/internal/specs"
	"specmap/internal/trace"
)

// CodebaseAnalysis is the code-side output: artifacts, the dependency
// graph and the per-file analyses.
type CodebaseAnalysis struct {
	Files   []*parser.FileAnalysis `json:"files"`
	Graph   *graph.Graph           `json:"graph"`
	Summary CodebaseSummary        `json:"summary"`
}

// CodebaseSummary aggregates whole-repository counts.
type CodebaseSummary struct {
	FileCount      int     `json:"fileCount"`
	ArtifactCount  int     `json:"artifactCount"`
	FunctionCount  int     `json:"functionCount"`
	ClassCount     int     `json:"classCount"`
	InterfaceCount int     `json:"interfaceCount"`
	TotalLines     int     `json:"totalLines"`
	AvgComplexity  float64 `json:"avgComplexity"`
}

// TraceabilityAnalysis is the specification-side output.
type TraceabilityAnalysis struct {
	SpecResults []specs.ParsingResult `json:"specResults"`
	Links       []trace.Link          `json:"links"`
	Matrix      []trace.MatrixEntry   `json:"matrix"`
	Coverage    coverage.Metrics      `json:"coverage"`
}

// Diagnostic records one non-fatal per-file problem; these never abort
// a run.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the complete output of one analysis run.
type Result struct {
	RunID        string                `json:"runId"`
	Codebase     *CodebaseAnalysis     `json:"codebase"`
	Traceability *TraceabilityAnalysis `json:"traceability,omitempty"`
	Coverage     *coverage.Result      `json:"coverage,omitempty"`
	Hotspots     *hotspots.Analysis    `json:"hotspots,omitempty"`
	Diagnostics  []Diagnostic          `json:"diagnostics,omitempty"`
}
