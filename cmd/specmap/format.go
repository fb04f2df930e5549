package main

import (
	"encoding/json"
	"fmt"
	"io"

	"specmap/internal/coverage"
	"specmap/internal/engine"
	"specmap/internal/export"
	"specmap/internal/hotspots"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exportResult(path string, result *engine.Result) error {
	return export.Write(path, result)
}

func printSummary(w io.Writer, result *engine.Result) {
	s := result.Codebase.Summary
	fmt.Fprintf(w, "Run %s\n", result.RunID)
	fmt.Fprintf(w, "  files: %d  artifacts: %d  functions: %d  classes: %d  interfaces: %d\n",
		s.FileCount, s.ArtifactCount, s.FunctionCount, s.ClassCount, s.InterfaceCount)
	fmt.Fprintf(w, "  avg cyclomatic complexity: %.2f\n", s.AvgComplexity)

	m := result.Codebase.Graph.Metrics
	fmt.Fprintf(w, "  relations: %d  max out-degree: %d  cycles: %d\n",
		m.TotalRelations, m.MaxOutDegree, m.CircularDependencies)

	if result.Traceability != nil {
		c := result.Traceability.Coverage
		fmt.Fprintf(w, "  requirements: %d  linked: %d  overall coverage: %.1f%%\n",
			c.TotalRequirements, c.LinkedRequirements, c.OverallCoverage)
	}
	if result.Hotspots != nil {
		fmt.Fprintf(w, "  %s\n", result.Hotspots.Summary)
	}
	if len(result.Diagnostics) > 0 {
		fmt.Fprintf(w, "  skipped files: %d\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "    %s: %s\n", d.Path, d.Message)
		}
	}
}

func printLinks(w io.Writer, t *engine.TraceabilityAnalysis) {
	if len(t.Links) == 0 {
		fmt.Fprintln(w, "no links above the confidence threshold")
		return
	}
	for _, link := range t.Links {
		fmt.Fprintf(w, "%s  %s  %.2f  (%s)\n",
			link.RequirementID, link.LinkType, link.Confidence, link.SpecFile)
		for _, id := range link.CodeArtifacts {
			fmt.Fprintf(w, "    %s\n", id)
		}
	}
}

func printCoverage(w io.Writer, r *coverage.Result) {
	m := r.Metrics
	fmt.Fprintf(w, "overall %.1f%%  implementation %.1f%%  tests %.1f%%  docs %.1f%%\n",
		m.OverallCoverage, m.ImplementationCoverage, m.TestCoverage, m.DocumentationCoverage)

	printGapList(w, "missing implementations", r.Gaps.MissingImplementations)
	printGapList(w, "missing tests", r.Gaps.MissingTests)
	printGapList(w, "missing documentation", r.Gaps.MissingDocumentation)

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "recommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}

func printGapList(w io.Writer, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", label, len(ids))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}

func printHotspots(w io.Writer, a *hotspots.Analysis) {
	if len(a.Hotspots) == 0 {
		fmt.Fprintln(w, "no hotspots detected")
		return
	}
	for _, h := range a.Hotspots {
		fmt.Fprintf(w, "%-8s %.2f  %-16s %s\n", h.Severity, h.RiskScore, h.Type, h.ArtifactID)
		for _, rec := range h.Recommendations {
			fmt.Fprintf(w, "    %s\n", rec)
		}
	}
	fmt.Fprintf(w, "%s\n", a.Summary)
}
