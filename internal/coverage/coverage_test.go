package coverage

import (
	"strings"
	"testing"

	"specmap/internal/model"
	"specmap/internal/trace"
)

func TestAnalyzeTwoOfThreeLinked(t *testing.T) {
	requirements := []string{"RF-1", "RF-2", "RN-3"}
	links := []trace.Link{
		{RequirementID: "RF-1", LinkType: trace.LinkImplements, Confidence: 0.9, CodeArtifacts: []string{"src/a.ts"}},
		{RequirementID: "RF-2", LinkType: trace.LinkTests, Confidence: 0.8, CodeArtifacts: []string{"src/a.test.ts"}},
	}

	result := Analyze(requirements, links, nil)

	if result.Metrics.OverallCoverage != 66.7 {
		t.Errorf("overallCoverage = %v, want 66.7", result.Metrics.OverallCoverage)
	}
	if result.Metrics.TotalRequirements != 3 || result.Metrics.LinkedRequirements != 2 {
		t.Errorf("metrics = %+v", result.Metrics)
	}

	missing := result.Gaps.MissingImplementations
	// RF-2 has only a test link, RN-3 has nothing
	if len(missing) != 2 || missing[0] != "RF-2" || missing[1] != "RN-3" {
		t.Errorf("missingImplementations = %v, want [RF-2 RN-3]", missing)
	}
	if len(result.Gaps.MissingTests) != 2 {
		t.Errorf("missingTests = %v, want [RF-1 RN-3]", result.Gaps.MissingTests)
	}
}

func TestAnalyzePerTypeCoverage(t *testing.T) {
	requirements := []string{"RF-1", "RF-2"}
	links := []trace.Link{
		{RequirementID: "RF-1", LinkType: trace.LinkImplements, Confidence: 0.9},
		{RequirementID: "RF-2", LinkType: trace.LinkImplements, Confidence: 0.9},
		{RequirementID: "RF-1", LinkType: trace.LinkTests, Confidence: 0.9},
	}

	result := Analyze(requirements, links, nil)

	if result.Metrics.ImplementationCoverage != 100.0 {
		t.Errorf("implementationCoverage = %v, want 100", result.Metrics.ImplementationCoverage)
	}
	if result.Metrics.TestCoverage != 50.0 {
		t.Errorf("testCoverage = %v, want 50", result.Metrics.TestCoverage)
	}
	if result.Metrics.DocumentationCoverage != 0.0 {
		t.Errorf("documentationCoverage = %v, want 0", result.Metrics.DocumentationCoverage)
	}
}

func TestAnalyzeOrphans(t *testing.T) {
	artifacts := []model.CodeArtifact{
		{ID: "src/a.ts:function:linked", FilePath: "src/a.ts", Kind: model.KindFunction},
		{ID: "src/a.ts:function:orphan", FilePath: "src/a.ts", Kind: model.KindFunction},
		{ID: "src/a.ts:import:./b", FilePath: "src/a.ts", Kind: model.KindImport},
		{ID: "src/a.test.ts:function:check", FilePath: "src/a.test.ts", Kind: model.KindFunction},
	}
	links := []trace.Link{{
		RequirementID: "RF-1",
		LinkType:      trace.LinkImplements,
		Confidence:    0.9,
		CodeArtifacts: []string{"src/a.ts:function:linked"},
	}}

	result := Analyze([]string{"RF-1"}, links, artifacts)

	orphans := result.Gaps.OrphanedArtifacts
	if len(orphans) != 1 || orphans[0] != "src/a.ts:function:orphan" {
		t.Errorf("orphans = %v, want only the unlinked non-test function", orphans)
	}
}

func TestAnalyzeLowConfidenceLinks(t *testing.T) {
	links := []trace.Link{
		{RequirementID: "RF-1", LinkType: trace.LinkImplements, Confidence: 0.65},
		{RequirementID: "RF-2", LinkType: trace.LinkImplements, Confidence: 0.9},
	}
	result := Analyze([]string{"RF-1", "RF-2"}, links, nil)

	low := result.Gaps.LowConfidenceLinks
	if len(low) != 1 || low[0].RequirementID != "RF-1" {
		t.Errorf("lowConfidenceLinks = %+v, want only RF-1", low)
	}
}

func TestAnalyzeRecommendations(t *testing.T) {
	requirements := []string{"RF-1", "RF-2", "RN-3", "RN-4"}
	links := []trace.Link{{RequirementID: "RN-3", LinkType: trace.LinkDocuments, Confidence: 0.9}}

	result := Analyze(requirements, links, nil)

	joined := strings.Join(result.Recommendations, "\n")
	if !strings.Contains(joined, "critical") {
		t.Errorf("25%% coverage should produce a critical recommendation:\n%s", joined)
	}
	if !strings.Contains(joined, "functional, higher priority") {
		t.Errorf("RF- gaps should be called out as higher priority:\n%s", joined)
	}
}

func TestAnalyzeCompleteIndicator(t *testing.T) {
	links := []trace.Link{{RequirementID: "RF-1", LinkType: trace.LinkImplements, Confidence: 0.9}}
	result := Analyze([]string{"RF-1"}, links, nil)

	found := false
	for _, ind := range result.Indicators {
		if ind.Type == IndicatorComplete {
			found = true
		}
	}
	if !found {
		t.Errorf("fully linked requirements should yield a complete indicator: %+v", result.Indicators)
	}
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	result := Analyze(nil, nil, nil)
	m := result.Metrics
	for _, v := range []float64{m.OverallCoverage, m.ImplementationCoverage, m.TestCoverage, m.DocumentationCoverage} {
		if v != 0 {
			t.Errorf("empty inputs produced nonzero coverage: %+v", m)
		}
	}
}
