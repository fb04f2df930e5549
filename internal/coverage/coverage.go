// Package coverage computes requirement coverage metrics, gap analysis
// and rendering hints from the traceability links and the artifact set.
package coverage

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"specmap/internal/model"
	"specmap/internal/scan"
	"specmap/internal/trace"
)

// Low-confidence boundary for link flagging.
const lowConfidence = 0.7

// Metrics are percentage coverages in [0,100], rounded to one decimal.
type Metrics struct {
	OverallCoverage        float64 `json:"overallCoverage"`
	ImplementationCoverage float64 `json:"implementationCoverage"`
	TestCoverage           float64 `json:"testCoverage"`
	DocumentationCoverage  float64 `json:"documentationCoverage"`
	TotalRequirements      int     `json:"totalRequirements"`
	LinkedRequirements     int     `json:"linkedRequirements"`
}

// Gaps lists what the links leave uncovered.
type Gaps struct {
	MissingImplementations []string     `json:"missingImplementations"`
	MissingTests           []string     `json:"missingTests"`
	MissingDocumentation   []string     `json:"missingDocumentation"`
	OrphanedArtifacts      []string     `json:"orphanedArtifacts"`
	LowConfidenceLinks     []trace.Link `json:"lowConfidenceLinks"`
}

// IndicatorType tags a visual indicator for downstream rendering.
type IndicatorType string

const (
	IndicatorGap           IndicatorType = "gap"
	IndicatorOrphan        IndicatorType = "orphan"
	IndicatorLowConfidence IndicatorType = "low-confidence"
	IndicatorComplete      IndicatorType = "complete"
)

// Indicator is one flat rendering hint; the engine attaches no meaning
// beyond the tag and severity.
type Indicator struct {
	Type     IndicatorType `json:"type"`
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
}

// Result is the full coverage analysis output.
type Result struct {
	Metrics         Metrics     `json:"metrics"`
	Gaps            Gaps        `json:"gaps"`
	Recommendations []string    `json:"recommendations"`
	Indicators      []Indicator `json:"indicators"`
}

// Analyze computes coverage for all known requirement IDs against the
// emitted links and the artifact set.
func Analyze(requirements []string, links []trace.Link, artifacts []model.CodeArtifact) *Result {
	reqs := dedupeSorted(requirements)

	implemented := map[string]bool{}
	tested := map[string]bool{}
	documented := map[string]bool{}
	linked := map[string]bool{}
	linkedArtifacts := map[string]bool{}
	var lowLinks []trace.Link

	for _, link := range links {
		linked[link.RequirementID] = true
		switch link.LinkType {
		case trace.LinkImplements:
			implemented[link.RequirementID] = true
		case trace.LinkTests:
			tested[link.RequirementID] = true
		case trace.LinkDocuments:
			documented[link.RequirementID] = true
		}
		for _, id := range link.CodeArtifacts {
			linkedArtifacts[id] = true
		}
		if link.Confidence < lowConfidence {
			lowLinks = append(lowLinks, link)
		}
	}

	metrics := Metrics{
		OverallCoverage:        percentage(len(linked), len(reqs)),
		ImplementationCoverage: percentage(len(implemented), len(reqs)),
		TestCoverage:           percentage(len(tested), len(reqs)),
		DocumentationCoverage:  percentage(len(documented), len(reqs)),
		TotalRequirements:      len(reqs),
		LinkedRequirements:     len(linked),
	}

	gaps := Gaps{
		MissingImplementations: missingFrom(reqs, implemented),
		MissingTests:           missingFrom(reqs, tested),
		MissingDocumentation:   missingFrom(reqs, documented),
		OrphanedArtifacts:      orphanedArtifacts(artifacts, linkedArtifacts),
		LowConfidenceLinks:     lowLinks,
	}

	return &Result{
		Metrics:         metrics,
		Gaps:            gaps,
		Recommendations: recommendations(metrics, gaps),
		Indicators:      indicators(metrics, gaps),
	}
}

// percentage computes linked/total as a percentage rounded to one
// decimal; zero requirements means zero coverage, not NaN.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func missingFrom(reqs []string, covered map[string]bool) []string {
	var missing []string
	for _, id := range reqs {
		if !covered[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// orphanedArtifacts lists artifacts without any link, excluding imports
// and anything under a test path.
func orphanedArtifacts(artifacts []model.CodeArtifact, linked map[string]bool) []string {
	var orphans []string
	for _, a := range artifacts {
		if a.Kind == model.KindImport {
			continue
		}
		if scan.IsTestPath(a.FilePath) {
			continue
		}
		if !linked[a.ID] {
			orphans = append(orphans, a.ID)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// recommendations are threshold-driven messages; functional (RF-)
// requirements are called out before non-functional (RN-) ones.
func recommendations(m Metrics, g Gaps) []string {
	var recs []string

	switch {
	case m.OverallCoverage < 50:
		recs = append(recs, fmt.Sprintf(
			"critical: overall requirement coverage is %.1f%%; prioritize linking requirements to code", m.OverallCoverage))
	case m.OverallCoverage < 70:
		recs = append(recs, fmt.Sprintf(
			"warning: overall requirement coverage is %.1f%%; several requirements have no traced code", m.OverallCoverage))
	}

	if m.ImplementationCoverage < 60 {
		recs = append(recs, fmt.Sprintf(
			"implementation coverage is %.1f%%; implement the missing requirements", m.ImplementationCoverage))
	}
	if m.TestCoverage < 40 {
		recs = append(recs, fmt.Sprintf(
			"test coverage is %.1f%%; add tests referencing requirement IDs", m.TestCoverage))
	}

	if len(g.MissingImplementations) > 0 {
		recs = append(recs, gapMessage("unimplemented", g.MissingImplementations))
	}
	if len(g.MissingTests) > 0 {
		recs = append(recs, gapMessage("untested", g.MissingTests))
	}
	if len(g.MissingDocumentation) > 0 {
		recs = append(recs, gapMessage("undocumented", g.MissingDocumentation))
	}
	if n := len(g.OrphanedArtifacts); n > 0 {
		recs = append(recs, fmt.Sprintf("%d artifacts trace to no requirement; review or remove them", n))
	}
	if n := len(g.LowConfidenceLinks); n > 0 {
		recs = append(recs, fmt.Sprintf("%d links are below confidence %.1f; clarify the task descriptions", n, lowConfidence))
	}
	return recs
}

// gapMessage annotates a gap category with its count, flagging
// functional requirements as higher priority.
func gapMessage(category string, ids []string) string {
	functional := 0
	for _, id := range ids {
		if strings.HasPrefix(id, "RF-") {
			functional++
		}
	}
	msg := fmt.Sprintf("%d %s requirements", len(ids), category)
	if functional > 0 {
		msg += fmt.Sprintf(" (%d functional, higher priority than non-functional)", functional)
	}
	return msg
}

func indicators(m Metrics, g Gaps) []Indicator {
	var out []Indicator
	for _, id := range g.MissingImplementations {
		out = append(out, Indicator{
			Type:     IndicatorGap,
			Severity: gapSeverity(id),
			Message:  id + " has no implementation link",
		})
	}
	for _, id := range g.OrphanedArtifacts {
		out = append(out, Indicator{
			Type:     IndicatorOrphan,
			Severity: "low",
			Message:  id + " traces to no requirement",
		})
	}
	for _, link := range g.LowConfidenceLinks {
		out = append(out, Indicator{
			Type:     IndicatorLowConfidence,
			Severity: "medium",
			Message:  fmt.Sprintf("%s link confidence %.2f", link.RequirementID, link.Confidence),
		})
	}
	if m.TotalRequirements > 0 && m.LinkedRequirements == m.TotalRequirements {
		out = append(out, Indicator{
			Type:     IndicatorComplete,
			Severity: "info",
			Message:  "every requirement has at least one link",
		})
	}
	return out
}

func gapSeverity(id string) string {
	if strings.HasPrefix(id, "RF-") {
		return "high"
	}
	return "medium"
}

func dedupeSorted(ids []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
