// Package hotspots scores artifacts for risk from change frequency,
// complexity, author churn and recency. Change metadata is supplied by a
// history provider before detection runs; nothing here reads git.
package hotspots

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"specmap/internal/config"
	"specmap/internal/model"
	"specmap/internal/scan"
)

// Type is the dominant risk factor of a hotspot.
type Type string

const (
	TypeChangeFrequency Type = "change_frequency"
	TypeComplexity      Type = "complexity"
	TypeAuthorChurn     Type = "author_churn"
	TypeCombined        Type = "combined"
)

// Severity buckets a riskScore.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Factors are the four normalized risk inputs, each in [0,1].
type Factors struct {
	ChangeFrequency float64 `json:"changeFrequency"`
	Complexity      float64 `json:"complexity"`
	AuthorChurn     float64 `json:"authorChurn"`
	Recency         float64 `json:"recency"`
}

// Hotspot is one risk-scored artifact.
type Hotspot struct {
	ArtifactID      string   `json:"artifactId"`
	FilePath        string   `json:"filePath"`
	RiskScore       float64  `json:"riskScore"`
	Type            Type     `json:"hotspotType"`
	Severity        Severity `json:"severity"`
	Factors         Factors  `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// Summary aggregates a detection run.
type Summary struct {
	TotalHotspots int              `json:"totalHotspots"`
	CriticalCount int              `json:"criticalCount"`
	TopRiskFiles  []string         `json:"topRiskFiles"`
	CommonTypes   map[Type]int     `json:"commonTypes"`
	BySeverity    map[Severity]int `json:"bySeverity"`
}

// Analysis is the full hotspot output.
type Analysis struct {
	Hotspots []Hotspot `json:"hotspots"`
	Summary  Summary   `json:"summary"`
	Trends   TrendData `json:"trends"`
}

// Path fragments for artifacts that never count as hotspots.
var skipFragments = []string{".d.ts", ".config.", "webpack", "rollup", "babel", "tsconfig", "jest.config"}

// Detector scores artifacts against configured thresholds.
type Detector struct {
	cfg config.HotspotsConfig
	log *slog.Logger
	now time.Time
}

// NewDetector builds a detector evaluating recency against now.
func NewDetector(cfg config.HotspotsConfig, log *slog.Logger, now time.Time) *Detector {
	return &Detector{cfg: cfg, log: log, now: now}
}

// Detect scores every eligible artifact and returns hotspots sorted
// descending by risk.
func (d *Detector) Detect(artifacts []model.CodeArtifact) []Hotspot {
	var hotspots []Hotspot
	for i := range artifacts {
		a := &artifacts[i]
		if d.skip(a) {
			continue
		}
		hotspots = append(hotspots, d.score(a))
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].RiskScore != hotspots[j].RiskScore {
			return hotspots[i].RiskScore > hotspots[j].RiskScore
		}
		return hotspots[i].ArtifactID < hotspots[j].ArtifactID
	})
	d.log.Debug("hotspot detection finished", "candidates", len(artifacts), "hotspots", len(hotspots))
	return hotspots
}

// skip filters imports and test/build/config/declaration paths.
func (d *Detector) skip(a *model.CodeArtifact) bool {
	if a.Kind == model.KindImport {
		return true
	}
	if scan.IsTestPath(a.FilePath) {
		return true
	}
	lower := strings.ToLower(a.FilePath)
	for _, fragment := range skipFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

func (d *Detector) score(a *model.CodeArtifact) Hotspot {
	factors := d.normalize(a)
	w := d.cfg.Weights
	risk := model.Clamp01(factors.ChangeFrequency*w.ChangeFrequency +
		factors.Complexity*w.Complexity +
		factors.AuthorChurn*w.AuthorChurn +
		factors.Recency*w.Recency)

	hotspotType := classify(factors)
	severity := d.severity(risk)

	return Hotspot{
		ArtifactID:      a.ID,
		FilePath:        a.FilePath,
		RiskScore:       risk,
		Type:            hotspotType,
		Severity:        severity,
		Factors:         factors,
		Recommendations: recommend(severity, hotspotType, a.Kind),
	}
}

// normalize maps the raw metadata onto [0,1] factor scales. Change
// frequency is log-scaled so a few extra commits on a quiet file matter
// more than a few on a churning one.
func (d *Detector) normalize(a *model.CodeArtifact) Factors {
	f := Factors{
		ChangeFrequency: model.Clamp01(math.Log(a.ChangeFrequency+1) / math.Log(d.cfg.ChangeFrequencyThreshold+1)),
		Complexity:      model.Clamp01(float64(a.Complexity) / d.cfg.ComplexityThreshold),
		AuthorChurn:     model.Clamp01(float64(len(a.Authors)) / d.cfg.AuthorThreshold),
	}
	if !a.LastModified.IsZero() {
		days := d.now.Sub(a.LastModified).Hours() / 24
		if days < 0 {
			days = 0
		}
		f.Recency = model.Clamp01(math.Exp(-days / d.cfg.RecencyHalfLifeDays))
	}
	return f
}

// classify picks the dominant factor when it is both the maximum and
// above 0.6; otherwise the hotspot is combined.
func classify(f Factors) Type {
	maxType := TypeChangeFrequency
	maxValue := f.ChangeFrequency
	if f.Complexity > maxValue {
		maxType, maxValue = TypeComplexity, f.Complexity
	}
	if f.AuthorChurn > maxValue {
		maxType, maxValue = TypeAuthorChurn, f.AuthorChurn
	}
	if maxValue > 0.6 {
		return maxType
	}
	return TypeCombined
}

func (d *Detector) severity(risk float64) Severity {
	s := d.cfg.Severity
	switch {
	case risk < s.Medium:
		return SeverityLow
	case risk < s.High:
		return SeverityMedium
	case risk < s.Critical:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// recommend applies the fixed rule table keyed on severity, hotspot type
// and artifact kind.
func recommend(severity Severity, t Type, kind model.ArtifactKind) []string {
	var recs []string
	if severity == SeverityCritical {
		recs = append(recs, "urgent: schedule a refactor before further feature work")
	}

	switch t {
	case TypeChangeFrequency:
		recs = append(recs, "stabilize the API and add regression tests around recent changes")
	case TypeComplexity:
		recs = append(recs, "extract smaller functions and apply single-responsibility boundaries")
	case TypeAuthorChurn:
		recs = append(recs, "assign a code owner and document the module's intent")
	case TypeCombined:
		recs = append(recs, "review change history and complexity together before the next change")
	}

	switch kind {
	case model.KindClass:
		recs = append(recs, "consider splitting the class along its method clusters")
	case model.KindFile:
		recs = append(recs, "consider splitting the file by responsibility")
	}
	return recs
}

// Summarize aggregates counts, top files and common types for a
// detection result.
func Summarize(hotspots []Hotspot) Summary {
	s := Summary{
		TotalHotspots: len(hotspots),
		CommonTypes:   map[Type]int{},
		BySeverity:    map[Severity]int{},
	}

	seenFiles := map[string]bool{}
	for _, h := range hotspots {
		s.CommonTypes[h.Type]++
		s.BySeverity[h.Severity]++
		if h.Severity == SeverityCritical {
			s.CriticalCount++
		}
		if !seenFiles[h.FilePath] && len(s.TopRiskFiles) < 5 {
			seenFiles[h.FilePath] = true
			s.TopRiskFiles = append(s.TopRiskFiles, h.FilePath)
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d hotspots (%d critical)", s.TotalHotspots, s.CriticalCount)
}
