// Package trace links specification requirements to the code artifacts
// that implement, test or document them, and maintains the persisted
// traceability matrix.
package trace

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"specmap/internal/config"
	"specmap/internal/model"
	"specmap/internal/specs"
)

// LinkType classifies what a link's artifacts do for the requirement.
type LinkType string

const (
	LinkImplements LinkType = "implements"
	LinkTests      LinkType = "tests"
	LinkDocuments  LinkType = "documents"
)

// Link is one confidence-scored requirement-to-code association.
// One link per requirement ID per analysis run.
type Link struct {
	RequirementID  string                       `json:"requirementId"`
	SpecFile       string                       `json:"specFile"`
	CodeArtifacts  []string                     `json:"codeArtifacts"`
	LinkType       LinkType                     `json:"linkType"`
	Confidence     float64                      `json:"confidence"`
	TaskReferences []specs.RequirementReference `json:"taskReferences"`
}

// Functional naming conventions matched against both task text and
// artifact names/paths.
var functionalKeywords = []string{"service", "controller", "parser", "analyzer", "processor", "manager"}

var wordRe = regexp.MustCompile(`[A-Za-z0-9]+`)

// Linker scores requirement references against the artifact set.
type Linker struct {
	cfg config.TraceConfig
	log *slog.Logger
}

// NewLinker builds a traceability linker.
func NewLinker(cfg config.TraceConfig, log *slog.Logger) *Linker {
	return &Linker{cfg: cfg, log: log}
}

// Link aggregates all task references by requirement ID and emits one
// link per requirement whose weighted confidence clears the threshold.
func (l *Linker) Link(results []specs.ParsingResult, artifacts []model.CodeArtifact) []Link {
	grouped := map[string][]specs.RequirementReference{}
	var order []string
	for _, res := range results {
		for _, ref := range res.References {
			if _, ok := grouped[ref.RequirementID]; !ok {
				order = append(order, ref.RequirementID)
			}
			grouped[ref.RequirementID] = append(grouped[ref.RequirementID], ref)
		}
	}
	sort.Strings(order)

	var links []Link
	for _, reqID := range order {
		refs := grouped[reqID]
		link := l.scoreRequirement(reqID, refs, artifacts)
		if link.Confidence < l.cfg.ConfidenceThreshold {
			l.log.Debug("requirement below confidence threshold",
				"requirement", reqID, "confidence", link.Confidence)
			continue
		}
		links = append(links, link)
	}
	return links
}

// scoreRequirement computes the weighted-average confidence over all of a
// requirement's references, boosting references with related artifacts.
func (l *Linker) scoreRequirement(reqID string, refs []specs.RequirementReference, artifacts []model.CodeArtifact) Link {
	related := map[string]bool{}
	var weightedSum, weightSum float64
	var texts []string

	for _, ref := range refs {
		texts = append(texts, ref.TaskDescription)

		matched := l.relatedArtifacts(ref.TaskDescription, artifacts)
		confidence := ref.Confidence
		if len(matched) > 0 {
			confidence *= l.cfg.RelatedBoost
		}
		for _, id := range matched {
			related[id] = true
		}

		weight := float64(len(ref.TaskDescription)) / 100
		if weight > 2 {
			weight = 2
		}
		weightedSum += confidence * weight
		weightSum += weight
	}

	var confidence float64
	if weightSum > 0 {
		confidence = weightedSum / weightSum
	}

	ids := make([]string, 0, len(related))
	for id := range related {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return Link{
		RequirementID:  reqID,
		SpecFile:       refs[0].SourceFile,
		CodeArtifacts:  ids,
		LinkType:       inferLinkType(strings.Join(texts, " ")),
		Confidence:     model.Clamp01(confidence),
		TaskReferences: refs,
	}
}

// relatedArtifacts finds artifacts plausibly connected to a task
// description: name substrings, shared significant words with the file
// path, functional keywords, and near-identical words by string
// similarity.
func (l *Linker) relatedArtifacts(description string, artifacts []model.CodeArtifact) []string {
	lower := strings.ToLower(description)
	if lower == "" {
		return nil
	}
	words := significantWords(lower)

	var ids []string
	for i := range artifacts {
		a := &artifacts[i]
		if a.Kind == model.KindImport {
			continue
		}
		if l.artifactRelates(lower, words, a) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (l *Linker) artifactRelates(description string, words []string, a *model.CodeArtifact) bool {
	name := strings.ToLower(a.Name)
	path := strings.ToLower(a.FilePath)

	if name != "" && strings.Contains(description, name) {
		return true
	}
	for _, w := range words {
		if strings.Contains(path, w) {
			return true
		}
	}
	for _, kw := range functionalKeywords {
		if strings.Contains(description, kw) && (strings.Contains(name, kw) || strings.Contains(path, kw)) {
			return true
		}
	}
	for _, w := range words {
		sim, err := edlib.StringsSimilarity(w, name, edlib.JaroWinkler)
		if err == nil && float64(sim) >= l.cfg.SimilarityThreshold {
			return true
		}
	}
	return false
}

// significantWords returns the lowercase words longer than three
// characters.
func significantWords(lower string) []string {
	var words []string
	for _, w := range wordRe.FindAllString(lower, -1) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

// inferLinkType reads the aggregated task text for testing or
// documentation intent; implementation is the default.
func inferLinkType(text string) LinkType {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "test") {
		return LinkTests
	}
	if strings.Contains(lower, "document") {
		return LinkDocuments
	}
	return LinkImplements
}
