package specs

import (
	"regexp"
	"strings"

	"specmap/internal/config"
	"specmap/internal/model"
)

var (
	requirementIDRe     = regexp.MustCompile(`(?:RF|RN)-\d+[a-z]?`)
	requirementIDFullRe = regexp.MustCompile(`^(?:RF|RN)-\d+[a-z]?$`)
	taskRefRe           = regexp.MustCompile(`_Requirements:\s*([^_\n]+)_`)
	checklistRe         = regexp.MustCompile(`^\s*-\s*\[[ xX]\]\s*(.+)$`)
	numberedRe          = regexp.MustCompile(`^\s*#*\s*(\d+(?:\.\d+)?)[.)]?\s+(.+)$`)
	taskIDPrefixRe      = regexp.MustCompile(`^(\d+(?:\.\d+)?)[.)]?\s+`)
)

var implementationKeywords = []string{"implement", "build", "create"}

// ExtractRequirementIDs returns the requirement IDs found in text,
// deduplicated, in order of first occurrence.
func ExtractRequirementIDs(text string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, id := range requirementIDRe.FindAllString(text, -1) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// FindTaskReferences extracts one RequirementReference per requirement ID
// on every "_Requirements: ..._" line, recovering the owning task by
// scanning backward to the nearest checklist item or numbered heading.
func FindTaskReferences(lines []string, sourceFile string, cfg config.SpecsConfig) []RequirementReference {
	var refs []RequirementReference
	for i, line := range lines {
		m := taskRefRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		taskID, description := findTask(lines, i)
		for _, token := range strings.Split(m[1], ",") {
			id := strings.TrimSpace(token)
			if !requirementIDFullRe.MatchString(id) {
				continue
			}
			refs = append(refs, RequirementReference{
				RequirementID:   id,
				TaskID:          taskID,
				TaskDescription: description,
				Confidence:      ScoreReference(id, description, cfg),
				SourceFile:      sourceFile,
			})
		}
	}
	return refs
}

// findTask scans backward from the reference line for the nearest
// checklist item or numbered heading and returns its ID and description.
func findTask(lines []string, refLine int) (taskID, description string) {
	for i := refLine - 1; i >= 0; i-- {
		if m := checklistRe.FindStringSubmatch(lines[i]); m != nil {
			description = strings.TrimSpace(m[1])
			if idm := taskIDPrefixRe.FindStringSubmatch(description); idm != nil {
				taskID = idm[1]
				description = strings.TrimSpace(description[len(idm[0]):])
			}
			return taskID, description
		}
		if m := numberedRe.FindStringSubmatch(lines[i]); m != nil {
			return m[1], strings.TrimSpace(m[2])
		}
	}
	return "", ""
}

// ScoreReference computes the confidence of one requirement reference
// from its task description.
func ScoreReference(requirementID, description string, cfg config.SpecsConfig) float64 {
	confidence := cfg.BaseConfidence
	lower := strings.ToLower(description)

	if len(description) > 50 {
		confidence += cfg.LongDescriptionBoost
	}
	for _, kw := range implementationKeywords {
		if strings.Contains(lower, kw) {
			confidence += cfg.ImplementationKeywordBoost
			break
		}
	}
	if strings.Contains(lower, "test") {
		confidence += cfg.TestKeywordBoost
	}
	if strings.Contains(description, requirementID) {
		confidence += cfg.RequirementMentionBoost
	}
	return model.Clamp01(confidence)
}
