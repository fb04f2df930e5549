package trace

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"specmap/internal/errors"
	"specmap/internal/model"
)

// MatrixEntry is one persisted row of the traceability matrix.
type MatrixEntry struct {
	RequirementID string   `json:"requirementId"`
	HookName      string   `json:"hookName,omitempty"`
	TestCase      string   `json:"testCase,omitempty"`
	CodeArtifacts []string `json:"codeArtifacts"`
	Coverage      float64  `json:"coverage"`
}

const matrixHeader = "| Requirement ID | Hook Name | Test Case | Code Artifacts | Coverage |"

var matrixIDRe = regexp.MustCompile(`^(?:RF|RN)-\d+[a-z]?$`)

// ParseMatrix reads a markdown traceability matrix. Malformed rows
// (wrong column count, unrecognized requirement ID) are silently
// skipped; the file is human-edited and recovery is best effort.
func ParseMatrix(content string) []MatrixEntry {
	var entries []MatrixEntry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if len(cells) != 5 {
			continue
		}
		reqID := cells[0]
		if !matrixIDRe.MatchString(reqID) {
			// header, separator or damaged row
			continue
		}
		entries = append(entries, MatrixEntry{
			RequirementID: reqID,
			HookName:      cells[1],
			TestCase:      cells[2],
			CodeArtifacts: parseArtifactCell(cells[3]),
			Coverage:      parseCoverageCell(cells[4]),
		})
	}
	return entries
}

// GenerateMatrix renders the matrix back to markdown. Artifact lists
// longer than three entries are truncated with an ellipsis; zero
// coverage renders as an empty cell.
func GenerateMatrix(entries []MatrixEntry) string {
	var b strings.Builder
	b.WriteString("# Traceability Matrix\n\n")
	b.WriteString(matrixHeader + "\n")
	b.WriteString("|----------------|-----------|-----------|----------------|----------|\n")

	sorted := append([]MatrixEntry{}, entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RequirementID < sorted[j].RequirementID })

	for _, e := range sorted {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.RequirementID, e.HookName, e.TestCase,
			artifactCell(e.CodeArtifacts), coverageCell(e.Coverage))
	}
	return b.String()
}

// Merge unions newly linked artifacts into the existing matrix and
// recomputes coverage from the distinct artifact count.
func Merge(existing []MatrixEntry, links []Link, coverageStep float64) []MatrixEntry {
	byID := map[string]*MatrixEntry{}
	var order []string
	for i := range existing {
		e := existing[i]
		byID[e.RequirementID] = &e
		order = append(order, e.RequirementID)
	}

	for _, link := range links {
		entry, ok := byID[link.RequirementID]
		if !ok {
			entry = &MatrixEntry{RequirementID: link.RequirementID}
			byID[link.RequirementID] = entry
			order = append(order, link.RequirementID)
		}
		entry.CodeArtifacts = unionSorted(entry.CodeArtifacts, link.CodeArtifacts)
	}

	sort.Strings(order)
	out := make([]MatrixEntry, 0, len(order))
	for _, id := range order {
		entry := byID[id]
		entry.Coverage = model.Clamp01(float64(len(entry.CodeArtifacts)) * coverageStep)
		out = append(out, *entry)
	}
	return out
}

// LoadMatrix reads the persisted matrix; a missing file is an empty
// matrix, not an error.
func LoadMatrix(path string) ([]MatrixEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.MatrixWriteFailed, "reading traceability matrix", err)
	}
	return ParseMatrix(string(data)), nil
}

// WriteMatrix persists the matrix. A write failure is fatal: the on-disk
// record would otherwise diverge from the in-memory links.
func WriteMatrix(path string, entries []MatrixEntry) error {
	if err := os.WriteFile(path, []byte(GenerateMatrix(entries)), 0o644); err != nil {
		return errors.Wrap(errors.MatrixWriteFailed, "writing traceability matrix", err)
	}
	return nil
}

// unionSorted merges two artifact ID lists without duplicates.
func unionSorted(a, b []string) []string {
	seen := map[string]bool{}
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		seen[id] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil
	}
	// drop the empty fragments outside the leading and trailing pipes
	parts = parts[1 : len(parts)-1]
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func parseArtifactCell(cell string) []string {
	if cell == "" {
		return nil
	}
	var artifacts []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "..." {
			continue
		}
		artifacts = append(artifacts, part)
	}
	return artifacts
}

func parseCoverageCell(cell string) float64 {
	cell = strings.TrimSuffix(strings.TrimSpace(cell), "%")
	if cell == "" {
		return 0
	}
	var pct float64
	if _, err := fmt.Sscanf(cell, "%f", &pct); err != nil {
		return 0
	}
	return model.Clamp01(pct / 100)
}

func artifactCell(artifacts []string) string {
	if len(artifacts) > 3 {
		return strings.Join(artifacts[:3], ", ") + ", ..."
	}
	return strings.Join(artifacts, ", ")
}

func coverageCell(coverage float64) string {
	if coverage <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(math.Round(coverage*100)))
}
