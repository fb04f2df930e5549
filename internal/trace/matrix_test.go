package trace

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatrixRoundTrip(t *testing.T) {
	entries := []MatrixEntry{
		{
			RequirementID: "RF-1",
			HookName:      "pre-commit",
			TestCase:      "session_test",
			CodeArtifacts: []string{"src/a.ts", "src/b.ts"},
			Coverage:      0.4,
		},
		{
			RequirementID: "RN-2",
			CodeArtifacts: []string{"src/c.ts"},
			Coverage:      0.2,
		},
	}

	reparsed := ParseMatrix(GenerateMatrix(entries))
	if len(reparsed) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(reparsed), reparsed)
	}
	for i, want := range entries {
		got := reparsed[i]
		if got.RequirementID != want.RequirementID {
			t.Errorf("entry %d id = %q, want %q", i, got.RequirementID, want.RequirementID)
		}
		if got.HookName != want.HookName || got.TestCase != want.TestCase {
			t.Errorf("entry %d hook/test = %q/%q, want %q/%q", i, got.HookName, got.TestCase, want.HookName, want.TestCase)
		}
		if len(got.CodeArtifacts) != len(want.CodeArtifacts) {
			t.Errorf("entry %d artifacts = %v, want %v", i, got.CodeArtifacts, want.CodeArtifacts)
			continue
		}
		for j := range want.CodeArtifacts {
			if got.CodeArtifacts[j] != want.CodeArtifacts[j] {
				t.Errorf("entry %d artifact %d = %q, want %q", i, j, got.CodeArtifacts[j], want.CodeArtifacts[j])
			}
		}
		if math.Abs(got.Coverage-want.Coverage) > 1e-9 {
			t.Errorf("entry %d coverage = %v, want %v", i, got.Coverage, want.Coverage)
		}
	}
}

func TestGenerateMatrixRendering(t *testing.T) {
	entries := []MatrixEntry{{
		RequirementID: "RF-1",
		CodeArtifacts: []string{"a", "b", "c", "d", "e"},
		Coverage:      0.667,
	}}
	content := GenerateMatrix(entries)

	if !strings.Contains(content, "| Requirement ID | Hook Name | Test Case | Code Artifacts | Coverage |") {
		t.Error("header row missing")
	}
	if !strings.Contains(content, "a, b, c, ...") {
		t.Errorf("artifact list not truncated with ellipsis:\n%s", content)
	}
	if !strings.Contains(content, "| 67% |") {
		t.Errorf("coverage not rendered as rounded percentage:\n%s", content)
	}
}

func TestGenerateMatrixZeroCoverageEmptyCell(t *testing.T) {
	content := GenerateMatrix([]MatrixEntry{{RequirementID: "RF-1"}})
	if !strings.Contains(content, "| RF-1 |  |  |  |  |") {
		t.Errorf("zero coverage should render empty cells:\n%s", content)
	}
}

func TestParseMatrixSkipsMalformedRows(t *testing.T) {
	content := `# Traceability Matrix

| Requirement ID | Hook Name | Test Case | Code Artifacts | Coverage |
|----------------|-----------|-----------|----------------|----------|
| RF-1 |  |  | src/a.ts | 20% |
| not-an-id |  |  | src/b.ts | 20% |
| RF-2 | missing | cells |
| RN-3 |  |  | src/c.ts, src/d.ts | 40% |
`
	entries := ParseMatrix(content)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (malformed rows skipped): %+v", len(entries), entries)
	}
	if entries[0].RequirementID != "RF-1" || entries[1].RequirementID != "RN-3" {
		t.Errorf("entries = %+v", entries)
	}
	if len(entries[1].CodeArtifacts) != 2 {
		t.Errorf("RN-3 artifacts = %v, want two", entries[1].CodeArtifacts)
	}
}

func TestMergeUnionsArtifacts(t *testing.T) {
	existing := []MatrixEntry{{
		RequirementID: "RF-1",
		CodeArtifacts: []string{"src/a.ts", "src/b.ts"},
		Coverage:      0.4,
	}}
	links := []Link{
		{RequirementID: "RF-1", CodeArtifacts: []string{"src/b.ts", "src/c.ts"}},
		{RequirementID: "RF-2", CodeArtifacts: []string{"src/d.ts"}},
	}

	merged := Merge(existing, links, 0.2)
	if len(merged) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(merged), merged)
	}

	rf1 := merged[0]
	if rf1.RequirementID != "RF-1" {
		t.Fatalf("entries not sorted: %+v", merged)
	}
	if len(rf1.CodeArtifacts) != 3 {
		t.Errorf("RF-1 artifacts = %v, want union of 3", rf1.CodeArtifacts)
	}
	if math.Abs(rf1.Coverage-0.6) > 1e-9 {
		t.Errorf("RF-1 coverage = %v, want 0.6", rf1.Coverage)
	}

	rf2 := merged[1]
	if math.Abs(rf2.Coverage-0.2) > 1e-9 {
		t.Errorf("RF-2 coverage = %v, want 0.2", rf2.Coverage)
	}
}

func TestMergeCoverageCapsAtOne(t *testing.T) {
	links := []Link{{
		RequirementID: "RF-1",
		CodeArtifacts: []string{"a", "b", "c", "d", "e", "f", "g"},
	}}
	merged := Merge(nil, links, 0.2)
	if merged[0].Coverage != 1.0 {
		t.Errorf("coverage = %v, want capped 1.0", merged[0].Coverage)
	}
}

func TestWriteAndLoadMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.md")
	entries := []MatrixEntry{{
		RequirementID: "RF-1",
		CodeArtifacts: []string{"src/a.ts"},
		Coverage:      0.2,
	}}

	if err := WriteMatrix(path, entries); err != nil {
		t.Fatalf("WriteMatrix: %v", err)
	}
	loaded, err := LoadMatrix(path)
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	if len(loaded) != 1 || loaded[0].RequirementID != "RF-1" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadMatrixMissingFile(t *testing.T) {
	entries, err := LoadMatrix(filepath.Join(t.TempDir(), "absent.md"))
	if err != nil || entries != nil {
		t.Errorf("missing matrix: got (%v, %v), want (nil, nil)", entries, err)
	}
}

func TestWriteMatrixFailure(t *testing.T) {
	dir := t.TempDir()
	// a directory at the target path forces the write to fail
	target := filepath.Join(dir, "matrix.md")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := WriteMatrix(target, nil); err == nil {
		t.Fatal("expected write failure")
	}
}
