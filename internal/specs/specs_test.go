package specs

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"specmap/internal/config"
	"specmap/internal/logging"
)

func specsConfig() config.SpecsConfig {
	return config.DefaultConfig().Specs
}

func TestExtractRequirementIDs(t *testing.T) {
	text := `
RF-1 covers login. RF-2 covers logout, see also RF-1.
RN-10a is the latency target. Not an ID: RX-3, RF-, RN-x.
`
	got := ExtractRequirementIDs(text)
	want := []string{"RF-1", "RF-2", "RN-10a"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindTaskReferencesChecklist(t *testing.T) {
	lines := strings.Split(`# Tasks

- [ ] 1.2 Implement the session service
  - write the store
  - _Requirements: RF-1, RF-2_
- [x] 2 Add tests for logout
  - _Requirements: RN-3_
`, "\n")

	refs := FindTaskReferences(lines, "proj/tasks.md", specsConfig())
	if len(refs) != 3 {
		t.Fatalf("got %d references, want 3: %+v", len(refs), refs)
	}

	first := refs[0]
	if first.RequirementID != "RF-1" {
		t.Errorf("requirementId = %q, want RF-1", first.RequirementID)
	}
	if first.TaskID != "1.2" {
		t.Errorf("taskId = %q, want 1.2", first.TaskID)
	}
	if first.TaskDescription != "Implement the session service" {
		t.Errorf("taskDescription = %q", first.TaskDescription)
	}
	if first.SourceFile != "proj/tasks.md" {
		t.Errorf("sourceFile = %q", first.SourceFile)
	}

	last := refs[2]
	if last.RequirementID != "RN-3" || last.TaskID != "2" {
		t.Errorf("last reference = %+v, want RN-3 under task 2", last)
	}
}

func TestFindTaskReferencesNumberedHeading(t *testing.T) {
	lines := strings.Split(`## 3.1 Build the parser pipeline

Some prose about the parser.

_Requirements: RF-7_
`, "\n")

	refs := FindTaskReferences(lines, "proj/tasks.md", specsConfig())
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1: %+v", len(refs), refs)
	}
	if refs[0].TaskID != "3.1" {
		t.Errorf("taskId = %q, want 3.1", refs[0].TaskID)
	}
	if refs[0].TaskDescription != "Build the parser pipeline" {
		t.Errorf("taskDescription = %q", refs[0].TaskDescription)
	}
}

func TestFindTaskReferencesSkipsMalformedIDs(t *testing.T) {
	lines := []string{
		"- [ ] 1 Do stuff",
		"  - _Requirements: RF-1, banana, RX-9_",
	}
	refs := FindTaskReferences(lines, "proj/tasks.md", specsConfig())
	if len(refs) != 1 || refs[0].RequirementID != "RF-1" {
		t.Errorf("refs = %+v, want only RF-1", refs)
	}
}

func TestScoreReference(t *testing.T) {
	cfg := specsConfig()

	cases := []struct {
		name        string
		id          string
		description string
		want        float64
	}{
		{"base", "RF-1", "short task", 0.5},
		{"implementation keyword", "RF-1", "implement login", 0.8},
		{"test keyword", "RF-1", "add test coverage", 0.7},
		{"id mention", "RF-1", "covers RF-1 directly", 0.7},
		{"long description", "RF-1", strings.Repeat("describe the work ", 4), 0.6},
		{"capped at one", "RF-1", "implement and test RF-1 " + strings.Repeat("in detail ", 6), 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreReference(tc.id, tc.description, cfg)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("ScoreReference(%q) = %v, want %v", tc.description, got, tc.want)
			}
		})
	}
}

func TestParseDirMissingIsFatal(t *testing.T) {
	p := NewParser(specsConfig(), logging.NewDiscard())
	_, err := p.ParseDir(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing specs directory")
	}
	if !strings.Contains(err.Error(), "specs directory not found") {
		t.Errorf("error = %v", err)
	}
}

func TestParseDir(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "auth")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	tasks := `# Tasks
- [ ] 1 Implement the login flow
  - _Requirements: RF-1_
`
	requirements := "RF-1: the system authenticates users.\nRN-2: login completes within 200ms.\n"
	if err := os.WriteFile(filepath.Join(project, "tasks.md"), []byte(tasks), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, "requirements.md"), []byte(requirements), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewParser(specsConfig(), logging.NewDiscard())
	results, err := p.ParseDir(root)
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (requirements.md + tasks.md): %+v", len(results), results)
	}

	byFile := map[string]ParsingResult{}
	for _, r := range results {
		byFile[r.File] = r
	}

	req := byFile["auth/requirements.md"]
	if len(req.RequirementIDs) != 2 {
		t.Errorf("requirements.md ids = %v, want [RF-1 RN-2]", req.RequirementIDs)
	}

	tk := byFile["auth/tasks.md"]
	if len(tk.References) != 1 || tk.References[0].RequirementID != "RF-1" {
		t.Errorf("tasks.md references = %+v, want one RF-1", tk.References)
	}
	if tk.Project != "auth" {
		t.Errorf("project = %q, want auth", tk.Project)
	}
}
