package trace

import (
	"testing"

	"specmap/internal/config"
	"specmap/internal/logging"
	"specmap/internal/model"
	"specmap/internal/specs"
)

func traceConfig() config.TraceConfig {
	return config.DefaultConfig().Trace
}

func testArtifacts() []model.CodeArtifact {
	return []model.CodeArtifact{
		{ID: "src/auth/session-service.ts", FilePath: "src/auth/session-service.ts", Kind: model.KindFile, Name: "session-service.ts"},
		{ID: "src/auth/session-service.ts:class:SessionService", FilePath: "src/auth/session-service.ts", Kind: model.KindClass, Name: "SessionService"},
		{ID: "src/util/misc.ts:function:shuffle", FilePath: "src/util/misc.ts", Kind: model.KindFunction, Name: "shuffle"},
		{ID: "src/auth/session-service.ts:import:./base", FilePath: "src/auth/session-service.ts", Kind: model.KindImport, Name: "./base"},
	}
}

func TestLinkEmitsConfidentRequirement(t *testing.T) {
	refs := []specs.RequirementReference{{
		RequirementID:   "RF-1",
		TaskID:          "1",
		TaskDescription: "Implement the session service for login and persist the session state",
		Confidence:      0.9,
		SourceFile:      "auth/tasks.md",
	}}
	results := []specs.ParsingResult{{Project: "auth", File: "auth/tasks.md", References: refs}}

	l := NewLinker(traceConfig(), logging.NewDiscard())
	links := l.Link(results, testArtifacts())

	if len(links) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(links), links)
	}
	link := links[0]
	if link.RequirementID != "RF-1" {
		t.Errorf("requirementId = %q, want RF-1", link.RequirementID)
	}
	if link.SpecFile != "auth/tasks.md" {
		t.Errorf("specFile = %q, want auth/tasks.md", link.SpecFile)
	}
	if link.LinkType != LinkImplements {
		t.Errorf("linkType = %q, want implements", link.LinkType)
	}
	if link.Confidence < 0 || link.Confidence > 1 {
		t.Errorf("confidence %v out of [0,1]", link.Confidence)
	}
	if len(link.CodeArtifacts) == 0 {
		t.Error("expected related artifacts for a service-keyword description")
	}
	for _, id := range link.CodeArtifacts {
		if id == "src/auth/session-service.ts:import:./base" {
			t.Error("import artifacts must not be linked")
		}
	}
}

func TestLinkFiltersVagueRequirements(t *testing.T) {
	refs := []specs.RequirementReference{{
		RequirementID:   "RN-9",
		TaskID:          "2",
		TaskDescription: "Do stuff",
		Confidence:      0.5,
		SourceFile:      "misc/tasks.md",
	}}
	results := []specs.ParsingResult{{Project: "misc", File: "misc/tasks.md", References: refs}}

	l := NewLinker(traceConfig(), logging.NewDiscard())
	if links := l.Link(results, testArtifacts()); len(links) != 0 {
		t.Errorf("vague requirement produced links: %+v", links)
	}
}

func TestLinkTypeInference(t *testing.T) {
	cases := []struct {
		description string
		want        LinkType
	}{
		{"Implement the session service layer", LinkImplements},
		{"Write integration tests for the service", LinkTests},
		{"Document the session service API", LinkDocuments},
	}
	for _, tc := range cases {
		refs := []specs.RequirementReference{{
			RequirementID:   "RF-1",
			TaskDescription: tc.description,
			Confidence:      0.9,
			SourceFile:      "auth/tasks.md",
		}}
		results := []specs.ParsingResult{{File: "auth/tasks.md", References: refs}}

		l := NewLinker(traceConfig(), logging.NewDiscard())
		links := l.Link(results, testArtifacts())
		if len(links) != 1 {
			t.Fatalf("%q: got %d links, want 1", tc.description, len(links))
		}
		if links[0].LinkType != tc.want {
			t.Errorf("%q: linkType = %q, want %q", tc.description, links[0].LinkType, tc.want)
		}
	}
}

func TestLinkAggregatesReferences(t *testing.T) {
	refs := []specs.RequirementReference{
		{
			RequirementID:   "RF-1",
			TaskDescription: "Implement the session service with refresh handling for every client",
			Confidence:      0.8,
			SourceFile:      "auth/tasks.md",
		},
		{
			RequirementID:   "RF-1",
			TaskDescription: "x",
			Confidence:      0.5,
			SourceFile:      "auth/design.md",
		},
	}
	results := []specs.ParsingResult{{File: "auth/tasks.md", References: refs}}

	l := NewLinker(traceConfig(), logging.NewDiscard())
	links := l.Link(results, testArtifacts())
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1 (one per requirement)", len(links))
	}
	link := links[0]
	if len(link.TaskReferences) != 2 {
		t.Errorf("taskReferences = %d, want 2", len(link.TaskReferences))
	}
	// the long confident description dominates the short weak one
	if link.Confidence < traceConfig().ConfidenceThreshold {
		t.Errorf("confidence = %v, want >= threshold", link.Confidence)
	}
	if link.SpecFile != "auth/tasks.md" {
		t.Errorf("specFile = %q, want first reference's file", link.SpecFile)
	}
}

func TestLinkEmptyDescriptions(t *testing.T) {
	refs := []specs.RequirementReference{{
		RequirementID: "RF-1",
		Confidence:    0.9,
		SourceFile:    "auth/tasks.md",
	}}
	results := []specs.ParsingResult{{File: "auth/tasks.md", References: refs}}

	l := NewLinker(traceConfig(), logging.NewDiscard())
	// zero-length descriptions must yield zero weight, not NaN
	if links := l.Link(results, testArtifacts()); len(links) != 0 {
		t.Errorf("empty descriptions produced links: %+v", links)
	}
}
