// Package specs parses specification documents into requirement IDs and
// confidence-scored task references. Spec parsing has no dependency on
// code parsing and runs on its own pipeline branch.
package specs

// RequirementReference is one occurrence of a requirement ID inside a
// spec document's task list.
type RequirementReference struct {
	RequirementID   string  `json:"requirementId"`
	TaskID          string  `json:"taskId"`
	TaskDescription string  `json:"taskDescription"`
	Confidence      float64 `json:"confidence"`
	SourceFile      string  `json:"sourceFile"`
}

// ParsingResult is the parse output for one spec document.
type ParsingResult struct {
	Project        string                 `json:"project"`
	File           string                 `json:"file"` // repo-relative path
	RequirementIDs []string               `json:"requirementIds"`
	References     []RequirementReference `json:"references"`
}
