// Package model defines the artifact and relation types shared by the
// analysis pipeline. Artifacts and relations are recomputed fresh on every
// run; nothing in this package mutates incrementally.
package model

import (
	"fmt"
	"math"
	"time"
)

// ArtifactKind identifies what a CodeArtifact represents.
type ArtifactKind string

const (
	KindFile      ArtifactKind = "file"
	KindFunction  ArtifactKind = "function"
	KindClass     ArtifactKind = "class"
	KindInterface ArtifactKind = "interface"
	KindVariable  ArtifactKind = "variable"
	KindImport    ArtifactKind = "import"
)

// RelationType identifies the kind of dependency between two artifacts.
type RelationType string

const (
	RelImports    RelationType = "imports"
	RelCalls      RelationType = "calls"
	RelExtends    RelationType = "extends"
	RelImplements RelationType = "implements"
	RelUses       RelationType = "uses"
)

// CodeArtifact is a uniquely identified unit of code produced by parsing.
// ChangeFrequency, Authors and LastModified are supplied by an external
// history provider, never computed here.
//
// Exactly one of the per-kind metadata pointers is set, matching Kind.
type CodeArtifact struct {
	ID              string       `json:"id"`
	FilePath        string       `json:"filePath"`
	Kind            ArtifactKind `json:"type"`
	Name            string       `json:"name"`
	Complexity      int          `json:"complexity"`
	ChangeFrequency float64      `json:"changeFrequency"`
	LastModified    time.Time    `json:"lastModified"`
	Authors         []string     `json:"authors,omitempty"`
	Dependencies    []string     `json:"dependencies,omitempty"`
	StartLine       int          `json:"startLine"`
	EndLine         int          `json:"endLine"`
	Size            int          `json:"size"`

	Function  *FunctionMeta  `json:"function,omitempty"`
	Class     *ClassMeta     `json:"class,omitempty"`
	Interface *InterfaceMeta `json:"interface,omitempty"`
	Import    *ImportMeta    `json:"import,omitempty"`
}

// FunctionMeta carries function-specific artifact data.
type FunctionMeta struct {
	Parameters []string `json:"parameters,omitempty"`
	ReturnType string   `json:"returnType,omitempty"`
	IsAsync    bool     `json:"isAsync,omitempty"`
	IsExported bool     `json:"isExported,omitempty"`
	Calls      []string `json:"calls,omitempty"`
}

// ClassMeta carries class-specific artifact data.
type ClassMeta struct {
	Extends    string   `json:"extends,omitempty"`
	Implements []string `json:"implements,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Properties []string `json:"properties,omitempty"`
	IsAbstract bool     `json:"isAbstract,omitempty"`
}

// InterfaceMeta carries interface-specific artifact data.
type InterfaceMeta struct {
	Extends    []string `json:"extends,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Properties []string `json:"properties,omitempty"`
}

// ImportMeta carries import-specific artifact data.
type ImportMeta struct {
	Source    string   `json:"source"`
	Default   string   `json:"default,omitempty"`
	Named     []string `json:"named,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
}

// DependencyRelation is a typed, weighted edge between two artifacts.
// Both endpoints must reference artifact IDs present in the same graph.
type DependencyRelation struct {
	FromID   string       `json:"fromArtifactId"`
	ToID     string       `json:"toArtifactId"`
	Type     RelationType `json:"type"`
	Strength float64      `json:"strength"`
}

// ArtifactID builds the deterministic artifact identifier.
// It is stable for a given file+kind+name within one run.
func ArtifactID(filePath string, kind ArtifactKind, name string) string {
	if kind == KindFile {
		return filePath
	}
	return fmt.Sprintf("%s:%s:%s", filePath, kind, name)
}

// Clamp01 clamps v to [0,1] and maps NaN/Inf to the nearest bound.
// Every confidence, strength, coverage and risk value passes through here
// before leaving the engine.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
