// Package graph builds the whole-repository dependency graph from the
// per-file analyses. Cross-file resolution requires the complete artifact
// index, so the builder runs only after every file has been parsed.
package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"specmap/internal/model"
	"specmap/internal/parser"
)

// Graph is the artifact index plus the typed relations between artifacts.
type Graph struct {
	Artifacts []model.CodeArtifact       `json:"artifacts"`
	Relations []model.DependencyRelation `json:"relations"`
	Cycles    [][]string                 `json:"cycles"`
	Metrics   Metrics                    `json:"metrics"`
}

// Metrics summarizes the graph shape.
type Metrics struct {
	TotalRelations       int     `json:"totalRelations"`
	AverageOutDegree     float64 `json:"averageOutDegree"`
	MaxOutDegree         int     `json:"maxOutDegree"`
	CircularDependencies int     `json:"circularDependencies"`
}

type builder struct {
	artifacts []model.CodeArtifact
	byID      map[string]int
	// byFileName keys "filePath\x00name"; byName indexes bare names.
	byFileName map[string]int
	byName     map[string][]int
	files      map[string]bool
	relations  []model.DependencyRelation
	seen       map[string]bool
}

// Build constructs the dependency graph for a set of parsed files.
// Files must be the complete analysis set for the repository.
func Build(files []*parser.FileAnalysis) *Graph {
	b := &builder{
		byID:       map[string]int{},
		byFileName: map[string]int{},
		byName:     map[string][]int{},
		files:      map[string]bool{},
		seen:       map[string]bool{},
	}

	for _, fa := range files {
		if fa == nil {
			continue
		}
		b.files[fa.Path] = true
		for _, a := range parser.BuildArtifacts(fa) {
			b.add(a)
		}
	}

	for _, fa := range files {
		if fa == nil {
			continue
		}
		b.importRelations(fa)
		b.callRelations(fa)
		b.inheritanceRelations(fa)
	}

	cycles := findCycles(b.artifacts, b.relations)

	return &Graph{
		Artifacts: b.artifacts,
		Relations: b.relations,
		Cycles:    cycles,
		Metrics:   computeMetrics(b.artifacts, b.relations, cycles),
	}
}

func (b *builder) add(a model.CodeArtifact) {
	if _, exists := b.byID[a.ID]; exists {
		return
	}
	idx := len(b.artifacts)
	b.artifacts = append(b.artifacts, a)
	b.byID[a.ID] = idx
	if a.Kind != model.KindFile && a.Kind != model.KindImport {
		b.byFileName[a.FilePath+"\x00"+a.Name] = idx
		b.byName[a.Name] = append(b.byName[a.Name], idx)
	}
}

// relate appends one edge, dropping self-edges, duplicates and edges with
// unknown endpoints.
func (b *builder) relate(fromID, toID string, t model.RelationType, strength float64) {
	if fromID == toID {
		return
	}
	if _, ok := b.byID[fromID]; !ok {
		return
	}
	if _, ok := b.byID[toID]; !ok {
		return
	}
	key := fmt.Sprintf("%s\x00%s\x00%s", fromID, toID, t)
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.relations = append(b.relations, model.DependencyRelation{
		FromID:   fromID,
		ToID:     toID,
		Type:     t,
		Strength: model.Clamp01(strength),
	})
}

// importRelations links files through their resolved relative imports.
// Bare package specifiers are left unresolved.
func (b *builder) importRelations(fa *parser.FileAnalysis) {
	for _, imp := range fa.Imports {
		if !strings.HasPrefix(imp.Source, ".") {
			continue
		}
		target := b.resolveImport(fa.Path, imp.Source)
		if target == "" {
			continue
		}
		count := len(imp.Named)
		if imp.Default != "" {
			count++
		}
		if imp.Namespace != "" {
			count++
		}
		strength := 0.3 + 0.1*float64(count)
		b.relate(fa.Path, target, model.RelImports, strength)
	}
}

// resolveImport maps a relative specifier to a known repository file,
// probing source extensions and an index file fallback.
func (b *builder) resolveImport(fromPath, specifier string) string {
	base := path.Join(path.Dir(fromPath), specifier)

	if b.files[base] {
		return base
	}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		if candidate := base + ext; b.files[candidate] {
			return candidate
		}
	}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		if candidate := path.Join(base, "index"+ext); b.files[candidate] {
			return candidate
		}
	}
	return ""
}

// callRelations links each function to the functions it calls, preferring
// a callee defined in the same file over the global index.
func (b *builder) callRelations(fa *parser.FileAnalysis) {
	link := func(fromID string, calls []string) {
		counts := map[string]int{}
		for _, callee := range calls {
			counts[callee]++
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			toID := b.lookup(fa.Path, name)
			if toID == "" || toID == fromID {
				continue
			}
			strength := 0.2 + 0.1*float64(counts[name])
			b.relate(fromID, toID, model.RelCalls, strength)
		}
	}

	for _, fn := range fa.Functions {
		link(model.ArtifactID(fa.Path, model.KindFunction, fn.Name), fn.Calls)
	}
	for _, cls := range fa.Classes {
		for _, m := range cls.Methods {
			link(model.ArtifactID(fa.Path, model.KindFunction, cls.Name+"."+m.Name), m.Calls)
		}
	}
}

// inheritanceRelations links classes to parents and interfaces, and
// interfaces to the interfaces they extend.
func (b *builder) inheritanceRelations(fa *parser.FileAnalysis) {
	for _, cls := range fa.Classes {
		fromID := model.ArtifactID(fa.Path, model.KindClass, cls.Name)
		if cls.Extends != "" {
			if toID := b.lookup(fa.Path, cls.Extends); toID != "" {
				b.relate(fromID, toID, model.RelExtends, 1.0)
			}
		}
		for _, iface := range cls.Implements {
			if toID := b.lookup(fa.Path, iface); toID != "" {
				b.relate(fromID, toID, model.RelImplements, 0.8)
			}
		}
	}
	for _, iface := range fa.Interfaces {
		fromID := model.ArtifactID(fa.Path, model.KindInterface, iface.Name)
		for _, parent := range iface.Extends {
			if toID := b.lookup(fa.Path, parent); toID != "" {
				b.relate(fromID, toID, model.RelExtends, 0.9)
			}
		}
	}
}

// lookup resolves a name to an artifact ID, same file first, then the
// global index in deterministic order.
func (b *builder) lookup(filePath, name string) string {
	if idx, ok := b.byFileName[filePath+"\x00"+name]; ok {
		return b.artifacts[idx].ID
	}
	candidates := b.byName[name]
	if len(candidates) == 0 {
		return ""
	}
	best := ""
	for _, idx := range candidates {
		if id := b.artifacts[idx].ID; best == "" || id < best {
			best = id
		}
	}
	return best
}

func computeMetrics(artifacts []model.CodeArtifact, relations []model.DependencyRelation, cycles [][]string) Metrics {
	m := Metrics{
		TotalRelations:       len(relations),
		CircularDependencies: len(cycles),
	}
	if len(artifacts) == 0 {
		return m
	}
	outDegree := map[string]int{}
	for _, r := range relations {
		outDegree[r.FromID]++
		if outDegree[r.FromID] > m.MaxOutDegree {
			m.MaxOutDegree = outDegree[r.FromID]
		}
	}
	m.AverageOutDegree = float64(len(relations)) / float64(len(artifacts))
	return m
}
