package parser

import (
	"path"

	"specmap/internal/model"
)

// BuildArtifacts converts a FileAnalysis into the artifact set consumed by
// the graph builder, the traceability linker and the hotspot detector.
// Artifact IDs are deterministic for a given file+kind+name.
func BuildArtifacts(fa *FileAnalysis) []model.CodeArtifact {
	if fa == nil {
		return nil
	}

	var artifacts []model.CodeArtifact

	// an empty file still spans one line so endLine >= startLine holds
	endLine := fa.Lines
	if endLine < 1 {
		endLine = 1
	}
	file := model.CodeArtifact{
		ID:        model.ArtifactID(fa.Path, model.KindFile, ""),
		FilePath:  fa.Path,
		Kind:      model.KindFile,
		Name:      path.Base(fa.Path),
		StartLine: 1,
		EndLine:   endLine,
		Size:      endLine,
	}
	if fa.Complexity != nil {
		file.Complexity = fa.Complexity.TotalCyclomatic
	}
	for _, imp := range fa.Imports {
		file.Dependencies = append(file.Dependencies, imp.Source)
	}
	artifacts = append(artifacts, file)

	for i := range fa.Functions {
		artifacts = append(artifacts, functionArtifact(fa.Path, &fa.Functions[i], ""))
	}

	for i := range fa.Classes {
		cls := &fa.Classes[i]
		meta := &model.ClassMeta{
			Extends:    cls.Extends,
			Implements: cls.Implements,
			Properties: cls.Properties,
			IsAbstract: cls.IsAbstract,
		}
		for j := range cls.Methods {
			meta.Methods = append(meta.Methods, cls.Methods[j].Name)
		}

		art := model.CodeArtifact{
			ID:        model.ArtifactID(fa.Path, model.KindClass, cls.Name),
			FilePath:  fa.Path,
			Kind:      model.KindClass,
			Name:      cls.Name,
			StartLine: cls.StartLine,
			EndLine:   cls.EndLine,
			Size:      cls.EndLine - cls.StartLine + 1,
			Class:     meta,
		}
		if cls.Extends != "" {
			art.Dependencies = append(art.Dependencies, cls.Extends)
		}
		art.Dependencies = append(art.Dependencies, cls.Implements...)
		artifacts = append(artifacts, art)

		// methods become function artifacts named Class.method
		for j := range cls.Methods {
			artifacts = append(artifacts, functionArtifact(fa.Path, &cls.Methods[j], cls.Name))
		}
	}

	for i := range fa.Interfaces {
		iface := &fa.Interfaces[i]
		art := model.CodeArtifact{
			ID:        model.ArtifactID(fa.Path, model.KindInterface, iface.Name),
			FilePath:  fa.Path,
			Kind:      model.KindInterface,
			Name:      iface.Name,
			StartLine: iface.StartLine,
			EndLine:   iface.EndLine,
			Size:      iface.EndLine - iface.StartLine + 1,
			Interface: &model.InterfaceMeta{
				Extends:    iface.Extends,
				Methods:    iface.Methods,
				Properties: iface.Properties,
			},
			Dependencies: iface.Extends,
		}
		artifacts = append(artifacts, art)
	}

	for _, v := range fa.Variables {
		artifacts = append(artifacts, model.CodeArtifact{
			ID:        model.ArtifactID(fa.Path, model.KindVariable, v.Name),
			FilePath:  fa.Path,
			Kind:      model.KindVariable,
			Name:      v.Name,
			StartLine: v.Line,
			EndLine:   v.Line,
			Size:      1,
		})
	}

	for _, imp := range fa.Imports {
		artifacts = append(artifacts, model.CodeArtifact{
			ID:        model.ArtifactID(fa.Path, model.KindImport, imp.Source),
			FilePath:  fa.Path,
			Kind:      model.KindImport,
			Name:      imp.Source,
			StartLine: imp.Line,
			EndLine:   imp.Line,
			Size:      1,
			Import: &model.ImportMeta{
				Source:    imp.Source,
				Default:   imp.Default,
				Named:     imp.Named,
				Namespace: imp.Namespace,
			},
		})
	}

	return artifacts
}

func functionArtifact(filePath string, fn *FunctionInfo, className string) model.CodeArtifact {
	name := fn.Name
	if className != "" {
		name = className + "." + fn.Name
	}
	return model.CodeArtifact{
		ID:           model.ArtifactID(filePath, model.KindFunction, name),
		FilePath:     filePath,
		Kind:         model.KindFunction,
		Name:         name,
		Complexity:   fn.Metrics.Cyclomatic,
		StartLine:    fn.StartLine,
		EndLine:      fn.EndLine,
		Size:         fn.EndLine - fn.StartLine + 1,
		Dependencies: fn.Calls,
		Function: &model.FunctionMeta{
			Parameters: fn.Parameters,
			ReturnType: fn.ReturnType,
			IsAsync:    fn.IsAsync,
			IsExported: fn.IsExported,
			Calls:      fn.Calls,
		},
	}
}
