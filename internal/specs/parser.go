package specs

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"specmap/internal/config"
	"specmap/internal/errors"
)

// Spec documents looked for under each project folder.
var specFiles = []string{"requirements.md", "design.md", "tasks.md"}

// Parser reads the specs directory tree.
type Parser struct {
	cfg config.SpecsConfig
	log *slog.Logger
}

// NewParser builds a spec document parser.
func NewParser(cfg config.SpecsConfig, log *slog.Logger) *Parser {
	return &Parser{cfg: cfg, log: log}
}

// ParseDir parses every spec document under root, one project per
// subfolder. A missing root is fatal: without it no traceability
// analysis is possible.
func (p *Parser) ParseDir(root string) ([]ParsingResult, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.SpecsDirMissing, "specs directory not found: "+root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(errors.SpecsDirMissing, "reading specs directory", err)
	}

	var results []ParsingResult
	var projects []string
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, e.Name())
		}
	}
	sort.Strings(projects)

	for _, project := range projects {
		for _, name := range specFiles {
			path := filepath.Join(root, project, name)
			data, err := os.ReadFile(path)
			if err != nil {
				if !os.IsNotExist(err) {
					p.log.Warn("skipping unreadable spec file", "path", path, "error", err)
				}
				continue
			}
			results = append(results, p.parseDocument(project, filepath.ToSlash(filepath.Join(project, name)), string(data)))
		}
	}

	p.log.Debug("parsed spec documents", "projects", len(projects), "documents", len(results))
	return results, nil
}

// parseDocument extracts requirement IDs and task references from one
// document's text.
func (p *Parser) parseDocument(project, file, text string) ParsingResult {
	lines := strings.Split(text, "\n")
	return ParsingResult{
		Project:        project,
		File:           file,
		RequirementIDs: ExtractRequirementIDs(text),
		References:     FindTaskReferences(lines, file, p.cfg),
	}
}
