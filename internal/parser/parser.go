package parser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"specmap/internal/complexity"
	"specmap/internal/errors"
)

// Options configures a Parser.
type Options struct {
	// MaxFileSize is the size cap in bytes; larger files are "not
	// analyzable" and return a nil analysis, not an error.
	MaxFileSize int64

	// CalculateComplexity toggles per-function metric computation.
	CalculateComplexity bool
}

// Parser parses source files. A Parser is not safe for concurrent use;
// create one per worker.
type Parser struct {
	ts   *complexity.Parser
	opts Options
}

// New creates a Parser with the given options.
func New(opts Options) *Parser {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 1_000_000
	}
	return &Parser{
		ts:   complexity.NewParser(),
		opts: opts,
	}
}

// ParseFile parses root/rel and returns its analysis. Non-source extensions
// and oversize files return (nil, nil). Read failures return an error the
// caller records as a skipped-file diagnostic.
func (p *Parser) ParseFile(ctx context.Context, root, rel string) (*FileAnalysis, error) {
	ext := strings.ToLower(filepath.Ext(rel))
	lang, ok := complexity.LanguageFromExtension(ext)
	if !ok {
		return nil, nil
	}

	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, "stat "+rel, err)
	}
	if info.Size() > p.opts.MaxFileSize {
		return nil, nil
	}

	source, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, "reading "+rel, err)
	}

	return p.ParseSource(ctx, rel, source, lang)
}

// ParseSource parses raw source bytes recorded under the given path.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte, lang complexity.Language) (*FileAnalysis, error) {
	root, err := p.ts.Parse(ctx, source, lang)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, "parsing "+path, err)
	}

	fa := &FileAnalysis{
		Path:        path,
		Language:    lang,
		Lines:       countLines(source),
		LinesOfCode: complexity.LinesOfCode(root, source),
	}

	p.extract(fa, root, source)

	if p.opts.CalculateComplexity {
		fa.Complexity = aggregateComplexity(fa)
	}
	return fa, nil
}

// aggregateComplexity rolls function metrics up to file granularity.
// The file maintainability index applies the function formula to the
// average cyclomatic complexity across contained functions.
func aggregateComplexity(fa *FileAnalysis) *FileComplexity {
	fc := &FileComplexity{}

	all := make([]*FunctionInfo, 0, len(fa.Functions))
	for i := range fa.Functions {
		all = append(all, &fa.Functions[i])
	}
	for i := range fa.Classes {
		for j := range fa.Classes[i].Methods {
			all = append(all, &fa.Classes[i].Methods[j])
		}
	}

	fc.FunctionCount = len(all)
	for _, fn := range all {
		fc.TotalCyclomatic += fn.Metrics.Cyclomatic
		if fn.Metrics.Cyclomatic > fc.MaxCyclomatic {
			fc.MaxCyclomatic = fn.Metrics.Cyclomatic
		}
	}
	if fc.FunctionCount > 0 {
		fc.AverageCyclomatic = float64(fc.TotalCyclomatic) / float64(fc.FunctionCount)
	}
	fc.MaintainabilityIndex = complexity.FileMaintainability(fc.AverageCyclomatic, fa.LinesOfCode)
	return fc
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte{'\n'})
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}
