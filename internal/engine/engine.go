// Package engine orchestrates the analysis pipeline: file discovery,
// parallel per-file parsing, dependency graph construction, spec
// parsing, traceability linking, coverage and hotspot detection.
package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"specmap/internal/config"
	"specmap/internal/coverage"
	"specmap/internal/graph"
	"specmap/internal/history"
	"specmap/internal/hotspots"
	"specmap/internal/model"
	"specmap/internal/parser"
	"specmap/internal/scan"
	"specmap/internal/specs"
	"specmap/internal/storage"
	"specmap/internal/trace"
)

// Engine runs the analysis pipeline.
type Engine struct {
	cfg     *config.Config
	log     *slog.Logger
	history history.Provider
	store   *storage.DB
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory sets the change-metadata provider.
func WithHistory(p history.Provider) Option {
	return func(e *Engine) { e.history = p }
}

// WithStore enables snapshot persistence and trend loading.
func WithStore(db *storage.DB) Option {
	return func(e *Engine) { e.store = db }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an Engine.
func New(cfg *config.Config, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		log:     log,
		history: history.NoopProvider{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full pipeline. Code parsing and spec parsing run on
// parallel branches; the traceability linker joins them.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	start := e.now()

	var specResults []specs.ParsingResult
	var specErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p := specs.NewParser(e.cfg.Specs, e.log)
		specResults, specErr = p.ParseDir(filepath.Join(e.cfg.RepoRoot, e.cfg.Specs.Dir))
	}()

	codebase, diagnostics, err := e.analyzeCodebase(ctx)
	if err != nil {
		wg.Wait()
		return nil, err
	}
	result.Codebase = codebase
	result.Diagnostics = diagnostics

	history.Enrich(codebase.Graph.Artifacts, e.history)

	var hotspotAnalysis *hotspots.Analysis
	var hotspotWG sync.WaitGroup
	hotspotWG.Add(1)
	go func() {
		defer hotspotWG.Done()
		hotspotAnalysis = e.analyzeHotspots(codebase.Graph.Artifacts)
	}()

	wg.Wait()
	if specErr != nil {
		hotspotWG.Wait()
		return nil, specErr
	}

	traceability, coverageResult, err := e.analyzeTraceability(specResults, codebase.Graph.Artifacts)
	if err != nil {
		hotspotWG.Wait()
		return nil, err
	}
	result.Traceability = traceability
	result.Coverage = coverageResult

	hotspotWG.Wait()
	result.Hotspots = hotspotAnalysis

	e.persistSnapshot(result)

	e.log.Info("analysis complete",
		"runId", result.RunID,
		"files", codebase.Summary.FileCount,
		"artifacts", codebase.Summary.ArtifactCount,
		"links", len(traceability.Links),
		"hotspots", len(hotspotAnalysis.Hotspots),
		"duration", e.now().Sub(start).Round(time.Millisecond))
	return result, nil
}

// analyzeCodebase runs scan and parallel per-file parsing, then the
// single-threaded graph reduction once every worker has joined.
func (e *Engine) analyzeCodebase(ctx context.Context) (*CodebaseAnalysis, []Diagnostic, error) {
	scanner := scan.New(e.cfg.RepoRoot, e.cfg.Scan)
	files, err := scanner.Scan(e.cfg.RepoRoot)
	if err != nil {
		return nil, nil, err
	}
	e.log.Debug("scanned repository", "files", len(files))

	workers := e.cfg.Scan.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	analyses := make([]*parser.FileAnalysis, len(files))
	diagnostics := make([]Diagnostic, 0)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			p := parser.New(parser.Options{
				MaxFileSize:         e.cfg.Scan.MaxFileSizeBytes,
				CalculateComplexity: e.cfg.Analysis.CalculateComplexity,
			})
			fa, err := p.ParseFile(gctx, e.cfg.RepoRoot, f.Path)
			if err != nil {
				// one bad file must not abort the batch
				e.log.Warn("skipping file", "path", f.Path, "error", err)
				mu.Lock()
				diagnostics = append(diagnostics, Diagnostic{Path: f.Path, Message: err.Error()})
				mu.Unlock()
				return nil
			}
			analyses[i] = fa
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	parsed := make([]*parser.FileAnalysis, 0, len(analyses))
	for _, fa := range analyses {
		if fa != nil {
			parsed = append(parsed, fa)
		}
	}

	var depGraph *graph.Graph
	if e.cfg.Analysis.AnalyzeDependencies {
		depGraph = graph.Build(parsed)
	} else {
		depGraph = &graph.Graph{}
		for _, fa := range parsed {
			depGraph.Artifacts = append(depGraph.Artifacts, parser.BuildArtifacts(fa)...)
		}
	}

	return &CodebaseAnalysis{
		Files:   parsed,
		Graph:   depGraph,
		Summary: summarize(parsed, depGraph),
	}, diagnostics, nil
}

// analyzeTraceability links requirements to artifacts, merges the
// persisted matrix and computes coverage.
func (e *Engine) analyzeTraceability(specResults []specs.ParsingResult, artifacts []model.CodeArtifact) (*TraceabilityAnalysis, *coverage.Result, error) {
	linker := trace.NewLinker(e.cfg.Trace, e.log)
	links := linker.Link(specResults, artifacts)

	matrixPath := filepath.Join(e.cfg.RepoRoot, e.cfg.Trace.MatrixPath)
	existing, err := trace.LoadMatrix(matrixPath)
	if err != nil {
		return nil, nil, err
	}
	matrix := trace.Merge(existing, links, e.cfg.Trace.CoverageStep)
	if err := trace.WriteMatrix(matrixPath, matrix); err != nil {
		return nil, nil, err
	}

	requirements := collectRequirements(specResults)
	coverageResult := coverage.Analyze(requirements, links, artifacts)

	return &TraceabilityAnalysis{
		SpecResults: specResults,
		Links:       links,
		Matrix:      matrix,
		Coverage:    coverageResult.Metrics,
	}, coverageResult, nil
}

// analyzeHotspots detects hotspots and attaches trends loaded from the
// snapshot store when one is configured.
func (e *Engine) analyzeHotspots(artifacts []model.CodeArtifact) *hotspots.Analysis {
	now := e.now()
	detector := hotspots.NewDetector(e.cfg.Hotspots, e.log, now)
	detected := detector.Detect(artifacts)

	analysis := &hotspots.Analysis{
		Hotspots: detected,
		Summary:  hotspots.Summarize(detected),
	}

	if e.store != nil {
		samples, err := e.store.TrendSamples(now.AddDate(0, -12, 0))
		if err != nil {
			e.log.Warn("loading trend samples", "error", err)
		} else {
			analysis.Trends = hotspots.Trends(samples, now)
		}
	}
	return analysis
}

// persistSnapshot records this run's aggregates for future trends.
// Persistence problems are logged, never fatal.
func (e *Engine) persistSnapshot(result *Result) {
	if e.store == nil {
		return
	}

	artifacts := result.Codebase.Graph.Artifacts
	var complexity, changeFrequency, authorChurn float64
	for _, a := range artifacts {
		complexity += float64(a.Complexity)
		changeFrequency += a.ChangeFrequency
		authorChurn += float64(len(a.Authors))
	}
	if n := float64(len(artifacts)); n > 0 {
		complexity /= n
		changeFrequency /= n
		authorChurn /= n
	}

	snapshot := storage.Snapshot{
		RunID:              result.RunID,
		TakenAt:            e.now().UTC(),
		ArtifactCount:      len(artifacts),
		AvgComplexity:      complexity,
		AvgChangeFrequency: changeFrequency,
		AvgAuthorChurn:     authorChurn,
	}
	if result.Traceability != nil {
		snapshot.TotalRequirements = result.Traceability.Coverage.TotalRequirements
		snapshot.LinkedRequirements = result.Traceability.Coverage.LinkedRequirements
	}

	if err := e.store.SaveSnapshot(snapshot); err != nil {
		e.log.Warn("saving snapshot", "error", err)
	}
	if err := e.store.Prune(e.cfg.Hotspots.SnapshotRetentionDays); err != nil {
		e.log.Warn("pruning snapshots", "error", err)
	}
}

func summarize(files []*parser.FileAnalysis, g *graph.Graph) CodebaseSummary {
	s := CodebaseSummary{
		FileCount:     len(files),
		ArtifactCount: len(g.Artifacts),
	}
	var totalComplexity, functionCount int
	for _, fa := range files {
		s.FunctionCount += len(fa.Functions)
		s.ClassCount += len(fa.Classes)
		s.InterfaceCount += len(fa.Interfaces)
		s.TotalLines += fa.Lines
		for _, fn := range fa.Functions {
			totalComplexity += fn.Metrics.Cyclomatic
			functionCount++
		}
		for _, cls := range fa.Classes {
			for _, m := range cls.Methods {
				totalComplexity += m.Metrics.Cyclomatic
				functionCount++
			}
		}
	}
	if functionCount > 0 {
		s.AvgComplexity = float64(totalComplexity) / float64(functionCount)
	}
	return s
}

func collectRequirements(results []specs.ParsingResult) []string {
	var ids []string
	for _, r := range results {
		ids = append(ids, r.RequirementIDs...)
	}
	sort.Strings(ids)
	return ids
}
