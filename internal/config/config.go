// Package config defines the engine configuration.
//
// Configuration is an explicit struct injected into the engine entry points;
// there is no process-wide mutable state. Values load from
// <repoRoot>/.specmap/config.json with compiled defaults as fallback.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"specmap/internal/errors"
)

// Config is the complete specmap configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Scan     ScanConfig     `json:"scan" mapstructure:"scan"`
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Specs    SpecsConfig    `json:"specs" mapstructure:"specs"`
	Trace    TraceConfig    `json:"trace" mapstructure:"trace"`
	Hotspots HotspotsConfig `json:"hotspots" mapstructure:"hotspots"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls repository file discovery.
type ScanConfig struct {
	IncludePatterns  []string `json:"includePatterns" mapstructure:"includePatterns"`
	ExcludePatterns  []string `json:"excludePatterns" mapstructure:"excludePatterns"`
	MaxFileSizeBytes int64    `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	Workers          int      `json:"workers" mapstructure:"workers"` // 0 = GOMAXPROCS
	RespectGitignore bool     `json:"respectGitignore" mapstructure:"respectGitignore"`
}

// AnalysisConfig toggles per-file analysis stages.
type AnalysisConfig struct {
	CalculateComplexity bool `json:"calculateComplexity" mapstructure:"calculateComplexity"`
	AnalyzeDependencies bool `json:"analyzeDependencies" mapstructure:"analyzeDependencies"`
	IncludeComments     bool `json:"includeComments" mapstructure:"includeComments"`
}

// SpecsConfig controls specification-document parsing.
// Boost values are tunable heuristics, not laws; the defaults are the
// documented engine behavior.
type SpecsConfig struct {
	Dir                        string  `json:"dir" mapstructure:"dir"`
	BaseConfidence             float64 `json:"baseConfidence" mapstructure:"baseConfidence"`
	LongDescriptionBoost       float64 `json:"longDescriptionBoost" mapstructure:"longDescriptionBoost"`
	ImplementationKeywordBoost float64 `json:"implementationKeywordBoost" mapstructure:"implementationKeywordBoost"`
	TestKeywordBoost           float64 `json:"testKeywordBoost" mapstructure:"testKeywordBoost"`
	RequirementMentionBoost    float64 `json:"requirementMentionBoost" mapstructure:"requirementMentionBoost"`
}

// TraceConfig controls requirement-to-code linking and the matrix.
type TraceConfig struct {
	ConfidenceThreshold float64 `json:"confidenceThreshold" mapstructure:"confidenceThreshold"`
	RelatedBoost        float64 `json:"relatedBoost" mapstructure:"relatedBoost"`
	CoverageStep        float64 `json:"coverageStep" mapstructure:"coverageStep"`
	SimilarityThreshold float64 `json:"similarityThreshold" mapstructure:"similarityThreshold"`
	MatrixPath          string  `json:"matrixPath" mapstructure:"matrixPath"`
}

// HotspotsConfig controls risk-hotspot detection.
type HotspotsConfig struct {
	ChangeFrequencyThreshold float64        `json:"changeFrequencyThreshold" mapstructure:"changeFrequencyThreshold"`
	ComplexityThreshold      float64        `json:"complexityThreshold" mapstructure:"complexityThreshold"`
	AuthorThreshold          float64        `json:"authorThreshold" mapstructure:"authorThreshold"`
	RecencyHalfLifeDays      float64        `json:"recencyHalfLifeDays" mapstructure:"recencyHalfLifeDays"`
	Weights                  HotspotWeights `json:"weights" mapstructure:"weights"`
	Severity                 SeverityBounds `json:"severity" mapstructure:"severity"`
	HistoryFile              string         `json:"historyFile" mapstructure:"historyFile"`
	SnapshotRetentionDays    int            `json:"snapshotRetentionDays" mapstructure:"snapshotRetentionDays"`
}

// HotspotWeights weighs the four normalized risk factors.
type HotspotWeights struct {
	ChangeFrequency float64 `json:"changeFrequency" mapstructure:"changeFrequency"`
	Complexity      float64 `json:"complexity" mapstructure:"complexity"`
	AuthorChurn     float64 `json:"authorChurn" mapstructure:"authorChurn"`
	Recency         float64 `json:"recency" mapstructure:"recency"`
}

// SeverityBounds are the riskScore boundaries between severity levels.
type SeverityBounds struct {
	Medium   float64 `json:"medium" mapstructure:"medium"`
	High     float64 `json:"high" mapstructure:"high"`
	Critical float64 `json:"critical" mapstructure:"critical"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Scan: ScanConfig{
			IncludePatterns: []string{"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx"},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/coverage/**",
				"**/*.d.ts",
			},
			MaxFileSizeBytes: 1_000_000,
			Workers:          0,
			RespectGitignore: true,
		},
		Analysis: AnalysisConfig{
			CalculateComplexity: true,
			AnalyzeDependencies: true,
			IncludeComments:     false,
		},
		Specs: SpecsConfig{
			Dir:                        "specs",
			BaseConfidence:             0.5,
			LongDescriptionBoost:       0.1,
			ImplementationKeywordBoost: 0.3,
			TestKeywordBoost:           0.2,
			RequirementMentionBoost:    0.2,
		},
		Trace: TraceConfig{
			ConfidenceThreshold: 0.7,
			RelatedBoost:        1.2,
			CoverageStep:        0.2,
			SimilarityThreshold: 0.88,
			MatrixPath:          "traceability-matrix.md",
		},
		Hotspots: HotspotsConfig{
			ChangeFrequencyThreshold: 10,
			ComplexityThreshold:      10,
			AuthorThreshold:          5,
			RecencyHalfLifeDays:      30,
			Weights: HotspotWeights{
				ChangeFrequency: 0.3,
				Complexity:      0.25,
				AuthorChurn:     0.25,
				Recency:         0.2,
			},
			Severity: SeverityBounds{
				Medium:   0.3,
				High:     0.5,
				Critical: 0.85,
			},
			SnapshotRetentionDays: 400,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load loads configuration from <repoRoot>/.specmap/config.json.
// A missing config file yields the defaults; a malformed one is an error.
func Load(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".specmap"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := DefaultConfig()
			cfg.RepoRoot = repoRoot
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ConfigInvalid, "reading config", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "decoding config", err)
	}
	if cfg.RepoRoot == "" || cfg.RepoRoot == "." {
		cfg.RepoRoot = repoRoot
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to <repoRoot>/.specmap/config.json.
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".specmap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ConfigInvalid, "creating config directory", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ConfigInvalid, "encoding config", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Trace.ConfidenceThreshold < 0 || c.Trace.ConfidenceThreshold > 1 {
		return errors.New(errors.ConfigInvalid, "trace.confidenceThreshold must be in [0,1]")
	}
	if c.Trace.CoverageStep <= 0 || c.Trace.CoverageStep > 1 {
		return errors.New(errors.ConfigInvalid, "trace.coverageStep must be in (0,1]")
	}
	if c.Scan.MaxFileSizeBytes <= 0 {
		return errors.New(errors.ConfigInvalid, "scan.maxFileSizeBytes must be positive")
	}
	w := c.Hotspots.Weights
	if w.ChangeFrequency+w.Complexity+w.AuthorChurn+w.Recency <= 0 {
		return errors.New(errors.ConfigInvalid, "hotspots.weights must sum to a positive value")
	}
	s := c.Hotspots.Severity
	if !(s.Medium < s.High && s.High < s.Critical && s.Critical <= 1) {
		return errors.New(errors.ConfigInvalid, "hotspots.severity bounds must be increasing and at most 1")
	}
	return nil
}
