// Package history supplies change metadata for artifacts. The engine
// never computes change frequency, authors or modification times itself;
// a Provider hands them in before hotspot detection runs.
package history

import (
	"encoding/json"
	"os"
	"time"

	"specmap/internal/errors"
	"specmap/internal/model"
)

// Record is the change metadata for one file.
type Record struct {
	ChangeFrequency float64   `json:"changeFrequency"`
	Authors         []string  `json:"authors,omitempty"`
	LastModified    time.Time `json:"lastModified"`
}

// Provider supplies per-file change metadata.
type Provider interface {
	// Lookup returns the record for a repo-relative path; ok is false
	// when the provider has no data for it.
	Lookup(path string) (Record, bool)
}

// Enrich copies provider metadata onto every artifact, keyed by file
// path. Artifacts without history data keep their zero values.
func Enrich(artifacts []model.CodeArtifact, p Provider) {
	if p == nil {
		return
	}
	for i := range artifacts {
		if rec, ok := p.Lookup(artifacts[i].FilePath); ok {
			artifacts[i].ChangeFrequency = rec.ChangeFrequency
			artifacts[i].Authors = rec.Authors
			artifacts[i].LastModified = rec.LastModified
		}
	}
}

// NoopProvider has no data; hotspot factors depending on history stay
// at zero.
type NoopProvider struct{}

func (NoopProvider) Lookup(string) (Record, bool) { return Record{}, false }

// FileProvider reads change metadata from a JSON file mapping
// repo-relative paths to records.
type FileProvider struct {
	records map[string]Record
}

// LoadFile builds a FileProvider from a JSON history file.
func LoadFile(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.HistoryInvalid, "reading history file", err)
	}
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(errors.HistoryInvalid, "decoding history file", err)
	}
	return &FileProvider{records: records}, nil
}

func (p *FileProvider) Lookup(path string) (Record, bool) {
	rec, ok := p.records[path]
	return rec, ok
}
