// Package export writes analysis results to JSON or YAML files, with
// transparent gzip compression for .gz targets.
package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"specmap/internal/errors"
)

// Format selects the serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath infers the format from the file name, ignoring a
// trailing .gz.
func FormatForPath(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Write serializes v to path. A .gz suffix gzips the output.
func Write(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.InternalError, "creating export file", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := Encode(w, FormatForPath(path), v); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.Wrap(errors.InternalError, "closing gzip writer", err)
		}
	}
	return f.Close()
}

// Encode serializes v onto w in the given format.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(errors.InternalError, "encoding yaml", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(errors.InternalError, "encoding json", err)
		}
		return nil
	}
}
