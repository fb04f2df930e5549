package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"
)

type payload struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"out.json", FormatJSON},
		{"out.yaml", FormatYAML},
		{"out.yml", FormatYAML},
		{"out.json.gz", FormatJSON},
		{"out.yaml.gz", FormatYAML},
		{"out", FormatJSON},
	}
	for _, tc := range cases {
		if got := FormatForPath(tc.path); got != tc.want {
			t.Errorf("FormatForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Write(path, payload{Name: "run", Count: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Name != "run" || got.Count != 3 {
		t.Errorf("payload = %+v", got)
	}
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Write(path, payload{Name: "run", Count: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got payload
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if got.Name != "run" || got.Count != 3 {
		t.Errorf("payload = %+v", got)
	}
}

func TestWriteGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json.gz")
	if err := Write(path, payload{Name: "run", Count: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("not gzip: %v", err)
	}
	defer gz.Close()

	var got payload
	if err := json.NewDecoder(gz).Decode(&got); err != nil {
		t.Fatalf("invalid json inside gzip: %v", err)
	}
	if got.Name != "run" {
		t.Errorf("payload = %+v", got)
	}
}
