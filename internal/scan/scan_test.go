package scan

import (
	"os"
	"path/filepath"
	"testing"

	"specmap/internal/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestScanPatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.ts":               "const a = 1;",
		"src/view.tsx":             "const b = 2;",
		"lib/util.js":              "const c = 3;",
		"src/types.d.ts":           "declare const d: number;",
		"dist/bundle.js":           "var e;",
		"node_modules/pkg/x.ts":    "const f = 4;",
		"README.md":                "# readme",
		"coverage/lcov-report/i.js": "var g;",
	})

	cfg := config.DefaultConfig().Scan
	files, err := New(root, cfg).Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := paths(files)
	want := []string{"lib/util.js", "src/app.ts", "src/view.tsx"}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":      "generated/\nsecret.ts\n",
		"src/app.ts":      "const a = 1;",
		"src/secret.ts":   "const s = 0;",
		"generated/g.ts":  "const g = 1;",
	})

	cfg := config.DefaultConfig().Scan
	files, err := New(root, cfg).Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := paths(files)
	if len(got) != 1 || got[0] != "src/app.ts" {
		t.Errorf("paths = %v, want [src/app.ts]", got)
	}
}

func TestScanSizeLimit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.ts": "const a = 1;",
		"big.ts":   "const b = '" + string(make([]byte, 512)) + "';",
	})

	cfg := config.DefaultConfig().Scan
	cfg.MaxFileSizeBytes = 100
	cfg.RespectGitignore = false
	files, err := New(root, cfg).Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := paths(files)
	if len(got) != 1 || got[0] != "small.ts" {
		t.Errorf("paths = %v, want [small.ts]", got)
	}
}

func TestIsTestPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"src/app.ts", false},
		{"src/app.test.ts", true},
		{"src/app.spec.tsx", true},
		{"__tests__/app.ts", true},
		{"src/tests/helpers.ts", true},
		{"src/latest/app.ts", false},
	}
	for _, tc := range cases {
		if got := IsTestPath(tc.path); got != tc.want {
			t.Errorf("IsTestPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
