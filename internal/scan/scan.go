// Package scan discovers the source files an analysis run will process.
//
// Discovery walks the repository once, applying include/exclude glob
// patterns and, when enabled, the repository's .gitignore rules. Results
// are repo-relative, slash-separated paths in deterministic order.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"specmap/internal/config"
)

// Directories never worth descending into, regardless of patterns.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".specmap":     true,
}

// File is one discovered source file.
type File struct {
	// Path is repo-relative with forward slashes.
	Path string
	Size int64
}

// Scanner walks a repository root for source files.
type Scanner struct {
	cfg     config.ScanConfig
	matcher *ignore.GitIgnore
}

// New builds a Scanner for the given root. A .gitignore at the root is
// honored when cfg.RespectGitignore is set; a missing or unreadable one
// is not an error.
func New(root string, cfg config.ScanConfig) *Scanner {
	s := &Scanner{cfg: cfg}
	if cfg.RespectGitignore {
		if m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			s.matcher = m
		}
	}
	return s
}

// Scan walks root and returns the matching files sorted by path.
func (s *Scanner) Scan(root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if s.matcher != nil && s.matcher.MatchesPath(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if !s.matches(rel) {
			return nil
		}
		if s.matcher != nil && s.matcher.MatchesPath(rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if s.cfg.MaxFileSizeBytes > 0 && info.Size() > s.cfg.MaxFileSizeBytes {
			return nil
		}

		files = append(files, File{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// matches applies the include patterns, then the exclude patterns.
func (s *Scanner) matches(rel string) bool {
	included := len(s.cfg.IncludePatterns) == 0
	for _, pattern := range s.cfg.IncludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range s.cfg.ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// IsTestPath reports whether a repo-relative path looks like test code.
func IsTestPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		switch strings.ToLower(part) {
		case "test", "tests", "__tests__", "spec", "specs":
			return true
		}
	}
	return false
}
