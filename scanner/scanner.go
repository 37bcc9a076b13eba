// Package scanner discovers the source files under a directory.
package scanner

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// SkippedDirs are never descended into.
var SkippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
	"node_modules": true,
	"vendor":       true,
}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
	gitignore  *ignore.GitIgnore
}

// New creates a scanner for rootDir. Only files with one of the given
// extensions are reported; no extension means every file. Paths matched
// by a .gitignore at rootDir are skipped.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
		gitignore:  LoadGitignore(rootDir),
	}
}

// LoadGitignore compiles root/.gitignore, or returns nil when there is
// none.
func LoadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

// Scan walks the tree and returns the target files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && path != s.rootDir && SkippedDirs[info.Name()] {
			return filepath.SkipDir
		}
		if s.ignored(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !s.isTargetFile(path) {
			return nil
		}

		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	slices.SortFunc(files, func(a, b FileInfo) int { return strings.Compare(a.Path, b.Path) })
	return files, err
}

func (s *Scanner) ignored(path string) bool {
	if s.gitignore == nil || path == s.rootDir {
		return false
	}
	rel, err := filepath.Rel(s.rootDir, path)
	if err != nil {
		return false
	}
	return s.gitignore.MatchesPath(filepath.ToSlash(rel))
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path)))
}
