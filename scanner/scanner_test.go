package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestProjectScanner(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{
		"main.cpp":          "int main() {}",
		"util.h":            "int util();",
		"notes.txt":         "This is a text file",
		"subdir/widget.CPP": "class Widget {};",
	})

	scannedFiles, err := New(tempDir, ".cpp", ".h").Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tempDir, "main.cpp"),
		filepath.Join(tempDir, "subdir/widget.CPP"),
		filepath.Join(tempDir, "util.h"),
	}, paths(scannedFiles))
	for _, file := range scannedFiles {
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}
}

func TestScannerSkipsIgnoredPaths(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{
		".gitignore":          "build/\n*.gen.cpp\n",
		"src/a.cpp":           "",
		"src/a.gen.cpp":       "",
		"build/out.cpp":       "",
		".git/hooks/x.cpp":    "",
		"node_modules/m/y.go": "",
	})

	scannedFiles, err := New(tempDir, ".cpp", ".go").Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tempDir, "src/a.cpp")}, paths(scannedFiles))
}

func TestScannerWithoutExtensions(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{"a.txt": "a", "b/c.md": "c"})

	scannedFiles, err := New(tempDir).Scan()
	require.NoError(t, err)
	assert.Len(t, scannedFiles, 2)
}

func TestScannerMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "missing")).Scan()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
