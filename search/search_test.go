package search

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/sas/internal/backend"
	tt "github.com/gnoswap-labs/sas/internal/types"
)

func init() {
	ProgressOutput = io.Discard
}

type mockSearchEngine struct {
	mock.Mock
}

func (m *mockSearchEngine) Run(ctx context.Context, filename string) ([]tt.Match, error) {
	args := m.Called(ctx, filename)
	return args.Get(0).([]tt.Match), args.Error(1)
}

func (m *mockSearchEngine) RunSource(ctx context.Context, filename string, source []byte) ([]tt.Match, error) {
	args := m.Called(ctx, filename, source)
	return args.Get(0).([]tt.Match), args.Error(1)
}

func (m *mockSearchEngine) IgnoreQuery(name string) {
	m.Called(name)
}

func (m *mockSearchEngine) IgnorePath(path string) {
	m.Called(path)
}

func sampleMatch(filename string, line int) tt.Match {
	return tt.Match{
		Query:    "sizes",
		Pattern:  "size:int()",
		Filename: filename,
		Kind:     "FUNCTION_DECL",
		Spelling: "size",
		Start:    token.Position{Filename: filename, Offset: 0, Line: line, Column: 1},
		End:      token.Position{Filename: filename, Offset: 10, Line: line, Column: 11},
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	expected := []tt.Match{sampleMatch("test.cpp", 1)}

	engine := new(mockSearchEngine)
	engine.On("Run", ctx, "test.cpp").Return(expected, nil)

	matches, err := ProcessFile(ctx, engine, "test.cpp")
	assert.NoError(t, err)
	assert.Equal(t, expected, matches)
	engine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	content := []byte("int size();")
	expected := []tt.Match{sampleMatch("a.cpp", 1)}

	engine := new(mockSearchEngine)
	engine.On("RunSource", ctx, "a.cpp", content).Return(expected, nil)

	matches, err := ProcessSource(ctx, engine, Source{Filename: "a.cpp", Content: content})
	assert.NoError(t, err)
	assert.Equal(t, expected, matches)
	engine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sources := []Source{
		{Filename: "a.cpp", Content: []byte("int size();")},
		{Filename: "b.cpp", Content: []byte("int size();")},
	}

	engine := new(mockSearchEngine)
	engine.On("RunSource", ctx, "a.cpp", sources[0].Content).Return([]tt.Match{sampleMatch("a.cpp", 1)}, nil)
	engine.On("RunSource", ctx, "b.cpp", sources[1].Content).Return([]tt.Match{sampleMatch("b.cpp", 1)}, nil)

	matches, err := ProcessSources(ctx, nil, engine, sources)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	failing := new(mockSearchEngine)
	failing.On("RunSource", ctx, "a.cpp", sources[0].Content).Return([]tt.Match(nil), errors.New("boom"))
	_, err = ProcessSources(ctx, nil, failing, sources)
	assert.EqualError(t, err, "boom")
	failing.AssertNumberOfCalls(t, "RunSource", 1)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "a.cpp"),
		filepath.Join(dir, "sub", "b.go"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))

	engine := new(mockSearchEngine)
	engine.On("Run", ctx, files[1]).Return([]tt.Match{sampleMatch(files[1], 3)}, nil)
	engine.On("Run", ctx, files[0]).Return([]tt.Match{sampleMatch(files[0], 1)}, nil)

	matches, err := ProcessPath(ctx, nil, engine, dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, files[0], matches[0].Filename)
	assert.Equal(t, files[1], matches[1].Filename)
	engine.AssertExpectations(t)
	engine.AssertNotCalled(t, "Run", ctx, filepath.Join(dir, "README.md"))
}

func TestProcessPath_SingleFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	engine := new(mockSearchEngine)
	engine.On("Run", ctx, file).Return([]tt.Match(nil), errors.New("boom"))

	matches, err := ProcessPath(ctx, nil, engine, file, ProcessFile)
	assert.EqualError(t, err, "boom")
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestProcessPath_Missing(t *testing.T) {
	t.Parallel()
	_, err := ProcessPath(context.Background(), nil, new(mockSearchEngine), filepath.Join(t.TempDir(), "nope"), ProcessFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	good := filepath.Join(dir, "good.cpp")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))

	engine := new(mockSearchEngine)
	engine.On("Run", ctx, good).Return([]tt.Match{sampleMatch(good, 1)}, nil)

	matches, err := ProcessFiles(ctx, nil, engine, []string{filepath.Join(dir, "missing.cpp"), good}, ProcessFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Len(t, matches, 1, "a failing path does not stop the others")
}

func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		content := fmt.Sprintf("int size%d() { return %d; }\n", i, i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%d.cpp", i)), []byte(content), 0o644))
	}

	engine, err := New(Config{Queries: queriesOf("q", "size.*:int()")}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches, err := ProcessPath(ctx, nil, engine, dir, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, matches)
}

func TestProcessPathWithRealEngine(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		content := fmt.Sprintf("int size%d();\nint size%d() { return %d; }\n", i, i, i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%d.cpp", i)), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "size.go"), []byte("package p\n\nfunc sizeGo() int { return 0 }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.go"), []byte("this is not go"), 0o644))

	engine, err := New(Config{Queries: queriesOf("q", "size.*:int()")}, nil)
	require.NoError(t, err)

	matches, err := ProcessPath(context.Background(), nil, engine, dir, ProcessFile)
	var syntaxErr *backend.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr, "syntax errors are reported after the walk")
	assert.Len(t, matches, 11)

	files := make(map[string]bool)
	for _, m := range matches {
		files[m.Filename] = true
	}
	assert.Len(t, files, 6)
}
