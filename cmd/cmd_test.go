package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/query"
	"github.com/gnoswap-labs/sas/search"
)

// The commands share package-level flag state, so these tests do not run
// in parallel.

const widgetSource = `class Widget {
public:
    int size() const;
};
int size();
`

func resetFlags(t *testing.T) {
	t.Helper()
	queryTexts = nil
	ignoreQueries = ""
	jsonOutput = false
	outPath = ""
	watchMode = false
	failOnMatch = false
	cfgFile = ""
	t.Cleanup(func() {
		queryTexts = nil
		jsonOutput = false
		outPath = ""
		failOnMatch = false
		cfgFile = ""
	})
}

func writeWidget(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.cpp")
	require.NoError(t, os.WriteFile(path, []byte(widgetSource), 0o644))
	return path
}

func TestDescribeQuery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, describeQuery(&buf, "ui::size:int()"))
	assert.Contains(t, buf.String(), "canonical: ui::size:int()")

	buf.Reset()
	err := describeQuery(&buf, "a::")
	var syntaxErr *query.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, buf.String(), "a::\n   ^\n")
}

func TestListKinds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listKinds(&buf))
	assert.Regexp(t, regexp.MustCompile(`(?m)^CXX_METHOD\s+declaration$`), buf.String())
	assert.Regexp(t, regexp.MustCompile(`(?m)^CALL_EXPR\s+expression$`), buf.String())
}

func TestInitConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), search.DefaultConfigFile)
	require.NoError(t, initConfigurationFile(path, false))

	config, err := search.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, search.DefaultConfig(), config)

	assert.Error(t, initConfigurationFile(path, false))
	assert.NoError(t, initConfigurationFile(path, true))
}

func TestWatchDirs(t *testing.T) {
	file := writeWidget(t)
	dir := filepath.Dir(file)
	assert.Equal(t, []string{dir}, watchDirs([]string{file, dir}))
	assert.Equal(t, []string{"missing"}, watchDirs([]string{"missing"}))
}

func TestFindConfig(t *testing.T) {
	resetFlags(t)

	queryTexts = []string{"size:int()", "Widget"}
	config, err := findConfig()
	require.NoError(t, err)
	assert.Len(t, config.Queries, 2)
	assert.Equal(t, "Widget", config.Queries["Widget"].Query)

	queryTexts = nil
	cfgFile = filepath.Join(t.TempDir(), "none.yaml")
	_, err = findConfig()
	assert.ErrorContains(t, err, "sas init")
}

func TestRunFind(t *testing.T) {
	resetFlags(t)
	file := writeWidget(t)

	engine, err := search.New(search.Config{Queries: map[string]query.Spec{
		"sizes": {Query: "size:int()"},
	}}, zap.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runFind(context.Background(), zap.NewNop(), engine, []string{file}, &buf))
	out := buf.String()
	assert.Contains(t, out, "match: sizes (size:int())")
	assert.Contains(t, out, "widget.cpp:3:5")
	assert.Contains(t, out, "widget.cpp:5:1")

	failOnMatch = true
	buf.Reset()
	err = runFind(context.Background(), zap.NewNop(), engine, []string{file}, &buf)
	assert.ErrorIs(t, err, ErrMatchesFound)
}

func TestRunFind_JSON(t *testing.T) {
	resetFlags(t)
	file := writeWidget(t)
	jsonOutput = true

	engine, err := search.New(search.Config{Queries: map[string]query.Spec{
		"widget": {Class: &query.ClassSpec{Name: "Widget"}},
	}}, zap.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runFind(context.Background(), zap.NewNop(), engine, []string{file}, &buf))

	var matches []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "CLASS_DECL", matches[0]["kind"])
	assert.Equal(t, "Widget", matches[0]["spelling"])

	outPath = filepath.Join(t.TempDir(), "out.json")
	buf.Reset()
	require.NoError(t, runFind(context.Background(), zap.NewNop(), engine, []string{file}, &buf))
	assert.Empty(t, buf.String())
	assert.FileExists(t, outPath)
}

func TestExecuteFind(t *testing.T) {
	resetFlags(t)
	file := writeWidget(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"find", "-q", "size:int()", "--json", file})
	require.NoError(t, rootCmd.Execute())

	var matches []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &matches))
	assert.Len(t, matches, 2)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestDumpFile(t *testing.T) {
	file := writeWidget(t)

	var buf bytes.Buffer
	require.NoError(t, dumpFile(context.Background(), &buf, file))
	assert.Contains(t, buf.String(), `CLASS_DECL "Widget"`)
	assert.Contains(t, buf.String(), `CXX_METHOD "size"`)

	assert.Error(t, dumpFile(context.Background(), &buf, filepath.Join(t.TempDir(), "notes.txt")))
}
