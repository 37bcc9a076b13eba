package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/sas/internal/matcher"
	"github.com/gnoswap-labs/sas/query"
)

func queriesOf(kv ...string) map[string]query.Spec {
	queries := make(map[string]query.Spec, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		queries[kv[i]] = query.Spec{Query: kv[i+1]}
	}
	return queries
}

const sampleConfig = `name: widgets
mode: [declaration, expression]
strict: true
ignore_paths:
  - third_party
queries:
  sizes:
    query: "size:int()"
  widget:
    class:
      name: Widget
    scope: top-level
    contents:
      - query: "resize:void(...)"
`

func TestParseConfig(t *testing.T) {
	t.Parallel()
	config, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "widgets", config.Name)
	assert.True(t, config.Strict)
	assert.Equal(t, []string{"third_party"}, config.IgnorePaths)
	assert.Len(t, config.Queries, 2)

	mode, err := config.MatchMode()
	require.NoError(t, err)
	assert.Equal(t, matcher.All, mode)

	patterns, err := config.Compile()
	require.NoError(t, err)
	assert.Contains(t, patterns, "sizes")
	assert.Contains(t, patterns, "widget")
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{
			name:   "bad query",
			config: Config{Queries: queriesOf("broken", "a::")},
			errMsg: `query "broken"`,
		},
		{
			name:   "bad mode",
			config: Config{Mode: []string{"sideways"}, Queries: queriesOf("q", "a")},
			errMsg: "sideways",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.config, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()
	mode, err := config.MatchMode()
	require.NoError(t, err)
	assert.Equal(t, matcher.Declaration, mode)

	data, err := config.Marshal()
	require.NoError(t, err)
	parsed, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, config, parsed)
}

func TestNewFromFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	engine, err := NewFromFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sizes", "widget"}, engine.Queries())
	assert.Equal(t, matcher.All, engine.Mode())

	_, err = NewFromFile(filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("queries: [1, 2"), 0o644))
	_, err = NewFromFile(path, nil)
	assert.Error(t, err)
}
