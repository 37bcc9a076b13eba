package suppress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/internal/backend/cpp"
	"github.com/gnoswap-labs/sas/internal/backend/golang"
	"github.com/gnoswap-labs/sas/internal/cursor"
)

func parseGo(t *testing.T, src string) *cursor.TranslationUnit {
	t.Helper()
	unit, err := golang.New(zap.NewNop()).Parse(context.Background(), "test.go", []byte(src))
	require.NoError(t, err)
	return unit
}

func TestParseQueryNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rest     string
		expected []string
		wantErr  bool
	}{
		{rest: "", expected: nil},
		{rest: " generated code", expected: nil},
		{rest: ":sizes", expected: []string{"sizes"}},
		{rest: ":sizes, calls,", expected: []string{"sizes", "calls"}},
		{rest: "\r", expected: nil},
		{rest: ":", wantErr: true},
		{rest: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.rest, func(t *testing.T) {
			t.Parallel()
			queries, err := parseQueryNames(tt.rest)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, queries, len(tt.expected))
			for _, name := range tt.expected {
				assert.Contains(t, queries, name)
			}
		})
	}
}

func TestIsSuppressed(t *testing.T) {
	t.Parallel()
	source := `package main

func main() {
	//nosas
	fmt.Println("Line 5")
	fmt.Println("Line 6")
	fmt.Println("Line 7") //nosas:calls
	//nosas:refs
	fmt.Println("Line 9")
}
`
	manager := Parse(parseGo(t, source))
	assert.Equal(t, 3, manager.Len())

	tests := []struct {
		line       int
		query      string
		suppressed bool
	}{
		{5, "any", true},
		{6, "any", false},
		{7, "calls", true},
		{7, "refs", false},
		{9, "refs", true},
		{9, "calls", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.suppressed, manager.IsSuppressed(tt.line, tt.query), "line %d query %s", tt.line, tt.query)
	}
}

func TestFileScope(t *testing.T) {
	t.Parallel()
	source := `//nosas:sizes
package main

func size() int { return 0 }
`
	manager := Parse(parseGo(t, source))
	assert.True(t, manager.IsSuppressed(4, "sizes"))
	assert.False(t, manager.IsSuppressed(4, "other"))
}

func TestDeclarationScope(t *testing.T) {
	t.Parallel()
	source := `package main

//nosas
func foo() {
	x := 1
	_ = x
}

func bar() {}
`
	manager := Parse(parseGo(t, source))
	assert.True(t, manager.IsSuppressed(4, "q"))
	assert.True(t, manager.IsSuppressed(6, "q"))
	assert.False(t, manager.IsSuppressed(9, "q"))
}

func TestMalformedComments(t *testing.T) {
	t.Parallel()
	source := `package main

//nosasx
var a int

//nosas:
var b int
`
	manager := Parse(parseGo(t, source))
	assert.Equal(t, 0, manager.Len())
	assert.False(t, manager.IsSuppressed(4, "q"))
}

func TestCppSource(t *testing.T) {
	t.Parallel()
	source := `class Widget {
    //nosas:methods
    void resize(int n);
    int size() const; //nosas
};
`
	unit, err := cpp.New(zap.NewNop(), false).Parse(context.Background(), "widget.cpp", []byte(source))
	require.NoError(t, err)

	manager := Parse(unit)
	assert.True(t, manager.IsSuppressed(3, "methods"))
	assert.False(t, manager.IsSuppressed(3, "sizes"))
	assert.True(t, manager.IsSuppressed(4, "sizes"))
	assert.False(t, manager.IsSuppressed(1, "methods"))
}
