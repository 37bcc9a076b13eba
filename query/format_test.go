package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_RoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"Foo::Bar::get:int*(...)",
		":()",
		"main:()",
		":void(x:int, :char*, y, ...)",
		"/operator()/:bool(/a,b/:int)",
		"count",
		":int",
		".*",
		"ns::x:unsigned int",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			p := MustCompile(input)

			text, err := Format(p)
			require.NoError(t, err)

			again, err := Compile(text)
			require.NoError(t, err, "formatted text %q", text)
			assert.Equal(t, p.String(), again.String())
		})
	}
}

func TestFormat_Canonical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"Foo :: get : int ( x : int , ... )", "Foo::get:int(x:int, ...)"},
		{"count:", "count"},
		{"/operator()/:()", "/operator()/:()"},
	}
	for _, tt := range tests {
		got, err := Format(MustCompile(tt.input))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormat_NotExpressible(t *testing.T) {
	t.Parallel()
	class, err := NewClass("Widget")
	require.NoError(t, err)
	search, err := NewSearch("foo")
	require.NoError(t, err)
	topLevel, err := NewVariable("x", "", WithQualifiers(TopLevel()))
	require.NoError(t, err)
	nested, err := NewFunction("f", "", nil, WithContents(search))
	require.NoError(t, err)
	interposed, err := NewFunction("f", "", []Param{Ellipsis{}, MustCompile("x").(*Variable)})
	require.NoError(t, err)
	slashed, err := NewVariable("a/(b)", "")
	require.NoError(t, err)

	for _, p := range []Pattern{class, search, topLevel, nested, interposed, slashed} {
		_, err := Format(p)
		assert.True(t, errors.Is(err, ErrNotExpressible), "%s: %v", p, err)
	}
}
