package backend

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

type fakeProvider struct {
	name string
	exts []string
}

func (f *fakeProvider) Name() string         { return f.name }
func (f *fakeProvider) Extensions() []string { return f.exts }

func (f *fakeProvider) Parse(_ context.Context, filename string, src []byte) (*cursor.TranslationUnit, error) {
	root := cursor.NewNode(cursor.KindTranslationUnit, f.name, cursor.Extent{})
	return &cursor.TranslationUnit{Filename: filename, Source: src, Root: root}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	c := &fakeProvider{name: "c", exts: []string{".c", ".h"}}
	cpp := &fakeProvider{name: "cpp", exts: []string{".cpp", ".H"}}
	r := NewRegistry(c, cpp)

	tests := []struct {
		filename string
		want     string
	}{
		{"main.c", "c"},
		{"dir/util.h", "cpp"},
		{"widget.CPP", "cpp"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			p, err := r.ProviderFor(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
			assert.True(t, r.Supports(tt.filename))
		})
	}

	_, err := r.ProviderFor("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.False(t, r.Supports("Makefile"))

	assert.Equal(t, []string{".c", ".cpp", ".h"}, r.Extensions())
	assert.Len(t, r.Providers(), 2)
}

func TestRegistryLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;"), 0o644))

	r := NewRegistry(&fakeProvider{name: "c", exts: []string{".c"}})

	unit, err := r.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, unit.Filename)
	assert.Equal(t, "int x;", string(unit.Source))

	_, err = r.Load(context.Background(), filepath.Join(dir, "missing.c"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = r.Load(context.Background(), filepath.Join(dir, "a.rs"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestSyntaxErrorMessage(t *testing.T) {
	t.Parallel()
	err := &SyntaxError{
		Filename: "bad.cpp",
		Diagnostics: []cursor.Diagnostic{{
			Extent:  cursor.Extent{Start: cursor.Position{Filename: "bad.cpp", Line: 2, Column: 5}},
			Message: "missing ;",
		}},
	}
	assert.Equal(t, "bad.cpp: 1 syntax error(s), first at bad.cpp:2:5: missing ;", err.Error())
	assert.Equal(t, "x.cpp: syntax error", (&SyntaxError{Filename: "x.cpp"}).Error())
}
