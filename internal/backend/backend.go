// Package backend turns source files into cursor trees.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

// ErrUnsupportedLanguage is returned for files no registered provider
// understands.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Provider parses source code of one language into a translation unit.
type Provider interface {
	Name() string
	// Extensions lists the file extensions handled, including the dot.
	Extensions() []string
	Parse(ctx context.Context, filename string, src []byte) (*cursor.TranslationUnit, error)
}

// SyntaxError is returned by providers running in strict mode when the
// source contains syntax errors.
type SyntaxError struct {
	Filename    string
	Diagnostics []cursor.Diagnostic
}

func (e *SyntaxError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("%s: syntax error", e.Filename)
	}
	return fmt.Sprintf("%s: %d syntax error(s), first at %s", e.Filename, len(e.Diagnostics), e.Diagnostics[0])
}

// Registry selects a provider by file extension.
type Registry struct {
	byExt     map[string]Provider
	providers []Provider
}

// NewRegistry creates a registry holding the given providers. Later
// providers win when extensions overlap.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{byExt: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p for each of its extensions.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// ProviderFor returns the provider for filename.
func (r *Registry) ProviderFor(filename string) (Provider, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if p, ok := r.byExt[ext]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, filename)
}

// Supports reports whether some provider handles filename.
func (r *Registry) Supports(filename string) bool {
	_, err := r.ProviderFor(filename)
	return err == nil
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []Provider {
	return slices.Clone(r.providers)
}

// Parse parses src with the provider for filename.
func (r *Registry) Parse(ctx context.Context, filename string, src []byte) (*cursor.TranslationUnit, error) {
	p, err := r.ProviderFor(filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, filename, src)
}

// Load reads and parses filename.
func (r *Registry) Load(ctx context.Context, filename string) (*cursor.TranslationUnit, error) {
	p, err := r.ProviderFor(filename)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return p.Parse(ctx, filename, src)
}
