// Package golang builds cursor trees from Go and Gno sources.
//
// Go has no classes or namespaces, so the mapping is loose: struct types
// become struct declarations, interfaces and other named types become
// class declarations, and methods are attached to their receiver type the
// way C++ member functions are nested in their class. Gno files share the
// Go syntax and are parsed the same way.
package golang

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/internal/backend"
	"github.com/gnoswap-labs/sas/internal/cursor"
)

// Provider parses Go and Gno files.
type Provider struct {
	logger *zap.Logger
}

var _ backend.Provider = (*Provider)(nil)

func New(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{logger: logger}
}

func (p *Provider) Name() string { return "go" }

func (p *Provider) Extensions() []string { return []string{".go", ".gno"} }

// Parse parses src. Go sources with syntax errors are always rejected;
// the errors are returned as a *backend.SyntaxError.
func (p *Provider) Parse(ctx context.Context, filename string, src []byte) (*cursor.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) {
			return nil, syntaxError(filename, list)
		}
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	unit := newTranslator(fset, filename, src).translate(f)
	p.logger.Debug("parsed go source",
		zap.String("file", filename),
		zap.Int("decls", len(f.Decls)))
	return unit, nil
}

func syntaxError(filename string, list scanner.ErrorList) *backend.SyntaxError {
	diags := make([]cursor.Diagnostic, 0, len(list))
	for _, e := range list {
		pos := cursor.Position{
			Filename: filename,
			Offset:   e.Pos.Offset,
			Line:     e.Pos.Line,
			Column:   e.Pos.Column,
		}
		diags = append(diags, cursor.Diagnostic{
			Extent:  cursor.Extent{Start: pos, End: pos},
			Message: e.Msg,
		})
	}
	return &backend.SyntaxError{Filename: filename, Diagnostics: diags}
}
