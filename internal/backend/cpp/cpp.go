// Package cpp builds cursor trees from C++ sources with tree-sitter.
package cpp

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	tscpp "github.com/smacker/go-tree-sitter/cpp"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/internal/backend"
	"github.com/gnoswap-labs/sas/internal/cursor"
)

// Provider parses C and C++ files.
type Provider struct {
	strict bool
	logger *zap.Logger
}

var _ backend.Provider = (*Provider)(nil)

// New creates a C++ provider. In strict mode, sources with syntax errors
// are rejected with a *backend.SyntaxError; otherwise the recovered tree is
// returned and the errors are logged and attached as diagnostics.
func New(logger *zap.Logger, strict bool) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{strict: strict, logger: logger}
}

func (p *Provider) Name() string { return "cpp" }

func (p *Provider) Extensions() []string {
	return []string{".c", ".h", ".cc", ".cpp", ".cxx", ".c++", ".hh", ".hpp", ".hxx", ".h++", ".ipp", ".tpp", ".inl"}
}

func (p *Provider) Parse(ctx context.Context, filename string, src []byte) (*cursor.TranslationUnit, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tscpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	t := newTranslator(filename, src)
	unit := t.translate(tree.RootNode())

	if len(unit.Diagnostics) > 0 {
		if p.strict {
			return nil, &backend.SyntaxError{Filename: filename, Diagnostics: unit.Diagnostics}
		}
		p.logger.Warn("source has syntax errors, continuing with recovered tree",
			zap.String("file", filename),
			zap.Int("errors", len(unit.Diagnostics)),
			zap.Stringer("first", unit.Diagnostics[0]))
	}
	return unit, nil
}
