package matcher

import (
	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/query"
)

var (
	functionDecls = []cursor.Kind{
		cursor.KindFunctionDecl,
		cursor.KindCXXMethod,
		cursor.KindConstructor,
		cursor.KindDestructor,
		cursor.KindFunctionTemplate,
	}
	functionExprs = []cursor.Kind{cursor.KindCallExpr}

	variableDecls = []cursor.Kind{cursor.KindVarDecl}
	variableExprs = []cursor.Kind{cursor.KindDeclRefExpr, cursor.KindMemberRefExpr}

	classDecls = []cursor.Kind{
		cursor.KindClassDecl,
		cursor.KindStructDecl,
		cursor.KindClassTemplate,
		cursor.KindClassTemplatePartialSpecialization,
	}

	// scopeKinds may be named by a qualifier.
	scopeKinds = kindSetOf(
		cursor.KindClassDecl,
		cursor.KindStructDecl,
		cursor.KindNamespace,
	)
)

// kindSet is indexed by cursor.Kind.
type kindSet map[cursor.Kind]struct{}

func newKindSet(kinds ...[]cursor.Kind) kindSet {
	s := make(kindSet)
	for _, group := range kinds {
		for _, k := range group {
			s[k] = struct{}{}
		}
	}
	return s
}

func kindSetOf(kinds ...cursor.Kind) kindSet { return newKindSet(kinds) }

func (s kindSet) has(k cursor.Kind) bool {
	_, ok := s[k]
	return ok
}

// eligible returns the kinds p may match under mode. A nil set means any
// kind; searches match any kind as long as some flag is set.
func eligible(p query.Pattern, mode Mode) kindSet {
	var groups [][]cursor.Kind
	switch p.(type) {
	case *query.Function:
		if mode.Has(Declaration) {
			groups = append(groups, functionDecls)
		}
		if mode.Has(Expression) {
			groups = append(groups, functionExprs)
		}
	case *query.Variable:
		if mode.Has(Declaration) {
			groups = append(groups, variableDecls)
		}
		if mode.Has(Expression) {
			groups = append(groups, variableExprs)
		}
	case *query.Class:
		if mode.Has(Declaration) {
			groups = append(groups, classDecls)
		}
	case *query.Search:
		if mode&All == None {
			return kindSet{}
		}
		return nil
	}
	return newKindSet(groups...)
}
