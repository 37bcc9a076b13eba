package query

import (
	"fmt"
	"strings"
)

// Format serializes a pattern back to query text, such that compiling the
// result yields an equivalent pattern. It returns ErrNotExpressible for
// patterns that the text grammar cannot describe.
func Format(p Pattern) (string, error) {
	b := p.base()
	if len(b.contents) > 0 {
		return "", fmt.Errorf("%w: nested contents", ErrNotExpressible)
	}
	if b.qualifiers.IsTopLevel() {
		return "", fmt.Errorf("%w: top-level scope", ErrNotExpressible)
	}

	var sb strings.Builder
	for _, q := range b.qualifiers.chain {
		s, err := escape(q.String())
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		sb.WriteString("::")
	}

	switch n := p.(type) {
	case *Function:
		if err := formatFunction(&sb, n); err != nil {
			return "", err
		}
	case *Variable:
		s, err := formatVariable(n)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	case *Class:
		return "", fmt.Errorf("%w: class pattern", ErrNotExpressible)
	case *Search:
		return "", fmt.Errorf("%w: search pattern", ErrNotExpressible)
	default:
		return "", fmt.Errorf("%w: unknown pattern %T", ErrNotExpressible, p)
	}
	return sb.String(), nil
}

func formatFunction(sb *strings.Builder, f *Function) error {
	if err := writeSlot(sb, f.Name); err != nil {
		return err
	}
	sb.WriteByte(':')
	if err := writeSlot(sb, f.ReturnType); err != nil {
		return err
	}
	sb.WriteByte('(')
	for i, param := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch param := param.(type) {
		case Ellipsis:
			if i != len(f.Params)-1 {
				return fmt.Errorf("%w: ellipsis before the last parameter", ErrNotExpressible)
			}
			sb.WriteString("...")
		case *Variable:
			s, err := formatVariable(param)
			if err != nil {
				return err
			}
			sb.WriteString(s)
		}
	}
	sb.WriteByte(')')
	return nil
}

func formatVariable(v *Variable) (string, error) {
	var sb strings.Builder
	switch {
	case v.Type.IsWildcard():
		// "name" alone; a wildcard name still needs to be spelled out.
		s, err := escape(v.Name.String())
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	default:
		if err := writeSlot(&sb, v.Name); err != nil {
			return "", err
		}
		sb.WriteByte(':')
		if err := writeSlot(&sb, v.Type); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// writeSlot writes r, leaving wildcards implicit.
func writeSlot(sb *strings.Builder, r *Regex) error {
	if r.IsWildcard() {
		return nil
	}
	s, err := escape(r.String())
	if err != nil {
		return err
	}
	sb.WriteString(s)
	return nil
}

// escape returns expr in a form the lexer reads back as a single DATA
// token with the same value.
func escape(expr string) (string, error) {
	if !needsEscape(expr) {
		return expr, nil
	}
	if expr == "" || strings.ContainsAny(expr, "/\n") {
		return "", fmt.Errorf("%w: regex %q cannot be escaped", ErrNotExpressible, expr)
	}
	return "/" + expr + "/", nil
}

func needsEscape(expr string) bool {
	if expr == "" {
		return true
	}
	if isWhitespace(expr[0]) || isWhitespace(expr[len(expr)-1]) {
		return true
	}
	if strings.HasPrefix(expr, "...") || strings.HasPrefix(expr, "/") || strings.HasSuffix(expr, "/") {
		return true
	}
	for i := 0; i < len(expr); i++ {
		if isDelimiter(expr[i]) {
			return true
		}
	}
	return false
}
