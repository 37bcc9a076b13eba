package matcher

import (
	"fmt"
	"strings"
)

// Mode selects which families of nodes patterns may match.
type Mode uint8

const (
	// Declaration enables function, variable and class declarations.
	Declaration Mode = 1 << iota
	// Expression enables calls and name or member references.
	Expression

	// None matches nothing. It is valid but almost certainly a mistake.
	None Mode = 0
	// All enables both families.
	All = Declaration | Expression
)

// Has reports whether every flag in f is enabled in m.
func (m Mode) Has(f Mode) bool { return m&f == f && f != 0 }

func (m Mode) String() string {
	if m == None {
		return "none"
	}
	var parts []string
	if m.Has(Declaration) {
		parts = append(parts, "declaration")
	}
	if m.Has(Expression) {
		parts = append(parts, "expression")
	}
	if rest := m &^ All; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint8(rest)))
	}
	return strings.Join(parts, ",")
}

// ParseMode parses flag names such as "declaration" and "expression".
// Names are case-insensitive and may be comma separated.
func ParseMode(names ...string) (Mode, error) {
	var m Mode
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			switch strings.ToLower(strings.TrimSpace(part)) {
			case "":
			case "declaration", "decl":
				m |= Declaration
			case "expression", "expr":
				m |= Expression
			case "all":
				m |= All
			default:
				return None, fmt.Errorf("unknown match mode %q", part)
			}
		}
	}
	return m, nil
}
