package query

import "fmt"

// TokenType defines the kinds of tokens produced by the lexer.
type TokenType int

const (
	TokenData        TokenType = iota // regex text, optionally /escaped/
	TokenLParen                       // '('
	TokenRParen                       // ')'
	TokenLCurly                       // '{'
	TokenRCurly                       // '}'
	TokenLAngle                       // '<'
	TokenRAngle                       // '>'
	TokenLSquare                      // '['
	TokenRSquare                      // ']'
	TokenDoubleColon                  // '::'
	TokenColon                        // ':'
	TokenPound                        // '#'
	TokenComma                        // ','
	TokenEllipsis                     // '...'
	TokenEOF                          // end of input
)

var tokenNames = [...]string{
	TokenData:        "DATA",
	TokenLParen:      "L_PAREN",
	TokenRParen:      "R_PAREN",
	TokenLCurly:      "L_CURLY",
	TokenRCurly:      "R_CURLY",
	TokenLAngle:      "L_ANGLE",
	TokenRAngle:      "R_ANGLE",
	TokenLSquare:     "L_SQUARE",
	TokenRSquare:     "R_SQUARE",
	TokenDoubleColon: "DOUBLE_COLON",
	TokenColon:       "COLON",
	TokenPound:       "POUND",
	TokenComma:       "COMMA",
	TokenEllipsis:    "ELLIPSIS",
	TokenEOF:         "EOF",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType // type of this token
	Value    string    // literal text; for DATA the unescaped regex
	Position int       // byte offset in the original input
}

func (t Token) String() string {
	if t.Type == TokenData {
		return fmt.Sprintf("DATA(%q)", t.Value)
	}
	return t.Type.String()
}
