package query

import "strings"

// punctuation lists the single and multi character tokens in the order the
// lexer tries them. "::" must come before ":".
var punctuation = []struct {
	text string
	typ  TokenType
}{
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLCurly},
	{"}", TokenRCurly},
	{"<", TokenLAngle},
	{">", TokenRAngle},
	{"[", TokenLSquare},
	{"]", TokenRSquare},
	{"::", TokenDoubleColon},
	{":", TokenColon},
	{"#", TokenPound},
	{",", TokenComma},
	{"...", TokenEllipsis},
}

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
	}
}

// Lex is a shorthand for NewLexer(input).Tokenize().
func Lex(input string) []Token {
	return NewLexer(input).Tokenize()
}

// Tokenize processes the entire input and produces the list of tokens,
// terminated by a TokenEOF. Every character of the input belongs to some
// rule, so tokenizing never fails; malformed queries are reported by the
// parser.
func (l *Lexer) Tokenize() []Token {
	for {
		l.skipWhitespace()
		if l.position >= len(l.input) {
			break
		}
		start := l.position

		if l.lexEscaped() {
			continue
		}
		if typ, width, ok := l.matchPunctuation(); ok {
			l.addToken(typ, l.input[start:start+width], start)
			l.position += width
			continue
		}
		l.lexText()
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) && isWhitespace(l.input[l.position]) {
		l.position++
	}
}

// lexEscaped scans /.../ data. The body must be non-empty, must not span a
// newline and ends at the first following slash.
func (l *Lexer) lexEscaped() bool {
	start := l.position
	if l.input[start] != '/' {
		return false
	}
	for i := start + 2; i < len(l.input); i++ {
		if l.input[i-1] == '\n' {
			return false
		}
		if l.input[i] == '/' {
			l.addToken(TokenData, strings.Trim(l.input[start:i+1], "/"), start)
			l.position = i + 1
			return true
		}
	}
	return false
}

func (l *Lexer) matchPunctuation() (TokenType, int, bool) {
	rest := l.input[l.position:]
	for _, p := range punctuation {
		if strings.HasPrefix(rest, p.text) {
			return p.typ, len(p.text), true
		}
	}
	return 0, 0, false
}

// lexText scans a run of characters that are not punctuation. Whitespace
// inside the run is kept ("unsigned int") but the surrounding whitespace is
// dropped.
func (l *Lexer) lexText() {
	start := l.position
	for l.position < len(l.input) && !isDelimiter(l.input[l.position]) {
		l.position++
	}
	value := strings.TrimRightFunc(l.input[start:l.position], func(r rune) bool {
		return r < 0x80 && isWhitespace(byte(r))
	})
	l.addToken(TokenData, strings.Trim(value, "/"), start)
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("():,{}#<>[]", c) >= 0
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
