package query

// Parser consumes tokens produced by the lexer and builds a pattern tree.
//
//	query       := declaration EOF
//	declaration := (DATA "::")* (function | variable)
//	function    := DATA? ":" DATA? params
//	params      := "(" ")" | "(" list ")"
//	list        := "..." | variable ("," list)?
//	variable    := DATA ":" DATA | ":" DATA | DATA ":" | DATA
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a new Parser instance. tokens must end with TokenEOF.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		end := 0
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Position
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: TokenEOF, Position: end})
	}
	return &Parser{tokens: tokens}
}

// Compile lexes and parses text into a pattern. Qualifiers default to
// searching the whole tree.
func Compile(text string) (Pattern, error) {
	return NewParser(Lex(text)).Parse()
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse processes all tokens. No partial tree is returned on error.
func (p *Parser) Parse() (Pattern, error) {
	var chain []string
	for p.peek().Type == TokenData && p.peekAt(1).Type == TokenDoubleColon {
		chain = append(chain, p.next().Value)
		p.next()
	}

	name, typ, isFunction, err := p.parseHead()
	if err != nil {
		return nil, err
	}

	quals := make([]*Regex, 0, len(chain))
	for _, q := range chain {
		r, err := CompileRegex(q)
		if err != nil {
			return nil, err
		}
		quals = append(quals, r)
	}
	scope := WithQualifiers(Chain(quals...))

	var pat Pattern
	if isFunction {
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		if pat, err = NewFunction(valueOf(name), valueOf(typ), params, scope); err != nil {
			return nil, err
		}
	} else {
		if pat, err = NewVariable(valueOf(name), valueOf(typ), scope); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}
	return pat, nil
}

// parseHead reads the "name : type" prefix shared by variables and
// functions and reports whether a parameter list follows.
func (p *Parser) parseHead() (name, typ *Token, isFunction bool, err error) {
	if p.peek().Type == TokenData {
		t := p.next()
		name = &t
	}
	if p.peek().Type != TokenColon {
		if name == nil {
			return nil, nil, false, p.errorf(TokenData, TokenColon)
		}
		return name, nil, false, nil
	}
	p.next()
	if p.peek().Type == TokenData {
		t := p.next()
		typ = &t
	}
	switch {
	case p.peek().Type == TokenLParen:
		return name, typ, true, nil
	case name == nil && typ == nil:
		return nil, nil, false, p.errorf(TokenData, TokenLParen)
	}
	return name, typ, false, nil
}

func (p *Parser) parseParams() ([]Param, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	params := make([]Param, 0)
	if p.peek().Type == TokenRParen {
		p.next()
		return params, nil
	}
	for {
		if p.peek().Type == TokenEllipsis {
			p.next()
			params = append(params, Ellipsis{})
			if _, err := p.expect(TokenRParen); err != nil {
				return nil, err
			}
			return params, nil
		}

		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		params = append(params, v)

		switch p.peek().Type {
		case TokenComma:
			p.next()
		case TokenRParen:
			p.next()
			return params, nil
		default:
			return nil, p.errorf(TokenComma, TokenRParen)
		}
	}
}

func (p *Parser) parseVariable() (*Variable, error) {
	var name, typ *Token
	if p.peek().Type == TokenData {
		t := p.next()
		name = &t
	}
	if p.peek().Type == TokenColon {
		p.next()
		if p.peek().Type == TokenData {
			t := p.next()
			typ = &t
		} else if name == nil {
			return nil, p.errorf(TokenData)
		}
	} else if name == nil {
		return nil, p.errorf(TokenData, TokenColon, TokenEllipsis)
	}
	return NewVariable(valueOf(name), valueOf(typ))
}

// valueOf returns the regex text of an optional DATA token.
func valueOf(t *Token) string {
	if t == nil {
		return Wildcard
	}
	return t.Value
}

func (p *Parser) peek() Token { return p.peekAt(0) }

func (p *Parser) peekAt(n int) Token {
	if i := p.current + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) next() Token {
	t := p.peek()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return t
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	if p.peek().Type != typ {
		return Token{}, p.errorf(typ)
	}
	return p.next(), nil
}

func (p *Parser) errorf(expected ...TokenType) *SyntaxError {
	t := p.peek()
	return &SyntaxError{Offset: t.Position, Found: t, Expected: expected}
}
