package kicadsexp

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Value  string
	Offset int // byte offset of the token in the input
	Line   int
}

// SexpLexer defines the lexical structure of KiCad S-expression files.
// KiCad strings use backslash escapes; everything that is not a paren,
// a quote or whitespace is part of a bare atom.
var SexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var tokenTypes = func() map[lexer.TokenType]TokenType {
	symbols := SexpLexer.Symbols()
	return map[lexer.TokenType]TokenType{
		symbols["String"]: TokenString,
		symbols["LParen"]: TokenLeftParen,
		symbols["RParen"]: TokenRightParen,
		symbols["Atom"]:   TokenSymbol,
	}
}()

var whitespaceType = SexpLexer.Symbols()["Whitespace"]

// Lexer tokenizes S-expressions from an io.Reader
type Lexer struct {
	lex lexer.Lexer
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) (*Lexer, error) {
	lex, err := SexpLexer.Lex("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to start lexer: %w", err)
	}
	return &Lexer{lex: lex}, nil
}

// NextToken reads the next token from the input, skipping whitespace.
func (l *Lexer) NextToken() (Token, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return Token{}, err
		}
		if tok.EOF() {
			return Token{Type: TokenEOF, Offset: tok.Pos.Offset, Line: tok.Pos.Line}, nil
		}
		if tok.Type == whitespaceType {
			continue
		}

		typ, ok := tokenTypes[tok.Type]
		if !ok {
			return Token{}, fmt.Errorf("line %d: unexpected token %q", tok.Pos.Line, tok.Value)
		}

		value := tok.Value
		if typ == TokenString {
			value = unquote(value)
		}

		return Token{Type: typ, Value: value, Offset: tok.Pos.Offset, Line: tok.Pos.Line}, nil
	}
}

// unquote strips the surrounding quotes of a lexed string and resolves
// escape sequences. Unknown escapes keep the escaped character.
func unquote(s string) string {
	s = s[1 : len(s)-1]
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, ch := range s {
		if !escaped {
			if ch == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(ch)
			continue
		}
		escaped = false
		switch ch {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
