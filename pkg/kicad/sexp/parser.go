package sexp

import (
	"fmt"
	"io"
	"strings"
)

// Parser builds nodes from a token stream.
type Parser struct {
	lex *Lexer
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lex: NewLexer(r)}
}

// Next parses one complete expression. It returns io.EOF when the input is
// exhausted.
func (p *Parser) Next() (Sexp, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenEOF {
		return nil, io.EOF
	}
	return p.expr(tok)
}

func (p *Parser) expr(tok Token) (Sexp, error) {
	switch tok.Type {
	case TokenOpen:
		return p.list(tok.Line)
	case TokenAtom:
		return &Atom{Value: tok.Value}, nil
	case TokenString:
		return &Atom{Value: tok.Value, Quoted: true}, nil
	case TokenClose:
		return nil, fmt.Errorf("line %d: unexpected ')'", tok.Line)
	default:
		return nil, fmt.Errorf("line %d: unexpected %s", tok.Line, tok.Type)
	}
}

func (p *Parser) list(line int) (*List, error) {
	l := &List{Line: line}
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenClose:
			return l, nil
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unexpected EOF in list opened here", line)
		}
		item, err := p.expr(tok)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, item)
	}
}

// Parse reads every top-level expression from r.
func Parse(r io.Reader) ([]Sexp, error) {
	p := NewParser(r)
	var out []Sexp
	for {
		s, err := p.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// Walk streams the children of a single top-level list named root, calling fn
// for each child list without keeping earlier children in memory. Atoms that
// follow the root name are skipped. Large symbol libraries are read this way.
func Walk(r io.Reader, root string, fn func(*List) error) error {
	p := NewParser(r)

	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	if tok.Type != TokenOpen {
		return fmt.Errorf("line %d: expected '(' got %s", tok.Line, tok.Type)
	}
	open := tok.Line

	tok, err = p.lex.Next()
	if err != nil {
		return err
	}
	if tok.Type != TokenAtom || tok.Value != root {
		return fmt.Errorf("line %d: expected %q, got %q", tok.Line, root, tok.Value)
	}

	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Type {
		case TokenClose:
			return nil
		case TokenEOF:
			return fmt.Errorf("line %d: unexpected EOF in %s", open, root)
		case TokenOpen:
			child, err := p.list(tok.Line)
			if err != nil {
				return err
			}
			if err := fn(child); err != nil {
				return err
			}
		}
	}
}
