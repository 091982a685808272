package sexp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenOpen
	TokenClose
	TokenAtom
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenOpen:
		return "'('"
	case TokenClose:
		return "')'"
	case TokenAtom:
		return "atom"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is one lexical token and the line it started on.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer reads tokens from KiCad's S-expression dialect: parentheses, bare
// atoms and double-quoted strings with backslash escapes.
type Lexer struct {
	r    *bufio.Reader
	line int
}

// NewLexer creates a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1}
}

// Next returns the next token, or a TokenEOF token at end of input.
func (l *Lexer) Next() (Token, error) {
	ch, err := l.skipSpace()
	if err == io.EOF {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return Token{}, err
	}

	line := l.line
	switch ch {
	case '(':
		return Token{Type: TokenOpen, Value: "(", Line: line}, nil
	case ')':
		return Token{Type: TokenClose, Value: ")", Line: line}, nil
	case '"':
		s, err := l.quoted()
		if err != nil {
			return Token{}, fmt.Errorf("line %d: %w", line, err)
		}
		return Token{Type: TokenString, Value: s, Line: line}, nil
	default:
		if err := l.r.UnreadRune(); err != nil {
			return Token{}, err
		}
		return Token{Type: TokenAtom, Value: l.atom(), Line: line}, nil
	}
}

func (l *Lexer) skipSpace() (rune, error) {
	for {
		ch, _, err := l.r.ReadRune()
		if err != nil {
			return 0, err
		}
		if ch == '\n' {
			l.line++
		}
		if !unicode.IsSpace(ch) {
			return ch, nil
		}
	}
}

func (l *Lexer) quoted() (string, error) {
	var sb strings.Builder
	for {
		ch, _, err := l.r.ReadRune()
		if err == io.EOF {
			return "", fmt.Errorf("unterminated string")
		}
		if err != nil {
			return "", err
		}

		switch ch {
		case '"':
			return sb.String(), nil
		case '\n':
			l.line++
		case '\\':
			next, _, err := l.r.ReadRune()
			if err != nil {
				return "", fmt.Errorf("unterminated escape")
			}
			switch next {
			case 'n':
				ch = '\n'
			case 't':
				ch = '\t'
			case 'r':
				ch = '\r'
			default:
				ch = next
			}
		}
		sb.WriteRune(ch)
	}
}

func (l *Lexer) atom() string {
	var sb strings.Builder
	for {
		ch, _, err := l.r.ReadRune()
		if err != nil {
			break
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			l.r.UnreadRune()
			break
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}
