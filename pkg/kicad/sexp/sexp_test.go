package sexp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to parse a single s-expression list from string
func parseList(t *testing.T, input string) *List {
	t.Helper()
	nodes, err := ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse s-expression %q: %v", input, err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 expression from %q, got %d", input, len(nodes))
	}
	l, ok := nodes[0].(*List)
	if !ok {
		t.Fatalf("Expected list from %q, got %T", input, nodes[0])
	}
	return l
}

func TestLexerTokens(t *testing.T) {
	lex := NewLexer(strings.NewReader("(at 1.5\n  \"a \\\"b\\\"\")"))

	var got []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		got = append(got, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	want := []Token{
		{Type: TokenOpen, Value: "(", Line: 1},
		{Type: TokenAtom, Value: "at", Line: 1},
		{Type: TokenAtom, Value: "1.5", Line: 1},
		{Type: TokenString, Value: `a "b"`, Line: 2},
		{Type: TokenClose, Value: ")", Line: 2},
		{Type: TokenEOF, Line: 2},
	}
	assert.Equal(t, want, got)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `("abc`},
		{"unterminated escape", `("abc\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(strings.NewReader(tt.input))
			var err error
			for i := 0; i < 5 && err == nil; i++ {
				_, err = lex.Next()
			}
			assert.Error(t, err)
		})
	}
}

func TestParseNested(t *testing.T) {
	l := parseList(t, `(symbol "Device:R" (pin_names (offset 0)) (property "Reference" "R"))`)

	assert.Equal(t, "symbol", l.Name())
	assert.Equal(t, 4, l.Len())

	name, err := l.StringAt(1)
	require.NoError(t, err)
	assert.Equal(t, "Device:R", name)

	pins, ok := l.Find("pin_names")
	require.True(t, ok)
	offset, ok := pins.Find("offset")
	require.True(t, ok)
	v, err := offset.FloatAt(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, ok = l.Find("missing")
	assert.False(t, ok)
}

func TestStringAt(t *testing.T) {
	l := parseList(t, "(layer F.Cu (x))")

	tests := []struct {
		name    string
		index   int
		want    string
		wantErr bool
	}{
		{name: "name", index: 0, want: "layer"},
		{name: "value", index: 1, want: "F.Cu"},
		{name: "list item", index: 2, wantErr: true},
		{name: "out of bounds", index: 3, wantErr: true},
		{name: "negative", index: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.StringAt(tt.index)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFloatAtInvalid(t *testing.T) {
	l := parseList(t, "(at abc)")
	_, err := l.FloatAt(1)
	assert.Error(t, err)
}

func TestFindAllAndProperty(t *testing.T) {
	l := parseList(t, `(symbol "X"
		(property "Reference" "U")
		(property "LCSC Part" "C2040")
		(property "Broken"))`)

	assert.Len(t, l.FindAll("property"), 3)

	v, ok := l.Property("LCSC Part")
	assert.True(t, ok)
	assert.Equal(t, "C2040", v)

	_, ok = l.Property("Broken")
	assert.False(t, ok)
	_, ok = l.Property("Value")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	l := parseList(t, `(property "Reference" U (at 0 0))`)
	assert.Equal(t, `(property "Reference" U (at 0 0))`, l.String())
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"(a (b)", ")", "(a))"} {
		_, err := ParseString(input)
		assert.Error(t, err, input)
	}
}

func TestParseMultipleTopLevel(t *testing.T) {
	nodes, err := ParseString("(a) b (c d)")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "b", nodes[1].String())
}

func TestWalk(t *testing.T) {
	input := `(kicad_symbol_lib
		(version 20231120)
		(generator "ee2kicad")
		(symbol "A" (property "Value" "A"))
		(symbol "B"))`

	var names []string
	err := Walk(strings.NewReader(input), "kicad_symbol_lib", func(l *List) error {
		if l.Name() != "symbol" {
			return nil
		}
		name, err := l.StringAt(1)
		if err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestWalkErrors(t *testing.T) {
	noop := func(*List) error { return nil }

	err := Walk(strings.NewReader("(footprint x)"), "kicad_symbol_lib", noop)
	assert.Error(t, err)

	err = Walk(strings.NewReader("atom"), "kicad_symbol_lib", noop)
	assert.Error(t, err)

	err = Walk(strings.NewReader("(kicad_symbol_lib (symbol \"A\")"), "kicad_symbol_lib", noop)
	assert.Error(t, err)

	stop := errors.New("stop")
	err = Walk(strings.NewReader("(kicad_symbol_lib (symbol \"A\"))"), "kicad_symbol_lib", func(*List) error { return stop })
	assert.ErrorIs(t, err, stop)
}
