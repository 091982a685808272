package svgpath

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// PathLexer tokenizes SVG path data and point lists.
// Commas are separators, like whitespace, so both are elided.
var PathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},
	{Name: "Command", Pattern: `[MmLlHhVvAaCcSsQqTtZz]`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
})
