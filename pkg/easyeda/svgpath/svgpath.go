// Package svgpath parses the SVG path strings and point lists embedded in
// EasyEDA shape records.
package svgpath

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
)

var (
	pathParser = participle.MustBuild[pathData](
		participle.Lexer(PathLexer),
		participle.Elide("Whitespace"),
	)
	pointParser = participle.MustBuild[pointList](
		participle.Lexer(PathLexer),
		participle.Elide("Whitespace"),
	)
)

// arity is the number of arguments one instance of a command consumes.
var arity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

// Point is a 2-D coordinate in source units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one path command with exactly its own arguments. Command is
// upper case; Relative records whether the source used the lower-case form.
type Segment struct {
	Command  byte
	Relative bool
	Args     []float64
}

// End returns the point the segment moves to, given the current point.
// Z is resolved by the caller since it depends on the subpath start.
func (s Segment) End(cur Point) Point {
	var p Point
	switch s.Command {
	case 'H':
		p = Point{X: s.Args[0], Y: cur.Y}
		if s.Relative {
			p.X += cur.X
		}
		return p
	case 'V':
		p = Point{X: cur.X, Y: s.Args[0]}
		if s.Relative {
			p.Y += cur.Y
		}
		return p
	case 'Z':
		return cur
	}

	n := len(s.Args)
	p = Point{X: s.Args[n-2], Y: s.Args[n-1]}
	if s.Relative {
		p.X += cur.X
		p.Y += cur.Y
	}
	return p
}

// Path is a parsed path in command order.
type Path []Segment

// Parse parses SVG path data. Repeated argument groups are split into one
// segment each; extra coordinate pairs after a move become line segments.
func Parse(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ast, err := pathParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	var path Path
	for _, cmd := range ast.Commands {
		letter := cmd.Name[0]
		relative := unicode.IsLower(rune(letter))
		upper := byte(unicode.ToUpper(rune(letter)))
		n := arity[upper]

		if n == 0 {
			if len(cmd.Args) != 0 {
				return nil, fmt.Errorf("command %c takes no arguments, got %d", letter, len(cmd.Args))
			}
			path = append(path, Segment{Command: upper, Relative: relative})
			continue
		}
		if len(cmd.Args) == 0 || len(cmd.Args)%n != 0 {
			return nil, fmt.Errorf("command %c needs a multiple of %d arguments, got %d", letter, n, len(cmd.Args))
		}

		for i := 0; i < len(cmd.Args); i += n {
			seg := Segment{Command: upper, Relative: relative, Args: cmd.Args[i : i+n]}
			if upper == 'M' && i > 0 {
				seg.Command = 'L'
			}
			path = append(path, seg)
		}
	}
	return path, nil
}

// Vertices returns the absolute end point of every segment, closing back to
// the subpath start on Z.
func (p Path) Vertices() []Point {
	var (
		pts   []Point
		cur   Point
		start Point
	)
	for _, seg := range p {
		if seg.Command == 'Z' {
			cur = start
		} else {
			cur = seg.End(cur)
		}
		if seg.Command == 'M' {
			start = cur
		}
		pts = append(pts, cur)
	}
	return pts
}

// ParsePoints parses a "x1 y1 x2 y2 ..." list. Commas may separate values.
func ParsePoints(s string) ([]Point, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ast, err := pointParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if len(ast.Values)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates: %d", len(ast.Values))
	}

	pts := make([]Point, 0, len(ast.Values)/2)
	for i := 0; i < len(ast.Values); i += 2 {
		pts = append(pts, Point{X: ast.Values[i], Y: ast.Values[i+1]})
	}
	return pts, nil
}
