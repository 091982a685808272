// Package sexp reads the S-expression files KiCad uses for symbol libraries
// and footprints.
package sexp

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp is either an *Atom or a *List.
type Sexp interface {
	String() string
}

// Atom is a bare token or a quoted string. Quoted records which one it was.
type Atom struct {
	Value  string
	Quoted bool
}

func (a *Atom) String() string {
	if a.Quoted {
		return strconv.Quote(a.Value)
	}
	return a.Value
}

// List is a parenthesised sequence. Line is where it opened.
type List struct {
	Items []Sexp
	Line  int
}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Name returns the leading atom of the list, e.g. "symbol" for
// (symbol "R" ...), or "" when the list does not start with an atom.
func (l *List) Name() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(*Atom); ok {
		return a.Value
	}
	return ""
}

// Len returns the number of items, the name included.
func (l *List) Len() int {
	return len(l.Items)
}

// Find returns the first child list named key.
func (l *List) Find(key string) (*List, bool) {
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && child.Name() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns every child list named key, in order.
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && child.Name() == key {
			out = append(out, child)
		}
	}
	return out
}

// StringAt returns the atom at index. Index 0 is the name.
func (l *List) StringAt(index int) (string, error) {
	if index < 0 || index >= len(l.Items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(l.Items))
	}
	a, ok := l.Items[index].(*Atom)
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return a.Value, nil
}

// FloatAt parses the atom at index as a float64.
func (l *List) FloatAt(index int) (float64, error) {
	s, err := l.StringAt(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", s, err)
	}
	return v, nil
}

// Property returns the value of a (property "key" "value" ...) child.
func (l *List) Property(key string) (string, bool) {
	for _, p := range l.FindAll("property") {
		k, err := p.StringAt(1)
		if err != nil || k != key {
			continue
		}
		v, err := p.StringAt(2)
		if err != nil {
			return "", false
		}
		return v, true
	}
	return "", false
}
