package easyeda

import "strings"

// Delimiters of the shape micro-format.
//
//	TAG~field~field~...                       single-group record
//	TAG~field~...^^field~field^^field~...     multi-group record (pins)
const (
	GroupDelimiter = "^^"
	FieldDelimiter = "~"
)

// multiGroupTags lists the record kinds whose body is split into groups.
// Every other tag is single-group, so a "^^" inside free text (footprint
// TEXT records, the 3-D attribute blob) is never mistaken for a separator.
var multiGroupTags = map[string]bool{
	TagPin: true,
}

// Record is one tokenized shape line.
type Record struct {
	Tag    string
	Groups [][]string // Groups[0] holds the fields that follow the tag
}

// Fields returns the positional fields of the first group, tag excluded.
func (r Record) Fields() []string {
	if len(r.Groups) == 0 {
		return nil
	}
	return r.Groups[0]
}

// Group returns the token list of group i, or nil when the line has fewer
// groups. Group 0 is the tag's own group with the tag removed.
func (r Record) Group(i int) []string {
	if i < 0 || i >= len(r.Groups) {
		return nil
	}
	return r.Groups[i]
}

// Tokenize splits a raw shape line into its tag and token groups. Empty
// tokens are kept as empty strings: their position is significant.
func Tokenize(line string) Record {
	tag := TagOf(line)

	if !multiGroupTags[tag] {
		rec := Record{Tag: tag}
		if _, rest, found := strings.Cut(line, FieldDelimiter); found {
			rec.Groups = [][]string{strings.Split(rest, FieldDelimiter)}
		}
		return rec
	}

	segments := strings.Split(line, GroupDelimiter)
	rec := Record{Tag: tag, Groups: make([][]string, 0, len(segments))}
	for i, seg := range segments {
		tokens := strings.Split(seg, FieldDelimiter)
		if i == 0 {
			tokens = tokens[1:]
		}
		rec.Groups = append(rec.Groups, tokens)
	}
	return rec
}

// TagOf returns the leading token of a shape line without tokenizing the rest.
func TagOf(line string) string {
	tag, _, _ := strings.Cut(line, FieldDelimiter)
	if i := strings.Index(tag, GroupDelimiter); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
