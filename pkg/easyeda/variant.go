package easyeda

// RectangleLayout identifies which of the two rectangle encodings a line uses.
//
// The vendor emits both under the same "R" tag, sometimes in one document:
//
//	plain:   R~x~y~~~width~height~stroke_color~...
//	rounded: R~x~y~rx~ry~width~height~stroke_color~...
//
// A third layout, if one exists, is classified as RectangleUnknown and read in
// raw order. That is a known limitation of the heuristic.
type RectangleLayout int

const (
	RectangleUnknown RectangleLayout = iota
	RectanglePlain
	RectangleRounded
)

func (l RectangleLayout) String() string {
	switch l {
	case RectanglePlain:
		return "plain"
	case RectangleRounded:
		return "rounded"
	default:
		return "unknown"
	}
}

// ClassifyRectangle decides the layout from the token count and the
// emptiness of the two corner-radius slots. tokens excludes the tag.
func ClassifyRectangle(tokens []string) RectangleLayout {
	switch {
	case len(tokens) >= 6 && tokens[2] == "" && tokens[3] == "":
		return RectanglePlain
	case len(tokens) >= 8:
		return RectangleRounded
	default:
		return RectangleUnknown
	}
}

// normalizeRectangle returns the tokens in rectangleLayout order and, for the
// rounded layout, the two radius tokens.
func normalizeRectangle(tokens []string) (normalized []string, radius []string, layout RectangleLayout) {
	layout = ClassifyRectangle(tokens)
	switch layout {
	case RectanglePlain, RectangleRounded:
		normalized = make([]string, 0, len(tokens)-2)
		normalized = append(normalized, tokens[0], tokens[1])
		normalized = append(normalized, tokens[4:]...)
		if layout == RectangleRounded {
			radius = []string{tokens[2], tokens[3]}
		}
		return normalized, radius, layout
	default:
		return tokens, nil, layout
	}
}
