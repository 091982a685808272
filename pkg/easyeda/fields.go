package easyeda

// Record tags of the shape micro-format.
const (
	// Symbol primitives
	TagPin       = "P"
	TagRectangle = "R"
	TagCircle    = "C"
	TagEllipse   = "E"
	TagArc       = "A"
	TagPolyline  = "PL"
	TagPolygon   = "PG"
	TagPath      = "PT"

	// Footprint primitives
	TagPad             = "PAD"
	TagTrack           = "TRACK"
	TagHole            = "HOLE"
	TagVia             = "VIA"
	TagFootprintCircle = "CIRCLE"
	TagFootprintArc    = "ARC"
	TagFootprintRect   = "RECT"
	TagText            = "TEXT"
	TagSolidRegion     = "SOLIDREGION"
	TagSVGNode         = "SVGNODE"
)

// Layout is the ordered list of field names of one record variant. The
// position of a name is the token index it reads from.
type Layout []string

// Field layouts, one per record kind (and per pin group).
var (
	pinSettingsLayout = Layout{"is_displayed", "type", "spice_pin_number", "pos_x", "pos_y", "rotation", "id", "is_locked"}
	pinDotLayout      = Layout{"dot_x", "dot_y"}
	pinPathLayout     = Layout{"path", "color"}
	pinNameLayout     = Layout{"is_displayed", "pos_x", "pos_y", "rotation", "text", "text_anchor", "font", "font_size"}
	pinDotBisLayout   = Layout{"is_displayed", "circle_x", "circle_y"}
	pinClockLayout    = Layout{"is_displayed", "path"}

	// rectangleLayout is the normalised plain-rectangle order; see
	// normalizeRectangle for the rounded variant.
	rectangleLayout = Layout{"pos_x", "pos_y", "width", "height", "stroke_color", "stroke_width", "stroke_style", "fill_color", "id", "is_locked"}
	circleLayout    = Layout{"center_x", "center_y", "radius", "stroke_color", "stroke_width", "stroke_style", "fill_color", "id", "is_locked"}
	ellipseLayout   = Layout{"center_x", "center_y", "radius_x", "radius_y", "stroke_color", "stroke_width", "stroke_style", "fill_color", "id", "is_locked"}
	arcLayout       = Layout{"path", "helper_dots", "stroke_color", "stroke_width", "stroke_style", "fill_color", "id", "is_locked"}
	polylineLayout  = Layout{"points", "stroke_color", "stroke_width", "stroke_style", "fill_color", "id", "is_locked"}
	pathLayout      = Layout{"paths", "stroke_color", "stroke_width", "stroke_style", "fill_color", "id", "is_locked"}

	padLayout             = Layout{"shape", "center_x", "center_y", "width", "height", "layer_id", "net", "number", "hole_radius", "points", "rotation", "id", "hole_length", "hole_point", "is_plated", "is_locked"}
	trackLayout           = Layout{"stroke_width", "layer_id", "net", "points", "id", "is_locked"}
	holeLayout            = Layout{"center_x", "center_y", "radius", "id", "is_locked"}
	viaLayout             = Layout{"center_x", "center_y", "diameter", "net", "radius", "id", "is_locked"}
	footprintCircleLayout = Layout{"cx", "cy", "radius", "stroke_width", "layer_id", "id", "is_locked"}
	footprintArcLayout    = Layout{"stroke_width", "layer_id", "net", "path", "helper_dots", "id", "is_locked"}
	footprintRectLayout   = Layout{"x", "y", "width", "height", "stroke_width", "id", "layer_id", "is_locked"}
	textLayout            = Layout{"type", "center_x", "center_y", "stroke_width", "rotation", "mirror", "layer_id", "net", "font_size", "text", "text_path", "is_displayed", "id", "is_locked"}

	rotationLayout = Layout{"x", "y", "z"}
)

// Fields maps field names to the raw token at their position.
type Fields struct {
	values map[string]string
}

// MapFields zips a layout against a token list by position. Extra trailing
// tokens are ignored; names past the end of the tokens stay absent.
func MapFields(layout Layout, tokens []string) Fields {
	f := Fields{values: make(map[string]string, len(layout))}
	for i, name := range layout {
		if i >= len(tokens) {
			break
		}
		f.values[name] = tokens[i]
	}
	return f
}

// Has reports whether the field was present in the token list, even if empty.
func (f Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Len returns the number of mapped fields.
func (f Fields) Len() int {
	return len(f.values)
}

// String returns the raw token, or "" when absent.
func (f Fields) String(name string) string {
	return f.values[name]
}

// Float returns the field coerced to float64 (0 when absent or malformed).
func (f Fields) Float(name string) float64 {
	return ToFloat(f.raw(name), 0)
}

// Int returns the field coerced to int (0 when absent or malformed).
func (f Fields) Int(name string) int {
	return ToInt(f.raw(name), 0)
}

// Bool returns the field coerced to bool (false when absent or malformed).
func (f Fields) Bool(name string) bool {
	return ToBool(f.raw(name), false)
}

// OptionalFloat returns nil when the field is absent, otherwise a pointer to
// the coerced value.
func (f Fields) OptionalFloat(name string) *float64 {
	v, ok := f.values[name]
	if !ok {
		return nil
	}
	fv := ToFloat(v, 0)
	return &fv
}

func (f Fields) raw(name string) any {
	v, ok := f.values[name]
	if !ok {
		return nil
	}
	return v
}
