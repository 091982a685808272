// Package easyeda decodes EasyEDA component descriptions into a typed symbol
// and footprint model.
//
// A component arrives as JSON whose "shape" arrays hold one delimited string
// per graphical primitive. Each line is tokenized, its tokens are mapped to
// named fields by a per-kind layout, every field is coerced to its declared
// type, and the resulting primitive is appended to the owning aggregate in
// input order. Nothing in a shape list is fatal: malformed values fall back to
// defaults and unknown record kinds are skipped, each leaving a Diagnostic.
//
// All lengths are in EasyEDA source units (10 mil); conversion to millimetres
// is left to the exporters.
package easyeda

import (
	"math"

	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda/svgpath"
)

// BBox is an origin plus a size. Width and Height are zero when only the
// header origin is known.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style is the stroke/fill/identity tail shared by symbol primitives.
type Style struct {
	StrokeColor string  `json:"stroke_color"`
	StrokeWidth float64 `json:"stroke_width"`
	StrokeStyle string  `json:"stroke_style"`
	FillColor   string  `json:"fill_color"`
	ID          string  `json:"id"`
	Locked      bool    `json:"locked"`
}

func styleFrom(f Fields) Style {
	return Style{
		StrokeColor: f.String("stroke_color"),
		StrokeWidth: f.Float("stroke_width"),
		StrokeStyle: f.String("stroke_style"),
		FillColor:   f.String("fill_color"),
		ID:          f.String("id"),
		Locked:      f.Bool("is_locked"),
	}
}

// SymbolInfo identifies the component.
type SymbolInfo struct {
	Name         string `json:"name"`
	Prefix       string `json:"prefix"` // designator prefix, e.g. "U"
	Package      string `json:"package"`
	Manufacturer string `json:"manufacturer"`
	Datasheet    string `json:"datasheet"`
	LCSCID       string `json:"lcsc_id"`
	JLCID        string `json:"jlc_id"` // JLCPCB part class
}

// PinType is the electrical type of a pin.
type PinType int

const (
	PinUnspecified PinType = iota
	PinInput
	PinOutput
	PinBidirectional
	PinPower
)

func (t PinType) String() string {
	switch t {
	case PinInput:
		return "input"
	case PinOutput:
		return "output"
	case PinBidirectional:
		return "bidirectional"
	case PinPower:
		return "power"
	default:
		return "unspecified"
	}
}

func pinTypeOf(v int) PinType {
	if v < int(PinUnspecified) || v > int(PinPower) {
		return PinUnspecified
	}
	return PinType(v)
}

// PinSettings is the first pin group.
type PinSettings struct {
	Displayed bool    `json:"displayed"`
	Type      PinType `json:"type"`
	// SpicePinNumber is the simulation-oriented identifier, not necessarily
	// the designator printed on the part. See Pin.Number.
	SpicePinNumber string  `json:"spice_pin_number"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       int     `json:"rotation"`
	ID             string  `json:"id"`
	Locked         bool    `json:"locked"`
}

// PinDot is the connection point.
type PinDot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PinPath is the lead drawn from the body to the connection point.
type PinPath struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

// PinName is the pin's name label.
type PinName struct {
	Displayed bool    `json:"displayed"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  int     `json:"rotation"`
	Text      string  `json:"text"`
	Anchor    string  `json:"anchor"`
	Font      string  `json:"font"`
	FontSize  float64 `json:"font_size"`
}

// PinDotBis is the inversion bubble.
type PinDotBis struct {
	Displayed bool    `json:"displayed"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// PinClock is the clock glyph.
type PinClock struct {
	Displayed bool   `json:"displayed"`
	Path      string `json:"path"`
}

// Pin is a symbol pin assembled from the groups of one "P" line.
type Pin struct {
	Settings PinSettings `json:"settings"`
	Dot      PinDot      `json:"dot"`
	Path     PinPath     `json:"path"`
	Name     PinName     `json:"name"`
	DotBis   PinDotBis   `json:"dot_bis"`
	Clock    PinClock    `json:"clock"`

	// NumberOverride is the designator read from the pin-number label group.
	// Empty when the line did not carry one.
	NumberOverride string `json:"number_override,omitempty"`
}

// Number returns the designator shown on the schematic: the override when
// present, otherwise the settings identifier.
func (p Pin) Number() string {
	if p.NumberOverride != "" {
		return p.NumberOverride
	}
	return p.Settings.SpicePinNumber
}

// Length returns the drawn length of the pin lead, or 0 when the lead path
// cannot be parsed.
func (p Pin) Length() float64 {
	path, err := svgpath.Parse(p.Path.Path)
	if err != nil {
		return 0
	}
	pts := path.Vertices()
	length := 0.0
	for i := 1; i < len(pts); i++ {
		length += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	return length
}

// Rectangle is a symbol rectangle. RX and RY are nil unless the line used the
// rounded layout.
type Rectangle struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	RX     *float64 `json:"rx,omitempty"`
	RY     *float64 `json:"ry,omitempty"`
	Style
}

type Circle struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
	Style
}

type Ellipse struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	RadiusX float64 `json:"radius_x"`
	RadiusY float64 `json:"radius_y"`
	Style
}

// Arc carries its geometry as an SVG path.
type Arc struct {
	Path       string `json:"path"`
	HelperDots string `json:"helper_dots"`
	Style
}

// Segments parses the arc path.
func (a Arc) Segments() (svgpath.Path, error) {
	return svgpath.Parse(a.Path)
}

// Polyline is an open chain of points ("x1 y1 x2 y2 ...").
type Polyline struct {
	Points string `json:"points"`
	Style
}

// Vertices parses the point list.
func (p Polyline) Vertices() ([]svgpath.Point, error) {
	return svgpath.ParsePoints(p.Points)
}

// Polygon is a closed chain of points.
type Polygon struct {
	Points string `json:"points"`
	Style
}

// Vertices parses the point list.
func (p Polygon) Vertices() ([]svgpath.Point, error) {
	return svgpath.ParsePoints(p.Points)
}

// Path is a free-form SVG path.
type Path struct {
	Paths string `json:"paths"`
	Style
}

// Segments parses the path data.
func (p Path) Segments() (svgpath.Path, error) {
	return svgpath.Parse(p.Paths)
}

// Symbol is the decoded schematic symbol. Each slice preserves the order of
// the shape lines it was built from.
type Symbol struct {
	Info       SymbolInfo  `json:"info"`
	BBox       BBox        `json:"bbox"`
	Pins       []Pin       `json:"pins"`
	Rectangles []Rectangle `json:"rectangles"`
	Circles    []Circle    `json:"circles"`
	Arcs       []Arc       `json:"arcs"`
	Ellipses   []Ellipse   `json:"ellipses"`
	Polylines  []Polyline  `json:"polylines"`
	Polygons   []Polygon   `json:"polygons"`
	Paths      []Path      `json:"paths"`
}

// Counts returns the number of decoded primitives keyed by record tag.
func (s *Symbol) Counts() map[string]int {
	return map[string]int{
		TagPin:       len(s.Pins),
		TagRectangle: len(s.Rectangles),
		TagCircle:    len(s.Circles),
		TagArc:       len(s.Arcs),
		TagEllipse:   len(s.Ellipses),
		TagPolyline:  len(s.Polylines),
		TagPolygon:   len(s.Polygons),
		TagPath:      len(s.Paths),
	}
}

// FootprintType is "smd" or "tht".
type FootprintType string

const (
	FootprintSMD FootprintType = "smd"
	FootprintTHT FootprintType = "tht"
)

// FootprintInfo identifies the footprint.
type FootprintInfo struct {
	Name        string        `json:"name"`
	Type        FootprintType `json:"type"`
	Model3DName string        `json:"model_3d_name"`
}

type Pad struct {
	Shape      string  `json:"shape"`
	CenterX    float64 `json:"center_x"`
	CenterY    float64 `json:"center_y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	LayerID    int     `json:"layer_id"`
	Net        string  `json:"net"`
	Number     string  `json:"number"`
	HoleRadius float64 `json:"hole_radius"`
	Points     string  `json:"points"`
	Rotation   float64 `json:"rotation"`
	ID         string  `json:"id"`
	HoleLength float64 `json:"hole_length"`
	HolePoint  string  `json:"hole_point"`
	Plated     bool    `json:"plated"`
	Locked     bool    `json:"locked"`
}

// Vertices parses the outline of polygon pads. Other shapes carry an empty
// point list.
func (p Pad) Vertices() ([]svgpath.Point, error) {
	return svgpath.ParsePoints(p.Points)
}

type Track struct {
	StrokeWidth float64 `json:"stroke_width"`
	LayerID     int     `json:"layer_id"`
	Net         string  `json:"net"`
	Points      string  `json:"points"`
	ID          string  `json:"id"`
	Locked      bool    `json:"locked"`
}

// Vertices parses the track's point list.
func (t Track) Vertices() ([]svgpath.Point, error) {
	return svgpath.ParsePoints(t.Points)
}

type Hole struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
	ID      string  `json:"id"`
	Locked  bool    `json:"locked"`
}

type Via struct {
	CenterX  float64 `json:"center_x"`
	CenterY  float64 `json:"center_y"`
	Diameter float64 `json:"diameter"`
	Net      string  `json:"net"`
	Radius   float64 `json:"radius"`
	ID       string  `json:"id"`
	Locked   bool    `json:"locked"`
}

type FootprintCircle struct {
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
	Radius      float64 `json:"radius"`
	StrokeWidth float64 `json:"stroke_width"`
	LayerID     int     `json:"layer_id"`
	ID          string  `json:"id"`
	Locked      bool    `json:"locked"`
}

type FootprintArc struct {
	StrokeWidth float64 `json:"stroke_width"`
	LayerID     int     `json:"layer_id"`
	Net         string  `json:"net"`
	Path        string  `json:"path"`
	HelperDots  string  `json:"helper_dots"`
	ID          string  `json:"id"`
	Locked      bool    `json:"locked"`
}

// Segments parses the arc path.
func (a FootprintArc) Segments() (svgpath.Path, error) {
	return svgpath.Parse(a.Path)
}

type FootprintRectangle struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeWidth float64 `json:"stroke_width"`
	ID          string  `json:"id"`
	LayerID     int     `json:"layer_id"`
	Locked      bool    `json:"locked"`
}

type Text struct {
	Type        string  `json:"type"`
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
	StrokeWidth float64 `json:"stroke_width"`
	Rotation    int     `json:"rotation"`
	Mirror      string  `json:"mirror"`
	LayerID     int     `json:"layer_id"`
	Net         string  `json:"net"`
	FontSize    float64 `json:"font_size"`
	Text        string  `json:"text"`
	TextPath    string  `json:"text_path"`
	Displayed   bool    `json:"displayed"`
	ID          string  `json:"id"`
	Locked      bool    `json:"locked"`
}

// Vec3 is an x/y/z triple. Rotations are in degrees.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Model3D places a 3-D asset on the footprint. Mesh and Solid are only
// populated when a download was requested and succeeded.
type Model3D struct {
	Name        string `json:"name"`
	UUID        string `json:"uuid"`
	Translation Vec3   `json:"translation"`
	Rotation    Vec3   `json:"rotation"`
	Mesh        string `json:"-"` // raw OBJ text
	Solid       []byte `json:"-"` // STEP payload
}

// Footprint is the decoded PCB footprint.
type Footprint struct {
	Info       FootprintInfo        `json:"info"`
	BBox       BBox                 `json:"bbox"`
	Pads       []Pad                `json:"pads"`
	Tracks     []Track              `json:"tracks"`
	Holes      []Hole               `json:"holes"`
	Vias       []Via                `json:"vias"`
	Circles    []FootprintCircle    `json:"circles"`
	Arcs       []FootprintArc       `json:"arcs"`
	Rectangles []FootprintRectangle `json:"rectangles"`
	Texts      []Text               `json:"texts"`
	Model3D    *Model3D             `json:"model_3d,omitempty"`
}

// Counts returns the number of decoded primitives keyed by record tag.
func (f *Footprint) Counts() map[string]int {
	return map[string]int{
		TagPad:             len(f.Pads),
		TagTrack:           len(f.Tracks),
		TagHole:            len(f.Holes),
		TagVia:             len(f.Vias),
		TagFootprintCircle: len(f.Circles),
		TagFootprintArc:    len(f.Arcs),
		TagFootprintRect:   len(f.Rectangles),
		TagText:            len(f.Texts),
	}
}
