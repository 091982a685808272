package easyeda

import (
	"strings"
)

// Pin line groups, in order of appearance.
const (
	pinGroupSettings = iota
	pinGroupDot
	pinGroupPath
	pinGroupName
	pinGroupNumber // pin-number label; slot pinNumberSlot holds the designator
	pinGroupDotBis
	pinGroupClock
)

const pinNumberSlot = 4

// symbolHandler builds one primitive from a tokenized line and appends it to
// the symbol.
type symbolHandler func(rec Record, sym *Symbol, c *collector, index int)

var symbolHandlers = map[string]symbolHandler{
	TagPin:       addPin,
	TagRectangle: addRectangle,
	TagCircle:    addCircle,
	TagEllipse:   addEllipse,
	TagArc:       addArc,
	TagPolyline:  addPolyline,
	TagPolygon:   addPolygon,
	TagPath:      addPath,
}

// DecodeSymbol builds the schematic symbol of a component in one forward pass
// over its shape lines.
func (d *Decoder) DecodeSymbol(cad *CADData) (*Symbol, Diagnostics, error) {
	if cad == nil {
		return nil, nil, ErrMissingHeader
	}
	head, cpara, err := cad.DataStr.header("symbol")
	if err != nil {
		return nil, nil, err
	}

	c := newCollector(d.logger)
	sym := &Symbol{
		Info: SymbolInfo{
			Name:         param(cpara, "name"),
			Prefix:       param(cpara, "pre"),
			Package:      param(cpara, "package"),
			Manufacturer: param(cpara, "BOM_Manufacturer"),
			Datasheet:    cad.LCSC.URL,
			LCSCID:       cad.LCSC.Number,
			JLCID:        param(cpara, "BOM_JLCPCB Part Class"),
		},
		BBox: symbolBBox(cad.DataStr.BBox, head),
	}
	if sym.Info.Name == "" {
		c.warnf(NoRecord, "", "component has no name")
	}

	for i, line := range cad.DataStr.Shape {
		rec := Tokenize(line)
		handler, ok := symbolHandlers[rec.Tag]
		if !ok {
			c.warnf(i, rec.Tag, "unknown symbol record %q", rec.Tag)
			continue
		}
		handler(rec, sym, c, i)
	}

	return sym, c.diags, nil
}

// symbolBBox prefers the geometry-derived BBox block and falls back to the
// header origin with zero size, field by field.
func symbolBBox(bbox map[string]any, head *Head) BBox {
	pick := func(key string, fallback any) any {
		if v := bbox[key]; present(v) {
			return v
		}
		return fallback
	}
	return BBox{
		X:      ToFloat(pick("x", head.X), 0),
		Y:      ToFloat(pick("y", head.Y), 0),
		Width:  ToFloat(pick("width", nil), 0),
		Height: ToFloat(pick("height", nil), 0),
	}
}

func addPin(rec Record, sym *Symbol, c *collector, index int) {
	settings := MapFields(pinSettingsLayout, rec.Group(pinGroupSettings))
	dot := MapFields(pinDotLayout, rec.Group(pinGroupDot))
	lead := MapFields(pinPathLayout, rec.Group(pinGroupPath))
	name := MapFields(pinNameLayout, rec.Group(pinGroupName))
	dotBis := MapFields(pinDotBisLayout, rec.Group(pinGroupDotBis))
	clock := MapFields(pinClockLayout, rec.Group(pinGroupClock))

	pin := Pin{
		Settings: PinSettings{
			Displayed:      settings.Bool("is_displayed"),
			Type:           pinTypeOf(settings.Int("type")),
			SpicePinNumber: settings.String("spice_pin_number"),
			X:              settings.Float("pos_x"),
			Y:              settings.Float("pos_y"),
			Rotation:       settings.Int("rotation"),
			ID:             settings.String("id"),
			Locked:         settings.Bool("is_locked"),
		},
		Dot: PinDot{
			X: dot.Float("dot_x"),
			Y: dot.Float("dot_y"),
		},
		Path: PinPath{
			Path:  lead.String("path"),
			Color: lead.String("color"),
		},
		Name: PinName{
			Displayed: name.Bool("is_displayed"),
			X:         name.Float("pos_x"),
			Y:         name.Float("pos_y"),
			Rotation:  name.Int("rotation"),
			Text:      name.String("text"),
			Anchor:    name.String("text_anchor"),
			Font:      name.String("font"),
			FontSize:  fontSize(name.String("font_size")),
		},
		DotBis: PinDotBis{
			Displayed: dotBis.Bool("is_displayed"),
			X:         dotBis.Float("circle_x"),
			Y:         dotBis.Float("circle_y"),
		},
		Clock: PinClock{
			Displayed: clock.Bool("is_displayed"),
			Path:      clock.String("path"),
		},
	}

	if number := rec.Group(pinGroupNumber); len(number) > pinNumberSlot && number[pinNumberSlot] != "" {
		pin.NumberOverride = number[pinNumberSlot]
	} else {
		c.warnf(index, rec.Tag, "pin has no number label, using settings identifier %q", pin.Settings.SpicePinNumber)
	}

	sym.Pins = append(sym.Pins, pin)
}

// fontSize accepts both "7" and "7pt".
func fontSize(raw string) float64 {
	return ToFloat(strings.TrimSuffix(strings.TrimSpace(raw), "pt"), 0)
}

func addRectangle(rec Record, sym *Symbol, c *collector, index int) {
	tokens, radius, layout := normalizeRectangle(rec.Fields())
	if layout == RectangleUnknown {
		c.infof(index, rec.Tag, "rectangle layout not recognised (%d fields), reading in plain order", len(rec.Fields()))
	}

	f := MapFields(rectangleLayout, tokens)
	r := Rectangle{
		X:      f.Float("pos_x"),
		Y:      f.Float("pos_y"),
		Width:  f.Float("width"),
		Height: f.Float("height"),
		Style:  styleFrom(f),
	}
	if radius != nil {
		corner := MapFields(Layout{"rx", "ry"}, radius)
		r.RX = corner.OptionalFloat("rx")
		r.RY = corner.OptionalFloat("ry")
	}

	sym.Rectangles = append(sym.Rectangles, r)
}

func addCircle(rec Record, sym *Symbol, _ *collector, _ int) {
	f := MapFields(circleLayout, rec.Fields())
	sym.Circles = append(sym.Circles, Circle{
		CenterX: f.Float("center_x"),
		CenterY: f.Float("center_y"),
		Radius:  f.Float("radius"),
		Style:   styleFrom(f),
	})
}

func addEllipse(rec Record, sym *Symbol, _ *collector, _ int) {
	f := MapFields(ellipseLayout, rec.Fields())
	sym.Ellipses = append(sym.Ellipses, Ellipse{
		CenterX: f.Float("center_x"),
		CenterY: f.Float("center_y"),
		RadiusX: f.Float("radius_x"),
		RadiusY: f.Float("radius_y"),
		Style:   styleFrom(f),
	})
}

func addArc(rec Record, sym *Symbol, _ *collector, _ int) {
	f := MapFields(arcLayout, rec.Fields())
	sym.Arcs = append(sym.Arcs, Arc{
		Path:       f.String("path"),
		HelperDots: f.String("helper_dots"),
		Style:      styleFrom(f),
	})
}

func addPolyline(rec Record, sym *Symbol, _ *collector, _ int) {
	f := MapFields(polylineLayout, rec.Fields())
	sym.Polylines = append(sym.Polylines, Polyline{
		Points: f.String("points"),
		Style:  styleFrom(f),
	})
}

func addPolygon(rec Record, sym *Symbol, _ *collector, _ int) {
	f := MapFields(polylineLayout, rec.Fields())
	sym.Polygons = append(sym.Polygons, Polygon{
		Points: f.String("points"),
		Style:  styleFrom(f),
	})
}

func addPath(rec Record, sym *Symbol, _ *collector, _ int) {
	f := MapFields(pathLayout, rec.Fields())
	sym.Paths = append(sym.Paths, Path{
		Paths: f.String("paths"),
		Style: styleFrom(f),
	})
}
