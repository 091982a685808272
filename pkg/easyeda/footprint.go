package easyeda

import (
	"context"
	"strings"
)

// DecodeFootprint builds the PCB footprint of a component. A SVGNODE line, if
// any, is resolved into Footprint.Model3D without downloading assets.
func (d *Decoder) DecodeFootprint(cad *CADData) (*Footprint, Diagnostics, error) {
	if cad == nil || cad.PackageDetail == nil {
		return nil, nil, ErrMissingHeader
	}
	pkg := cad.PackageDetail
	head, cpara, err := pkg.DataStr.header("footprint")
	if err != nil {
		return nil, nil, err
	}

	c := newCollector(d.logger)
	seen3D := false
	fp := &Footprint{
		Info: FootprintInfo{
			Name:        param(cpara, "package"),
			Type:        footprintType(cad.SMT, pkg.Title),
			Model3DName: param(cpara, "3DModel"),
		},
		BBox: BBox{
			X: ToFloat(head.X, 0),
			Y: ToFloat(head.Y, 0),
		},
	}
	if fp.Info.Name == "" {
		c.warnf(NoRecord, "", "footprint has no package name")
	}

	for i, line := range pkg.DataStr.Shape {
		rec := Tokenize(line)
		tokens := rec.Fields()

		switch rec.Tag {
		case TagPad:
			if len(tokens) > len(padLayout) {
				tokens = tokens[:len(padLayout)]
			}
			fp.Pads = append(fp.Pads, buildPad(MapFields(padLayout, tokens)))
		case TagTrack:
			fp.Tracks = append(fp.Tracks, buildTrack(MapFields(trackLayout, tokens)))
		case TagHole:
			fp.Holes = append(fp.Holes, buildHole(MapFields(holeLayout, tokens)))
		case TagVia:
			fp.Vias = append(fp.Vias, buildVia(MapFields(viaLayout, tokens)))
		case TagFootprintCircle:
			fp.Circles = append(fp.Circles, buildFootprintCircle(MapFields(footprintCircleLayout, tokens)))
		case TagFootprintArc:
			fp.Arcs = append(fp.Arcs, buildFootprintArc(MapFields(footprintArcLayout, tokens)))
		case TagFootprintRect:
			fp.Rectangles = append(fp.Rectangles, buildFootprintRectangle(MapFields(footprintRectLayout, tokens)))
		case TagText:
			fp.Texts = append(fp.Texts, buildText(MapFields(textLayout, tokens)))
		case TagSVGNode:
			// only the first node counts, even when it is malformed
			if seen3D {
				c.infof(i, rec.Tag, "additional 3-D node ignored")
				continue
			}
			seen3D = true
			fp.Model3D = placementFrom(rec, i, c)
		case TagSolidRegion:
			// Copper pours are not carried into the footprint model.
		default:
			c.warnf(i, rec.Tag, "unknown footprint record %q", rec.Tag)
		}
	}

	return fp, c.diags, nil
}

// footprintType reports smd when the component is flagged surface mount and
// its package is not a through-hole variant.
func footprintType(smt any, title string) FootprintType {
	if ToBool(smt, false) && !strings.Contains(title, "-TH_") {
		return FootprintSMD
	}
	return FootprintTHT
}

func buildPad(f Fields) Pad {
	return Pad{
		Shape:      f.String("shape"),
		CenterX:    f.Float("center_x"),
		CenterY:    f.Float("center_y"),
		Width:      f.Float("width"),
		Height:     f.Float("height"),
		LayerID:    f.Int("layer_id"),
		Net:        f.String("net"),
		Number:     f.String("number"),
		HoleRadius: f.Float("hole_radius"),
		Points:     f.String("points"),
		Rotation:   f.Float("rotation"),
		ID:         f.String("id"),
		HoleLength: f.Float("hole_length"),
		HolePoint:  f.String("hole_point"),
		Plated:     f.Bool("is_plated"),
		Locked:     f.Bool("is_locked"),
	}
}

func buildTrack(f Fields) Track {
	return Track{
		StrokeWidth: f.Float("stroke_width"),
		LayerID:     f.Int("layer_id"),
		Net:         f.String("net"),
		Points:      f.String("points"),
		ID:          f.String("id"),
		Locked:      f.Bool("is_locked"),
	}
}

func buildHole(f Fields) Hole {
	return Hole{
		CenterX: f.Float("center_x"),
		CenterY: f.Float("center_y"),
		Radius:  f.Float("radius"),
		ID:      f.String("id"),
		Locked:  f.Bool("is_locked"),
	}
}

func buildVia(f Fields) Via {
	return Via{
		CenterX:  f.Float("center_x"),
		CenterY:  f.Float("center_y"),
		Diameter: f.Float("diameter"),
		Net:      f.String("net"),
		Radius:   f.Float("radius"),
		ID:       f.String("id"),
		Locked:   f.Bool("is_locked"),
	}
}

func buildFootprintCircle(f Fields) FootprintCircle {
	return FootprintCircle{
		CenterX:     f.Float("cx"),
		CenterY:     f.Float("cy"),
		Radius:      f.Float("radius"),
		StrokeWidth: f.Float("stroke_width"),
		LayerID:     f.Int("layer_id"),
		ID:          f.String("id"),
		Locked:      f.Bool("is_locked"),
	}
}

func buildFootprintArc(f Fields) FootprintArc {
	return FootprintArc{
		StrokeWidth: f.Float("stroke_width"),
		LayerID:     f.Int("layer_id"),
		Net:         f.String("net"),
		Path:        f.String("path"),
		HelperDots:  f.String("helper_dots"),
		ID:          f.String("id"),
		Locked:      f.Bool("is_locked"),
	}
}

func buildFootprintRectangle(f Fields) FootprintRectangle {
	return FootprintRectangle{
		X:           f.Float("x"),
		Y:           f.Float("y"),
		Width:       f.Float("width"),
		Height:      f.Float("height"),
		StrokeWidth: f.Float("stroke_width"),
		ID:          f.String("id"),
		LayerID:     f.Int("layer_id"),
		Locked:      f.Bool("is_locked"),
	}
}

func buildText(f Fields) Text {
	return Text{
		Type:        f.String("type"),
		CenterX:     f.Float("center_x"),
		CenterY:     f.Float("center_y"),
		StrokeWidth: f.Float("stroke_width"),
		Rotation:    f.Int("rotation"),
		Mirror:      f.String("mirror"),
		LayerID:     f.Int("layer_id"),
		Net:         f.String("net"),
		FontSize:    fontSize(f.String("font_size")),
		Text:        f.String("text"),
		TextPath:    f.String("text_path"),
		Displayed:   f.Bool("is_displayed"),
		ID:          f.String("id"),
		Locked:      f.Bool("is_locked"),
	}
}

// Decode runs the symbol and footprint passes and resolves the 3-D placement
// of one component. Diagnostics of all passes are returned in that order.
func (d *Decoder) Decode(ctx context.Context, cad *CADData, download bool) (*Component, Diagnostics, error) {
	sym, symDiags, err := d.DecodeSymbol(cad)
	if err != nil {
		return nil, nil, err
	}
	fp, fpDiags, err := d.DecodeFootprint(cad)
	if err != nil {
		return nil, nil, err
	}

	diags := append(symDiags, fpDiags...)
	if download && fp.Model3D != nil {
		diags = append(diags, d.FetchModel(ctx, fp.Model3D)...)
	}

	return &Component{Symbol: sym, Footprint: fp}, diags, nil
}

// Component bundles the aggregates of one decoded component.
type Component struct {
	Symbol    *Symbol    `json:"symbol"`
	Footprint *Footprint `json:"footprint"`
}
