package easyeda

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func footprintCAD(smt any, title string, shapes ...string) *CADData {
	return &CADData{
		SMT: smt,
		DataStr: &DataStr{
			Head: &Head{CPara: map[string]any{"name": "X"}},
		},
		PackageDetail: &PackageDetail{
			Title: title,
			DataStr: &DataStr{
				Head:  &Head{X: 4000, Y: "3000", CPara: map[string]any{"package": title}},
				Shape: shapes,
			},
		},
	}
}

func TestDecodeFootprintFixture(t *testing.T) {
	fp, diags, err := NewDecoder().DecodeFootprint(loadFixture(t))
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, FootprintInfo{
		Name:        "LQFN-56_L7.0-W7.0-P0.4-EP",
		Type:        FootprintSMD,
		Model3DName: "LQFN-56_L7.0-W7.0-H0.9-P0.4",
	}, fp.Info)
	assert.Equal(t, BBox{X: 4000, Y: 3000}, fp.BBox)

	counts := fp.Counts()
	assert.Equal(t, 2, counts[TagPad])
	assert.Equal(t, 1, counts[TagTrack])
	assert.Equal(t, 1, counts[TagHole])
	assert.Equal(t, 1, counts[TagVia])
	assert.Equal(t, 1, counts[TagFootprintCircle])
	assert.Equal(t, 1, counts[TagFootprintArc])
	assert.Equal(t, 1, counts[TagFootprintRect])
	assert.Equal(t, 1, counts[TagText])

	require.NotNil(t, fp.Model3D)
	assert.Equal(t, "8fb2e2c6b6f3447b99f1f0a1d0c2e5b7", fp.Model3D.UUID)
}

func TestDecodeFootprintPads(t *testing.T) {
	fp, _, err := NewDecoder().DecodeFootprint(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, fp.Pads, 2)

	rect := fp.Pads[0]
	assert.Equal(t, "RECT", rect.Shape)
	assert.Equal(t, 3986.22, rect.CenterX)
	assert.Equal(t, 1.58, rect.Width)
	assert.Equal(t, 1, rect.LayerID)
	assert.Equal(t, "1", rect.Number)
	assert.Equal(t, 90.0, rect.Rotation)
	assert.Equal(t, "pad1", rect.ID)
	pts, err := rect.Vertices()
	require.NoError(t, err)
	assert.Len(t, pts, 4)

	ellipse := fp.Pads[1]
	assert.Equal(t, "ELLIPSE", ellipse.Shape)
	assert.Equal(t, 11, ellipse.LayerID)
	assert.Equal(t, "GND", ellipse.Net)
	assert.Equal(t, "57", ellipse.Number)
	assert.Equal(t, 0.5, ellipse.HoleRadius)
}

func TestDecodeFootprintPrimitives(t *testing.T) {
	fp, _, err := NewDecoder().DecodeFootprint(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, Track{StrokeWidth: 0.5, LayerID: 3, Points: "3980 3980 4020 3980", ID: "trk1"}, fp.Tracks[0])
	assert.Equal(t, Hole{CenterX: 4010, CenterY: 4010, Radius: 0.5, ID: "hole1"}, fp.Holes[0])
	assert.Equal(t, Via{CenterX: 4005, CenterY: 4005, Diameter: 1.2, Net: "GND", Radius: 0.3, ID: "via1"}, fp.Vias[0])
	assert.Equal(t, FootprintCircle{CenterX: 3982, CenterY: 3982, Radius: 0.3, StrokeWidth: 0.6, LayerID: 3, ID: "circ1"}, fp.Circles[0])
	assert.Equal(t, "M 3990 3980 A 10 10 0 0 1 4010 3980", fp.Arcs[0].Path)
	assert.Equal(t, FootprintRectangle{X: 3985, Y: 3985, Width: 30, Height: 30, StrokeWidth: 0.5, ID: "rect1", LayerID: 3}, fp.Rectangles[0])

	text := fp.Texts[0]
	assert.Equal(t, "N", text.Type)
	assert.Equal(t, 4.5, text.FontSize)
	assert.Equal(t, "RP2040", text.Text)
	assert.Equal(t, 3, text.LayerID)
}

func TestFootprintType(t *testing.T) {
	tests := []struct {
		smt   any
		title string
		want  FootprintType
	}{
		{true, "SOIC-8", FootprintSMD},
		{"1", "SOIC-8", FootprintSMD},
		{true, "DIP-8-TH_P2.54", FootprintTHT},
		{false, "SOIC-8", FootprintTHT},
		{nil, "SOIC-8", FootprintTHT},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, footprintType(tt.smt, tt.title), "SMT=%v title=%s", tt.smt, tt.title)
	}
}

func TestDecodeFootprintTruncatesPadTokens(t *testing.T) {
	line := "PAD~RECT~1~2~3~4~1~~1~0~~0~p~0~~Y~0~extra~more~again"
	fp, _, err := NewDecoder().DecodeFootprint(footprintCAD(true, "X", line))
	require.NoError(t, err)
	require.Len(t, fp.Pads, 1)
	assert.Equal(t, "p", fp.Pads[0].ID)
	assert.False(t, fp.Pads[0].Locked)
}

func TestDecodeFootprintUnknownAndSolidRegion(t *testing.T) {
	fp, diags, err := NewDecoder().DecodeFootprint(footprintCAD(true, "X",
		"HOLE~1~1~1~h1~0",
		"SOLIDREGION~1~~M 0 0 L 1 1 Z~solid~r1~~~0",
		"COPPERAREA~1~2",
		"HOLE~2~2~1~h2~0",
	))
	require.NoError(t, err)

	require.Len(t, fp.Holes, 2)
	assert.Equal(t, "h1", fp.Holes[0].ID)
	assert.Equal(t, "h2", fp.Holes[1].ID)
	assert.Nil(t, fp.Model3D)

	require.Len(t, diags, 1)
	assert.Equal(t, "COPPERAREA", diags[0].Tag)
	assert.Equal(t, 2, diags[0].Record)
}

func TestDecodeFootprintFirstModelWins(t *testing.T) {
	fp, diags, err := NewDecoder().DecodeFootprint(footprintCAD(true, "X",
		`SVGNODE~{"attrs":{"uuid":"first","title":"A"}}`,
		`SVGNODE~{"attrs":{"uuid":"second","title":"B"}}`,
	))
	require.NoError(t, err)
	require.NotNil(t, fp.Model3D)
	assert.Equal(t, "first", fp.Model3D.UUID)
	require.Len(t, diags.Filter(SeverityInfo), 1)
}

func TestDecodeFootprintMalformedFirstModel(t *testing.T) {
	shapes := []string{
		`SVGNODE~{not json`,
		`SVGNODE~{"attrs":{"uuid":"second","title":"B"}}`,
	}

	fp, diags, err := NewDecoder().DecodeFootprint(footprintCAD(true, "X", shapes...))
	require.NoError(t, err)
	assert.Nil(t, fp.Model3D)
	require.Len(t, diags.Warnings(), 1)
	assert.Equal(t, 0, diags.Warnings()[0].Record)
	require.Len(t, diags.Filter(SeverityInfo), 1)
	assert.Equal(t, 1, diags.Filter(SeverityInfo)[0].Record)

	// same answer as the standalone resolver
	m, _ := NewDecoder().Resolve3DModel(context.Background(), shapes, false)
	assert.Equal(t, m, fp.Model3D)
}

func TestDecodeFootprintMissingHeader(t *testing.T) {
	_, _, err := NewDecoder().DecodeFootprint(&CADData{})
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, _, err = NewDecoder().DecodeFootprint(&CADData{PackageDetail: &PackageDetail{DataStr: &DataStr{Head: &Head{}}}})
	assert.ErrorIs(t, err, ErrMissingHeader)
}

type stubModels struct {
	mesh     string
	solid    []byte
	meshErr  error
	solidErr error
	calls    []string
}

func (s *stubModels) ModelMesh(_ context.Context, uuid string) (string, error) {
	s.calls = append(s.calls, "mesh:"+uuid)
	return s.mesh, s.meshErr
}

func (s *stubModels) ModelSolid(_ context.Context, uuid string) ([]byte, error) {
	s.calls = append(s.calls, "solid:"+uuid)
	return s.solid, s.solidErr
}

func TestDecodeComponent(t *testing.T) {
	models := &stubModels{mesh: "v 0 0 0", solidErr: errors.New("boom")}
	d := NewDecoder(WithModelSource(models))

	comp, diags, err := d.Decode(context.Background(), loadFixture(t), true)
	require.NoError(t, err)
	require.NotNil(t, comp.Symbol)
	require.NotNil(t, comp.Footprint)

	m := comp.Footprint.Model3D
	require.NotNil(t, m)
	assert.Equal(t, "v 0 0 0", m.Mesh)
	assert.Nil(t, m.Solid)
	assert.Equal(t, []string{"mesh:" + m.UUID, "solid:" + m.UUID}, models.calls)

	// two from the symbol pass, one for the failed solid download
	assert.Len(t, diags.Warnings(), 3)
}

func TestDecodeComponentWithoutDownload(t *testing.T) {
	models := &stubModels{}
	comp, _, err := NewDecoder(WithModelSource(models)).Decode(context.Background(), loadFixture(t), false)
	require.NoError(t, err)
	assert.Empty(t, models.calls)
	assert.Empty(t, comp.Footprint.Model3D.Mesh)
}
