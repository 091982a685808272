package easyeda

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
)

// svgNode is the JSON blob carried by a SVGNODE line.
type svgNode struct {
	Attrs map[string]any `json:"attrs"`
}

// Resolve3DModel scans shape lines for the first 3-D metadata node and returns
// its placement. No node yields a nil model and no error. With download set,
// the mesh and solid payloads are fetched from the configured ModelSource;
// each failure leaves that payload empty and records a warning.
func (d *Decoder) Resolve3DModel(ctx context.Context, shapes []string, download bool) (*Model3D, Diagnostics) {
	c := newCollector(d.logger)

	for i, line := range shapes {
		if TagOf(line) != TagSVGNode {
			continue
		}
		m := placementFrom(Tokenize(line), i, c)
		if m != nil && download {
			d.fetchModel(ctx, m, c)
		}
		return m, c.diags
	}

	c.infof(NoRecord, "", "no 3-D model available for this component")
	return nil, c.diags
}

// placementFrom decodes the attribute blob of one SVGNODE record. A malformed
// blob is reported and yields nil.
func placementFrom(rec Record, index int, c *collector) *Model3D {
	raw := strings.Join(rec.Fields(), FieldDelimiter)
	if raw == "" {
		c.warnf(index, rec.Tag, "3-D node carries no attributes")
		return nil
	}

	var node svgNode
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		c.warnf(index, rec.Tag, "malformed 3-D attributes: %v", err)
		return nil
	}
	if len(node.Attrs) == 0 {
		c.warnf(index, rec.Tag, "3-D node has an empty attribute set")
		return nil
	}

	attrs := node.Attrs
	m := &Model3D{
		Name: ToString(attrs["title"]),
		UUID: ToString(attrs["uuid"]),
	}
	if m.UUID == "" {
		c.warnf(index, rec.Tag, "3-D node has no asset id")
	}

	origin := splitTriple(ToString(attrs["c_origin"]))
	m.Translation.X = ToFloat(at(origin, 0), 0)
	m.Translation.Y = ToFloat(at(origin, 1), 0)
	if z, ok := attrs["z"]; ok && present(z) {
		m.Translation.Z = ToFloat(z, 0)
	} else {
		m.Translation.Z = ToFloat(at(origin, 2), 0)
	}

	rotation := ToString(attrs["c_rotation"])
	if rotation == "" {
		rotation = "0,0,0"
	}
	rot := MapFields(rotationLayout, splitTriple(rotation))
	m.Rotation = Vec3{X: rot.Float("x"), Y: rot.Float("y"), Z: rot.Float("z")}

	return m
}

// FetchModel downloads the mesh and solid payloads of an already resolved
// placement. Failures are reported as warnings and leave the payload empty.
func (d *Decoder) FetchModel(ctx context.Context, m *Model3D) Diagnostics {
	c := newCollector(d.logger)
	if m != nil {
		d.fetchModel(ctx, m, c)
	}
	return c.diags
}

func (d *Decoder) fetchModel(ctx context.Context, m *Model3D, c *collector) {
	if d.models == nil {
		c.warnf(NoRecord, TagSVGNode, "3-D download requested but no model source is configured")
		return
	}
	if m.UUID == "" {
		return
	}

	mesh, err := d.models.ModelMesh(ctx, m.UUID)
	if err != nil {
		c.warnf(NoRecord, TagSVGNode, "failed to fetch 3-D mesh %s: %v", m.UUID, err)
	} else {
		m.Mesh = mesh
	}

	solid, err := d.models.ModelSolid(ctx, m.UUID)
	if err != nil {
		c.warnf(NoRecord, TagSVGNode, "failed to fetch 3-D solid %s: %v", m.UUID, err)
	} else {
		m.Solid = solid
	}
}

func splitTriple(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func at(parts []string, i int) any {
	if i < len(parts) {
		return parts[i]
	}
	return nil
}
