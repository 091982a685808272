package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda"
)

func printSummary(w io.Writer, res *decodeResult) {
	fmt.Fprintf(w, "Component %s\n", res.ID)
	fmt.Fprintln(w, strings.Repeat("=", 10+len(res.ID)))

	if s := res.Symbol; s != nil {
		fmt.Fprintf(w, "Symbol:       %s\n", s.Info.Name)
		fmt.Fprintf(w, "  Prefix:       %s\n", s.Info.Prefix)
		fmt.Fprintf(w, "  Package:      %s\n", s.Info.Package)
		if s.Info.Manufacturer != "" {
			fmt.Fprintf(w, "  Manufacturer: %s\n", s.Info.Manufacturer)
		}
		if s.Info.LCSCID != "" {
			fmt.Fprintf(w, "  LCSC:         %s\n", s.Info.LCSCID)
		}
		if s.Info.Datasheet != "" {
			fmt.Fprintf(w, "  Datasheet:    %s\n", s.Info.Datasheet)
		}
		printBBox(w, s.BBox)
		printCounts(w, s.Counts())
		for _, p := range s.Pins {
			fmt.Fprintf(w, "    pin %-4s %-12s %s\n", p.Number(), p.Name.Text, p.Settings.Type)
		}
		fmt.Fprintln(w)
	}

	if f := res.Footprint; f != nil {
		fmt.Fprintf(w, "Footprint:    %s (%s)\n", f.Info.Name, f.Info.Type)
		if f.Info.Model3DName != "" {
			fmt.Fprintf(w, "  3-D name:     %s\n", f.Info.Model3DName)
		}
		printBBox(w, f.BBox)
		printCounts(w, f.Counts())
		fmt.Fprintln(w)
	}

	if m := res.Model3D; m != nil {
		fmt.Fprintf(w, "3-D model:    %s\n", m.Name)
		fmt.Fprintf(w, "  UUID:         %s\n", m.UUID)
		fmt.Fprintf(w, "  Translation:  %s\n", formatVec(m.Translation))
		fmt.Fprintf(w, "  Rotation:     %s\n", formatVec(m.Rotation))
		if m.Mesh != "" {
			fmt.Fprintf(w, "  Mesh:         %d bytes\n", len(m.Mesh))
		}
		if len(m.Solid) > 0 {
			fmt.Fprintf(w, "  STEP:         %d bytes\n", len(m.Solid))
		}
		fmt.Fprintln(w)
	}

	if l := res.Library; l != nil {
		fmt.Fprintln(w, "Library:")
		if res.Symbol != nil {
			if l.Symbol != "" {
				fmt.Fprintf(w, "  symbol present as %s\n", l.Symbol)
			} else {
				fmt.Fprintln(w, "  symbol missing")
			}
		}
		if res.Footprint != nil {
			if l.Footprint {
				fmt.Fprintln(w, "  footprint present")
			} else {
				fmt.Fprintln(w, "  footprint missing")
			}
		}
		fmt.Fprintln(w)
	}

	if len(res.Diagnostics) == 0 {
		fmt.Fprintln(w, "Diagnostics:  none")
	} else {
		fmt.Fprintf(w, "Diagnostics:  %d (%d warning(s))\n", len(res.Diagnostics), len(res.Diagnostics.Warnings()))
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	fmt.Fprintln(w)
}

func printBBox(w io.Writer, b easyeda.BBox) {
	fmt.Fprintf(w, "  BBox:         x=%g y=%g w=%g h=%g\n", b.X, b.Y, b.Width, b.Height)
}

func printCounts(w io.Writer, counts map[string]int) {
	tags := make([]string, 0, len(counts))
	for tag, n := range counts {
		if n > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("%s=%d", tag, counts[tag]))
	}
	fmt.Fprintf(w, "  Records:      %s\n", strings.Join(parts, " "))
}

func formatVec(v easyeda.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
