package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda"
)

func TestObserveSymbolAndFootprint(t *testing.T) {
	r := NewRecorder()

	r.ObserveSymbol(&easyeda.Symbol{
		Pins:       make([]easyeda.Pin, 3),
		Rectangles: make([]easyeda.Rectangle, 1),
	})
	r.ObserveFootprint(&easyeda.Footprint{
		Pads:    make([]easyeda.Pad, 4),
		Model3D: &easyeda.Model3D{UUID: "u"},
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.records.WithLabelValues("symbol", "p")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.records.WithLabelValues("symbol", "r")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.records.WithLabelValues("footprint", "pad")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.records.WithLabelValues("footprint", "svgnode")))

	// zero counts create no series
	assert.Equal(t, 4, testutil.CollectAndCount(r.records))
}

func TestObserveDiagnosticsAndComponents(t *testing.T) {
	r := NewRecorder()

	r.ObserveDiagnostics(easyeda.Diagnostics{
		{Severity: easyeda.SeverityWarning},
		{Severity: easyeda.SeverityWarning},
		{Severity: easyeda.SeverityInfo},
	})
	r.ObserveComponent(ResultDecoded)
	r.ObserveComponent(ResultNotFound)
	r.ObserveComponent(ResultDecoded)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.diagnostics.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.diagnostics.WithLabelValues("info")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.components.WithLabelValues(ResultDecoded)))

	expected := `
# HELP ee2kicad_components_total Components processed, by outcome
# TYPE ee2kicad_components_total counter
ee2kicad_components_total{result="decoded"} 2
ee2kicad_components_total{result="not_found"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "ee2kicad_components_total"))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveComponent(ResultFailed)

	path := filepath.Join(t.TempDir(), "ee2kicad.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ee2kicad_components_total{result="failed"} 1`)
}
