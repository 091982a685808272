// Package metrics counts decoded records and diagnostics and exports them in
// the node-exporter textfile format.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda"
)

const namespace = "ee2kicad"

// Component outcomes for ObserveComponent.
const (
	ResultDecoded  = "decoded"
	ResultNotFound = "not_found"
	ResultFailed   = "failed"
)

// Recorder owns a private registry so a CLI run exports only its own series.
type Recorder struct {
	registry *prometheus.Registry

	records     *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	components  *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all series registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Shape records decoded, by aggregate and record tag",
			},
			[]string{"aggregate", "tag"},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "Diagnostics emitted while decoding, by severity",
			},
			[]string{"severity"},
		),
		components: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "components_total",
				Help:      "Components processed, by outcome",
			},
			[]string{"result"},
		),
	}
	r.registry.MustRegister(r.records, r.diagnostics, r.components)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSymbol counts the primitives of a decoded symbol.
func (r *Recorder) ObserveSymbol(s *easyeda.Symbol) {
	r.observeCounts("symbol", s.Counts())
}

// ObserveFootprint counts the primitives of a decoded footprint.
func (r *Recorder) ObserveFootprint(f *easyeda.Footprint) {
	counts := f.Counts()
	if f.Model3D != nil {
		counts[easyeda.TagSVGNode] = 1
	}
	r.observeCounts("footprint", counts)
}

func (r *Recorder) observeCounts(aggregate string, counts map[string]int) {
	for tag, n := range counts {
		if n == 0 {
			continue
		}
		r.records.WithLabelValues(aggregate, strings.ToLower(tag)).Add(float64(n))
	}
}

// ObserveDiagnostics counts diagnostics by severity.
func (r *Recorder) ObserveDiagnostics(diags easyeda.Diagnostics) {
	for _, d := range diags {
		r.diagnostics.WithLabelValues(d.Severity.String()).Inc()
	}
}

// ObserveComponent counts one processed component.
func (r *Recorder) ObserveComponent(result string) {
	r.components.WithLabelValues(result).Inc()
}

// WriteTextfile writes all series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
