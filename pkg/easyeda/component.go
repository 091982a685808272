package easyeda

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrMissingHeader is returned when a component lacks the structure every
// aggregate is built from (dataStr, head or c_para). It is the only hard
// failure of a decode pass.
var ErrMissingHeader = errors.New("easyeda: missing component header")

// CADData is the "result" object of the component API.
type CADData struct {
	Title         string         `json:"title"`
	SMT           any            `json:"SMT"`
	DataStr       *DataStr       `json:"dataStr"`
	LCSC          LCSC           `json:"lcsc"`
	PackageDetail *PackageDetail `json:"packageDetail"`
}

// DataStr holds a header and the shape lines of a symbol or footprint.
type DataStr struct {
	Head  *Head          `json:"head"`
	BBox  map[string]any `json:"BBox"`
	Shape []string       `json:"shape"`
}

// Head is the document header. X and Y may be numbers or numeric strings.
type Head struct {
	X     any            `json:"x"`
	Y     any            `json:"y"`
	CPara map[string]any `json:"c_para"`
}

// LCSC is the distributor block of a component.
type LCSC struct {
	URL    string `json:"url"`
	Number string `json:"number"`
}

// PackageDetail wraps the footprint document.
type PackageDetail struct {
	Title   string   `json:"title"`
	DataStr *DataStr `json:"dataStr"`
}

// ParseCADData decodes a component "result" object.
func ParseCADData(data []byte) (*CADData, error) {
	var cad CADData
	if err := json.Unmarshal(data, &cad); err != nil {
		return nil, fmt.Errorf("failed to decode component data: %w", err)
	}
	return &cad, nil
}

// ErrNoResult is returned by ParseAPIResponse when the API reports failure or
// the envelope carries no result.
var ErrNoResult = errors.New("easyeda: response has no result")

type envelope struct {
	Success *bool           `json:"success"`
	Code    any             `json:"code"`
	Result  json.RawMessage `json:"result"`
}

// ParseAPIResponse unwraps a {success, code, result} envelope and decodes the
// result. A body without an envelope is decoded as the result itself.
func ParseAPIResponse(data []byte) (*CADData, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Success == nil && env.Result == nil {
		return ParseCADData(data)
	}
	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("api reported failure (code %v): %w", env.Code, ErrNoResult)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil, ErrNoResult
	}
	return ParseCADData(env.Result)
}

// header returns the head and c_para of a document, or ErrMissingHeader.
func (d *DataStr) header(what string) (*Head, map[string]any, error) {
	if d == nil {
		return nil, nil, fmt.Errorf("%s: no dataStr: %w", what, ErrMissingHeader)
	}
	if d.Head == nil {
		return nil, nil, fmt.Errorf("%s: no head: %w", what, ErrMissingHeader)
	}
	if d.Head.CPara == nil {
		return nil, nil, fmt.Errorf("%s: no c_para: %w", what, ErrMissingHeader)
	}
	return d.Head, d.Head.CPara, nil
}

// param reads a c_para entry as a string; absent entries are "".
func param(cpara map[string]any, key string) string {
	return ToString(cpara[key])
}

// present reports whether a header value carries data.
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// ModelSource supplies 3-D assets by their stable id. Implementations perform
// I/O; the decoder itself never does.
type ModelSource interface {
	ModelMesh(ctx context.Context, uuid string) (string, error)
	ModelSolid(ctx context.Context, uuid string) ([]byte, error)
}

// Decoder turns component data into Symbol, Footprint and Model3D values.
// A Decoder holds no per-call state and may be shared between goroutines.
type Decoder struct {
	logger *zap.Logger
	models ModelSource
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger mirrors every diagnostic to l.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithModelSource sets the provider used when a 3-D download is requested.
func WithModelSource(s ModelSource) Option {
	return func(d *Decoder) {
		d.models = s
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
