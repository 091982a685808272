package easyeda

import (
	"fmt"

	"go.uber.org/zap"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText lets diagnostics serialise with readable severities.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NoRecord is the record index of diagnostics that concern the component as
// a whole rather than one shape line.
const NoRecord = -1

// Diagnostic is one non-fatal finding of a decode pass.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Record   int      `json:"record"` // index into the shape list, or NoRecord
	Tag      string   `json:"tag,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Record == NoRecord {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: record %d (%s): %s", d.Severity, d.Record, d.Tag, d.Message)
}

// Diagnostics is the ordered list returned next to every decoded aggregate.
type Diagnostics []Diagnostic

// Filter returns the diagnostics of the given severity.
func (ds Diagnostics) Filter(s Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// Warnings is shorthand for Filter(SeverityWarning).
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.Filter(SeverityWarning)
}

// collector accumulates diagnostics for one decode call and mirrors them to
// the decoder's logger.
type collector struct {
	diags  Diagnostics
	logger *zap.Logger
}

func newCollector(logger *zap.Logger) *collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &collector{logger: logger}
}

func (c *collector) add(sev Severity, record int, tag, format string, args ...any) {
	d := Diagnostic{
		Severity: sev,
		Record:   record,
		Tag:      tag,
		Message:  fmt.Sprintf(format, args...),
	}
	c.diags = append(c.diags, d)

	fields := []zap.Field{zap.Int("record", record)}
	if tag != "" {
		fields = append(fields, zap.String("tag", tag))
	}
	switch sev {
	case SeverityError:
		c.logger.Error(d.Message, fields...)
	case SeverityWarning:
		c.logger.Warn(d.Message, fields...)
	default:
		c.logger.Info(d.Message, fields...)
	}
}

func (c *collector) infof(record int, tag, format string, args ...any) {
	c.add(SeverityInfo, record, tag, format, args...)
}

func (c *collector) warnf(record int, tag, format string, args ...any) {
	c.add(SeverityWarning, record, tag, format, args...)
}
