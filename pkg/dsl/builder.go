package dsl

import (
	"fmt"

	"github.com/jonwright/grewgg/pkg/schema"
)

// Builder manages the beamline construction.
type Builder struct {
	instruments map[string]*StackBuilder
	detectors   map[string]schema.DetectorRecord
	parameters  map[string]float64
}

// New creates a new beamline builder.
func New() *Builder {
	return &Builder{
		instruments: make(map[string]*StackBuilder),
		detectors:   make(map[string]schema.DetectorRecord),
		parameters:  make(map[string]float64),
	}
}

// Instrument creates a new positioner stack under the given path, outermost
// axis first. If the stack already exists, it returns the existing builder.
func (b *Builder) Instrument(path string) *StackBuilder {
	if sb, ok := b.instruments[path]; ok {
		return sb
	}
	sb := &StackBuilder{
		path:    path,
		builder: b,
	}
	b.instruments[path] = sb
	return sb
}

// Parameter adds one load-time parameter. Parameters resolve symbolic mat4
// cells and double as motor defaults for axes sharing the name.
func (b *Builder) Parameter(name string, value float64) *Builder {
	b.parameters[name] = value
	return b
}

// Detector mounts a named detector onto a declared stack.
func (b *Builder) Detector(name, stack string) *Builder {
	b.detectors[name] = schema.DetectorRecord{Stack: stack}
	return b
}

// CalibratedDetector adds a detector built from inline fable parameters
// instead of a declared stack.
func (b *Builder) CalibratedDetector(name string, params map[string]float64) *Builder {
	b.detectors[name] = schema.DetectorRecord{Calibration: params}
	return b
}

// Build compiles the description into a validated beamline.
func (b *Builder) Build() (*schema.Beamline, error) {
	beamline := &schema.Beamline{
		Instruments: make(map[string][]schema.AxisRecord, len(b.instruments)),
		Detectors:   make(map[string]schema.DetectorRecord, len(b.detectors)),
		Parameters:  make(map[string]float64, len(b.parameters)),
	}
	for path, sb := range b.instruments {
		beamline.Instruments[path] = sb.Records()
	}
	for name, rec := range b.detectors {
		beamline.Detectors[name] = rec
	}
	for name, v := range b.parameters {
		beamline.Parameters[name] = v
	}

	if err := beamline.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build beamline: %w", err)
	}
	return beamline, nil
}
