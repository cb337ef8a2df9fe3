package schema

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/spf13/cast"

	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/geom"
	"github.com/jonwright/grewgg/pkg/positioner"
)

// AxisRecord is one entry of an instrument's ordered axis list as written in
// configuration. Mat4 cells may be numbers or parameter names resolved at
// load time.
type AxisRecord struct {
	Name string    `mapstructure:"name" yaml:"name"`
	Type string    `mapstructure:"type" yaml:"type"`
	Axis []float64 `mapstructure:"axis" yaml:"axis,flow,omitempty"`
	Pos  *float64  `mapstructure:"pos" yaml:"pos,omitempty"`
	Mat4 [][]any   `mapstructure:"mat4" yaml:"mat4,omitempty"`
}

// DetectorRecord describes one detector: either a reference to a declared
// positioner stack or an inline fable calibration, plus correction-file
// references that are carried through untouched.
type DetectorRecord struct {
	Stack       string             `mapstructure:"stack" yaml:"stack,omitempty"`
	Calibration map[string]float64 `mapstructure:"calibration" yaml:"calibration,omitempty"`
	Distortion  string             `mapstructure:"distortion" yaml:"distortion,omitempty"`
	Flood       string             `mapstructure:"flood" yaml:"flood,omitempty"`
}

// Beamline is a parsed beamline description. Instruments are flattened from
// the document's Positioners tree and keyed by their slash-joined path;
// lookups also accept the terminal path segment when it is unambiguous.
// Parameters is the load-time symbol table for literal-matrix cells.
type Beamline struct {
	Instruments map[string][]AxisRecord
	Detectors   map[string]DetectorRecord
	Parameters  map[string]float64
}

// Instrument resolves a stack name or path to its axis records.
func (b *Beamline) Instrument(name string) ([]AxisRecord, string, error) {
	if recs, ok := b.Instruments[name]; ok {
		return recs, name, nil
	}
	var matches []string
	for path := range b.Instruments {
		if strings.HasSuffix(path, "/"+name) {
			matches = append(matches, path)
		}
	}
	switch len(matches) {
	case 1:
		return b.Instruments[matches[0]], matches[0], nil
	case 0:
		return nil, "", fmt.Errorf("%w %q", ErrUnknownInstrument, name)
	default:
		return nil, "", fmt.Errorf("%w: %q is ambiguous (%s)", ErrUnknownInstrument, name, strings.Join(matches, ", "))
	}
}

// Stack builds the named positioner stack, resolving literal-matrix symbols
// against Parameters. All record problems are aggregated.
func (b *Beamline) Stack(name string) (*positioner.Stack, error) {
	recs, path, err := b.Instrument(name)
	if err != nil {
		return nil, err
	}
	axes := make([]positioner.Axis, 0, len(recs))
	var errs []error
	for i, rec := range recs {
		ax, err := rec.Build(fmt.Sprintf("%s[%d]", path, i), b.Parameters)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		axes = append(axes, ax)
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return positioner.NewStack(path, axes...), nil
}

// Detector builds the named detector, either on a declared stack or from an
// inline calibration.
func (b *Beamline) Detector(name string) (*detector.Detector, error) {
	rec, ok := b.Detectors[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDetector, name)
	}
	d, err := rec.Build(name, b)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Validate builds every instrument and detector in the document and
// aggregates all failures. A nil error means every record is usable.
func (b *Beamline) Validate() error {
	var errs []error
	for path := range b.Instruments {
		if _, err := b.Stack(path); err != nil {
			errs = append(errs, flatten(err)...)
		}
	}
	for name := range b.Detectors {
		if _, err := b.Detector(name); err != nil {
			errs = append(errs, flatten(err)...)
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func flatten(err error) []error {
	if inner := ValidationErrors(err); inner != nil {
		return inner
	}
	return []error{err}
}

// Build converts the record into a positioner axis. key locates the record
// in the document for error reporting.
func (r AxisRecord) Build(key string, params map[string]float64) (positioner.Axis, error) {
	if r.Name == "" {
		return positioner.Axis{}, &ValidationError{Key: key + ".name", Reason: "axis name is required"}
	}

	switch positioner.Kind(r.Type) {
	case positioner.Translation, positioner.Rotation, positioner.Scale:
		if len(r.Axis) != 3 {
			return positioner.Axis{}, &ValidationError{
				Key:    key + ".axis",
				Reason: "axis must have exactly three components",
				Value:  r.Axis,
			}
		}
		return positioner.Axis{
			Name:      r.Name,
			Kind:      positioner.Kind(r.Type),
			Direction: r3.Vector{X: r.Axis[0], Y: r.Axis[1], Z: r.Axis[2]},
			Default:   r.Pos,
		}, nil

	case positioner.Fixed:
		m, err := r.literalMatrix(key, params)
		if err != nil {
			return positioner.Axis{}, err
		}
		return positioner.Axis{Name: r.Name, Kind: positioner.Fixed, Matrix: &m}, nil
	}

	return positioner.Axis{}, &ValidationError{Key: key + ".type", Reason: "unknown axis type", Value: r.Type}
}

// literalMatrix resolves a mat4 block. Cells naming a parameter take its
// value; anything else must coerce to a number. The bottom row must be the
// homogeneous (0,0,0,1) so points stay points and directions stay
// directions.
func (r AxisRecord) literalMatrix(key string, params map[string]float64) (geom.Transform, error) {
	if len(r.Mat4) != 4 {
		return geom.Transform{}, &ValidationError{Key: key + ".mat4", Reason: "mat4 must have four rows", Value: len(r.Mat4)}
	}
	var rows [4][4]float64
	for i, row := range r.Mat4 {
		if len(row) != 4 {
			return geom.Transform{}, &ValidationError{
				Key:    fmt.Sprintf("%s.mat4[%d]", key, i),
				Reason: "mat4 rows must have four cells",
				Value:  len(row),
			}
		}
		for j, cell := range row {
			v, err := resolveCell(cell, params)
			if err != nil {
				return geom.Transform{}, &ValidationError{
					Key:    fmt.Sprintf("%s.mat4[%d][%d]", key, i, j),
					Reason: "cell is neither a number nor a known parameter",
					Value:  cell,
				}
			}
			rows[i][j] = v
		}
	}
	if rows[3] != [4]float64{0, 0, 0, 1} {
		return geom.Transform{}, &ValidationError{
			Key:    key + ".mat4",
			Reason: "bottom row must be 0 0 0 1",
			Value:  rows[3],
		}
	}
	return geom.FromRows(rows), nil
}

// resolveCell interprets one mat4 cell: the parameter table wins over a
// numeric literal, matching how calibration symbols shadow plain numbers.
func resolveCell(cell any, params map[string]float64) (float64, error) {
	if name, ok := cell.(string); ok {
		if v, found := params[name]; found {
			return v, nil
		}
	}
	return cast.ToFloat64E(cell)
}

// Build converts the record into a detector. Exactly one of Stack or
// Calibration must be present.
func (r DetectorRecord) Build(name string, b *Beamline) (*detector.Detector, error) {
	key := "Detectors/" + name
	switch {
	case r.Stack != "" && r.Calibration != nil:
		return nil, &ValidationError{Key: key, Reason: "stack and calibration are mutually exclusive"}

	case r.Stack != "":
		mount, err := b.Stack(r.Stack)
		if err != nil {
			return nil, err
		}
		d := detector.New(name, mount)
		d.Distortion = r.Distortion
		d.Flood = r.Flood
		return d, nil

	case r.Calibration != nil:
		cal, err := detector.CalibrationFromParams(r.Calibration)
		if err != nil {
			return nil, &ValidationError{Key: key + ".calibration", Reason: err.Error()}
		}
		d := detector.FromCalibration(name, cal)
		d.Distortion = r.Distortion
		d.Flood = r.Flood
		return d, nil
	}
	return nil, &ValidationError{Key: key, Reason: "either stack or calibration is required"}
}
