// Package positioner models beamline motors as parametrized homogeneous
// transforms and composes ordered stacks of them into instrument geometry.
package positioner

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg/pkg/geom"
)

// Kind discriminates the closed set of axis variants.
type Kind string

const (
	// Translation moves along Direction by the motor value. Direction is
	// used as configured, not normalized: component magnitudes encode the
	// displacement per motor unit.
	Translation Kind = "translation"

	// Rotation turns about Direction (normalized) by the motor value in
	// degrees, right-handed.
	Rotation Kind = "rotation"

	// Scale multiplies the single lab axis selected by Direction by the
	// motor value. Direction must have exactly one component set to 1.
	Scale Kind = "scale"

	// Fixed is a literal matrix taken verbatim from configuration; any
	// motor value is ignored.
	Fixed Kind = "positioner"
)

// Axis is one mechanical degree of freedom. Definitions are loaded once and
// treated as immutable; per-step motor values arrive separately as Values.
type Axis struct {
	Name      string
	Kind      Kind
	Direction r3.Vector
	// Default is the configured nominal position (the "pos" key), used when
	// no runtime value is supplied. Nil means the axis has no default.
	Default *float64
	// Matrix holds the literal transform for Kind Fixed.
	Matrix *geom.Transform
}

// NewTranslation returns a translation axis with a default position.
func NewTranslation(name string, dir r3.Vector, pos float64) Axis {
	return Axis{Name: name, Kind: Translation, Direction: dir, Default: &pos}
}

// NewRotation returns a rotation axis with a default angle in degrees.
func NewRotation(name string, dir r3.Vector, posDeg float64) Axis {
	return Axis{Name: name, Kind: Rotation, Direction: dir, Default: &posDeg}
}

// NewScale returns a scale axis with a default factor.
func NewScale(name string, dir r3.Vector, pos float64) Axis {
	return Axis{Name: name, Kind: Scale, Direction: dir, Default: &pos}
}

// NewFixed returns a literal-matrix axis.
func NewFixed(name string, m geom.Transform) Axis {
	return Axis{Name: name, Kind: Fixed, Matrix: &m}
}

// Transform builds the homogeneous transform for one resolved motor value.
func (a Axis) Transform(value float64) (geom.Transform, error) {
	switch a.Kind {
	case Translation:
		if a.Direction.Norm2() == 0 {
			return geom.Transform{}, &AxisError{Axis: a.Name, Err: geom.ErrDegenerateAxis}
		}
		return geom.Translation(a.Direction.Mul(value)), nil

	case Rotation:
		m, err := geom.RotationMatrix(a.Direction, geom.Radians(value))
		if err != nil {
			return geom.Transform{}, &AxisError{Axis: a.Name, Err: err}
		}
		return m, nil

	case Scale:
		idx, err := scaleSelector(a.Direction)
		if err != nil {
			return geom.Transform{}, &AxisError{Axis: a.Name, Err: err}
		}
		factors := [3]float64{1, 1, 1}
		factors[idx] = value
		return geom.Scaling(factors[0], factors[1], factors[2]), nil

	case Fixed:
		if a.Matrix == nil {
			return geom.Transform{}, &AxisError{Axis: a.Name, Err: ErrMissingMatrix}
		}
		return *a.Matrix, nil
	}
	return geom.Transform{}, &AxisError{Axis: a.Name, Err: fmt.Errorf("%w %q", ErrUnknownKind, a.Kind)}
}

// resolve picks the motor value for this axis: runtime value, else the
// configured default. Fixed axes never consume a value.
func (a Axis) resolve(values Values) (float64, error) {
	if a.Kind == Fixed {
		return 0, nil
	}
	if v, ok := values[a.Name]; ok {
		return v, nil
	}
	if a.Default != nil {
		return *a.Default, nil
	}
	return 0, &AxisError{Axis: a.Name, Err: ErrMissingMotorValue}
}

// scaleSelector maps a one-hot direction to the diagonal index it selects.
func scaleSelector(dir r3.Vector) (int, error) {
	comps := [3]float64{dir.X, dir.Y, dir.Z}
	idx := -1
	for i, c := range comps {
		switch c {
		case 0:
		case 1:
			if idx >= 0 {
				return 0, ErrScaleDirection
			}
			idx = i
		default:
			return 0, ErrScaleDirection
		}
	}
	if idx < 0 {
		return 0, ErrScaleDirection
	}
	return idx, nil
}

func (a Axis) String() string {
	if a.Kind == Fixed {
		if a.Matrix == nil {
			return fmt.Sprintf("%s %s (no matrix)", a.Name, a.Kind)
		}
		return fmt.Sprintf("%s %s\n%s", a.Name, a.Kind, a.Matrix)
	}
	s := fmt.Sprintf("%s %s axis=(%g, %g, %g)", a.Name, a.Kind, a.Direction.X, a.Direction.Y, a.Direction.Z)
	if a.Default != nil {
		s += fmt.Sprintf(" pos=%g", *a.Default)
	}
	return s
}
