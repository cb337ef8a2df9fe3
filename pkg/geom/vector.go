// Package geom provides the fixed-size linear algebra used by positioner
// stacks: augmented 4-vectors, 4x4 homogeneous transforms and axis/angle
// rotations. Angles at this layer are radians; configuration-level degree
// handling lives with the positioner package.
package geom

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Vec4 is an augmented 4-vector. The trailing component W distinguishes
// positions (W=1, translations apply) from free directions (W=0,
// translations are ignored). Valid transforms preserve W exactly.
type Vec4 struct {
	X, Y, Z, W float64
}

// Point returns a position vector (W=1).
func Point(x, y, z float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: 1}
}

// Direction returns a free vector (W=0), e.g. a reciprocal-space or
// diffracted-beam direction.
func Direction(x, y, z float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: 0}
}

// FromR3 lifts a 3-vector into an augmented vector with the given trailing
// component.
func FromR3(v r3.Vector, w float64) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Vec3 drops the trailing component.
func (v Vec4) Vec3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func (v Vec4) String() string {
	return fmt.Sprintf("(%g, %g, %g; %g)", v.X, v.Y, v.Z, v.W)
}
