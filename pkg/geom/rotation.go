package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

var basis = [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

// Rotate rotates v about axis by angle radians, right-handed: rotating X by
// +pi/2 about Z gives +Y. The axis is normalized internally; it does not need
// unit length but must be non-zero, otherwise ErrDegenerateAxis is returned.
//
// The rotation is the Rodrigues form
//
//	cos(t)*v + sin(t)*(a x v) + (1-cos(t))*(a.v)*a
//
// which leaves the component of v along a untouched and turns the
// perpendicular component within the plane normal to a.
func Rotate(axis r3.Vector, angle float64, v r3.Vector) (r3.Vector, error) {
	a, err := unit(axis)
	if err != nil {
		return r3.Vector{}, err
	}
	return rotate(a, angle, v), nil
}

// rotate assumes a has unit length.
func rotate(a r3.Vector, angle float64, v r3.Vector) r3.Vector {
	c, s := math.Cos(angle), math.Sin(angle)
	out := v.Mul(c)
	out = out.Add(a.Cross(v).Mul(s))
	return out.Add(a.Mul(a.Dot(v) * (1 - c)))
}

// rotateDecomposed is the parallel/perpendicular rearrangement of the same
// rotation: (a.v)a + cos(t)(v - (a.v)a) + sin(t)(a x v). It must agree with
// rotate for every input; the matrix builder uses this form.
func rotateDecomposed(a r3.Vector, angle float64, v r3.Vector) r3.Vector {
	par := a.Mul(a.Dot(v))
	perp := v.Sub(par)
	out := par.Add(perp.Mul(math.Cos(angle)))
	return out.Add(a.Cross(v).Mul(math.Sin(angle)))
}

// RotationMatrix returns the homogeneous transform rotating about axis by
// angle radians, built by applying the rotation to each basis vector. The
// translation part is zero. A zero axis yields ErrDegenerateAxis.
func RotationMatrix(axis r3.Vector, angle float64) (Transform, error) {
	a, err := unit(axis)
	if err != nil {
		return Transform{}, err
	}
	m := Identity()
	for j, e := range basis {
		col := rotateDecomposed(a, angle, e)
		m.M[0][j] = col.X
		m.M[1][j] = col.Y
		m.M[2][j] = col.Z
	}
	return m, nil
}

func unit(axis r3.Vector) (r3.Vector, error) {
	n := axis.Norm()
	if n == 0 {
		return r3.Vector{}, ErrDegenerateAxis
	}
	return axis.Mul(1 / n), nil
}

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
