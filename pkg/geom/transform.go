package geom

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Transform is a 4x4 homogeneous matrix of the block form
//
//	[ U t ]
//	[ 0 1 ]
//
// where U is the 3x3 linear part (rotation, scale or identity) and t the
// translation column. Rows are indexed first: M[row][col].
type Transform struct {
	M [4][4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.M[i][i] = 1
	}
	return t
}

// Translation returns the transform moving points by v.
func Translation(v r3.Vector) Transform {
	t := Identity()
	t.M[0][3] = v.X
	t.M[1][3] = v.Y
	t.M[2][3] = v.Z
	return t
}

// Scaling returns the transform scaling each lab axis independently.
func Scaling(sx, sy, sz float64) Transform {
	t := Identity()
	t.M[0][0] = sx
	t.M[1][1] = sy
	t.M[2][2] = sz
	return t
}

// FromRows builds a transform from explicit row-major entries, e.g. a
// literal matrix taken from configuration.
func FromRows(rows [4][4]float64) Transform {
	return Transform{M: rows}
}

// Mul returns the composition t*o: o acts on a vector first, t second.
func (t Transform) Mul(o Transform) Transform {
	var out Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += t.M[i][k] * o.M[k][j]
			}
			out.M[i][j] = s
		}
	}
	return out
}

// Apply multiplies the full augmented vector by t. For any transform with
// bottom row (0,0,0,1) the trailing component of the result equals the
// trailing component of v: positions stay positions, directions stay
// directions.
func (t Transform) Apply(v Vec4) Vec4 {
	var out [4]float64
	in := [4]float64{v.X, v.Y, v.Z, v.W}
	for i := 0; i < 4; i++ {
		var s float64
		for k := 0; k < 4; k++ {
			s += t.M[i][k] * in[k]
		}
		out[i] = s
	}
	return Vec4{X: out[0], Y: out[1], Z: out[2], W: out[3]}
}

// ApplyPoint applies t to a position (W=1) and drops the trailing component.
func (t Transform) ApplyPoint(v r3.Vector) r3.Vector {
	return t.Apply(FromR3(v, 1)).Vec3()
}

// ApplyDirection applies t to a free vector (W=0); translations are ignored.
func (t Transform) ApplyDirection(v r3.Vector) r3.Vector {
	return t.Apply(FromR3(v, 0)).Vec3()
}

// TranslationPart returns the translation column of t.
func (t Transform) TranslationPart() r3.Vector {
	return r3.Vector{X: t.M[0][3], Y: t.M[1][3], Z: t.M[2][3]}
}

// Invert returns the inverse transform. ErrSingular is returned when the
// matrix has no (numerically trustworthy) inverse, e.g. a scale axis with a
// zero motor value.
func (t Transform) Invert() (Transform, error) {
	flat := make([]float64, 0, 16)
	for i := 0; i < 4; i++ {
		flat = append(flat, t.M[i][:]...)
	}
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(4, 4, flat)); err != nil {
		return Transform{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	var out Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.M[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}

func (t Transform) String() string {
	rows := make([]string, 4)
	for i := 0; i < 4; i++ {
		var b strings.Builder
		b.WriteString("[")
		for j := 0; j < 4; j++ {
			fmt.Fprintf(&b, " %10.5g", t.M[i][j])
		}
		b.WriteString(" ]")
		rows[i] = b.String()
	}
	return strings.Join(rows, "\n")
}
