package positioner

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwright/grewgg/pkg/geom"
)

const tol = 1e-12

func TestTranslationTransform(t *testing.T) {
	tx := NewTranslation("samtx", r3.Vector{X: 1}, 0)

	cases := []struct {
		value float64
		want  r3.Vector
	}{
		{0, r3.Vector{}},
		{1, r3.Vector{X: 1}},
		{3.3, r3.Vector{X: 3.3}},
		{-2, r3.Vector{X: -2}},
	}
	for _, tc := range cases {
		m, err := tx.Transform(tc.value)
		require.NoError(t, err)
		got := m.ApplyPoint(r3.Vector{})
		assert.InDelta(t, tc.want.X, got.X, tol)
		assert.InDelta(t, tc.want.Y, got.Y, tol)
		assert.InDelta(t, tc.want.Z, got.Z, tol)
	}
}

// The direction magnitude encodes units: a step of 0.001 mm per motor unit
// makes the motor count microns.
func TestTranslationDirectionEncodesUnits(t *testing.T) {
	micron := NewTranslation("piezo", r3.Vector{X: 0.001}, 0)
	m, err := micron.Transform(2000)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.TranslationPart().X, tol)
}

func TestRotationTransformDegrees(t *testing.T) {
	// non-unit direction, normalized internally
	rz := NewRotation("omega", r3.Vector{Z: 2}, 0)
	m, err := rz.Transform(90)
	require.NoError(t, err)

	got := m.ApplyDirection(r3.Vector{X: 1})
	assert.InDelta(t, 0, got.X, tol)
	assert.InDelta(t, 1, got.Y, tol)
	assert.InDelta(t, 0, got.Z, tol)
}

func TestRotationDegenerateDirection(t *testing.T) {
	bad := Axis{Name: "omega", Kind: Rotation}
	_, err := bad.Transform(10)
	assert.ErrorIs(t, err, geom.ErrDegenerateAxis)

	var ae *AxisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "omega", ae.Axis)
}

func TestScaleTransform(t *testing.T) {
	ys := NewScale("y_size", r3.Vector{Y: 1}, 1)
	m, err := ys.Transform(0.048)
	require.NoError(t, err)

	got := m.ApplyPoint(r3.Vector{X: 1, Y: 10, Z: 1})
	assert.InDelta(t, 1, got.X, tol)
	assert.InDelta(t, 0.48, got.Y, tol)
	assert.InDelta(t, 1, got.Z, tol)
}

func TestScaleDirectionMustBeOneHot(t *testing.T) {
	bad := []r3.Vector{
		{},
		{Y: 1, Z: 1},
		{Y: 2},
		{X: 1, Y: 1, Z: -1},
	}
	for _, dir := range bad {
		ax := NewScale("s", dir, 1)
		_, err := ax.Transform(2)
		assert.ErrorIs(t, err, ErrScaleDirection, "direction %v", dir)
	}
}

func TestFixedTransformIgnoresValue(t *testing.T) {
	flip := geom.FromRows([4][4]float64{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	})
	ax := NewFixed("Oij", flip)

	m1, err := ax.Transform(0)
	require.NoError(t, err)
	m2, err := ax.Transform(123.4)
	require.NoError(t, err)
	assert.Equal(t, flip, m1)
	assert.Equal(t, flip, m2)
}

func TestFixedWithoutMatrix(t *testing.T) {
	ax := Axis{Name: "Oij", Kind: Fixed}
	_, err := ax.Transform(0)
	assert.ErrorIs(t, err, ErrMissingMatrix)
}

func TestUnknownKind(t *testing.T) {
	ax := Axis{Name: "wat", Kind: Kind("hexapod")}
	_, err := ax.Transform(0)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "wat")
}

func TestAxisString(t *testing.T) {
	ax := NewRotation("omega", r3.Vector{Z: 1}, 45)
	s := ax.String()
	assert.Contains(t, s, "omega")
	assert.Contains(t, s, "rotation")
	assert.Contains(t, s, "pos=45")

	fixed := NewFixed("Oij", geom.Identity())
	assert.Contains(t, fixed.String(), "Oij")
}
