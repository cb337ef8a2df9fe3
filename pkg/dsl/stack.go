package dsl

import (
	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/schema"
)

// StackBuilder provides a fluent API for appending axes to one positioner
// stack. Axes compose in declaration order, outermost first.
type StackBuilder struct {
	path    string
	axes    []schema.AxisRecord
	builder *Builder
}

// Rotation appends a motorized rotation (degrees) about the given direction.
func (s *StackBuilder) Rotation(name string, x, y, z float64) *StackBuilder {
	return s.append(positioner.Rotation, name, x, y, z)
}

// Translation appends a motorized translation along the given direction.
func (s *StackBuilder) Translation(name string, x, y, z float64) *StackBuilder {
	return s.append(positioner.Translation, name, x, y, z)
}

// Scale appends a motorized scale along the given direction.
func (s *StackBuilder) Scale(name string, x, y, z float64) *StackBuilder {
	return s.append(positioner.Scale, name, x, y, z)
}

// Fixed appends a constant homogeneous matrix element. Cells may be numbers
// or parameter names resolved at build time.
func (s *StackBuilder) Fixed(name string, mat4 [4][4]any) *StackBuilder {
	rows := make([][]any, 4)
	for i, row := range mat4 {
		rows[i] = []any{row[0], row[1], row[2], row[3]}
	}
	s.axes = append(s.axes, schema.AxisRecord{
		Name: name,
		Type: string(positioner.Fixed),
		Mat4: rows,
	})
	return s
}

// At sets the default position of the most recently appended axis. Without
// a default the motor must be supplied on every evaluation.
func (s *StackBuilder) At(pos float64) *StackBuilder {
	if len(s.axes) == 0 {
		return s
	}
	p := pos
	s.axes[len(s.axes)-1].Pos = &p
	return s
}

// Records returns the accumulated axis records.
// This is primarily used by the Builder, but exposed for advanced usage.
func (s *StackBuilder) Records() []schema.AxisRecord {
	out := make([]schema.AxisRecord, len(s.axes))
	copy(out, s.axes)
	return out
}

func (s *StackBuilder) append(kind positioner.Kind, name string, x, y, z float64) *StackBuilder {
	s.axes = append(s.axes, schema.AxisRecord{
		Name: name,
		Type: string(kind),
		Axis: []float64{x, y, z},
	})
	return s
}
