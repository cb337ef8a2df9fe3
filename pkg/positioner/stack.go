package positioner

import (
	"fmt"
	"strings"

	"github.com/jonwright/grewgg/pkg/geom"
)

// Stack is an ordered sequence of axes forming one mechanical assembly, e.g.
// a diffractometer tower or a detector mount. Order is fixed by configuration
// and is authoritative: composition is not commutative, so the first-declared
// axis is always the outermost transform.
type Stack struct {
	Name string
	Axes []Axis
}

// NewStack builds a stack from axes in declaration order.
func NewStack(name string, axes ...Axis) *Stack {
	return &Stack{Name: name, Axes: axes}
}

// Compose resolves every axis against values and returns the product
// T1 * T2 * ... * Tn in declared order. A runtime value wins over the
// configured default; an axis with neither fails the whole composition with
// ErrMissingMotorValue naming the axis and stack.
func (s *Stack) Compose(values Values) (geom.Transform, error) {
	out := geom.Identity()
	for _, ax := range s.Axes {
		v, err := ax.resolve(values)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("stack %q: %w", s.Name, err)
		}
		m, err := ax.Transform(v)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("stack %q: %w", s.Name, err)
		}
		out = out.Mul(m)
	}
	return out, nil
}

// Inverse composes the stack and inverts the result. The conventional name
// for an inverted assembly carries a trailing apostrophe.
func (s *Stack) Inverse(values Values) (geom.Transform, error) {
	m, err := s.Compose(values)
	if err != nil {
		return geom.Transform{}, err
	}
	inv, err := m.Invert()
	if err != nil {
		return geom.Transform{}, fmt.Errorf("stack %q': %w", s.Name, err)
	}
	return inv, nil
}

// Motors lists the axis names that consume a motor value, in stack order.
// Fixed literal matrices are excluded.
func (s *Stack) Motors() []string {
	var names []string
	for _, ax := range s.Axes {
		if ax.Kind != Fixed {
			names = append(names, ax.Name)
		}
	}
	return names
}

func (s *Stack) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d axes)", s.Name, len(s.Axes))
	for _, ax := range s.Axes {
		b.WriteString("\n  ")
		b.WriteString(strings.ReplaceAll(ax.String(), "\n", "\n  "))
	}
	return b.String()
}
