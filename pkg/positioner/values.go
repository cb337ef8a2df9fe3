package positioner

// Values maps motor names to their positions for one scan step: millimeters
// (or whatever unit the axis direction encodes) for translations, degrees for
// rotations. Values are transient; stacks never hold on to them.
type Values map[string]float64

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// With returns a copy with one motor set, leaving v untouched.
func (v Values) With(name string, value float64) Values {
	out := v.Clone()
	out[name] = value
	return out
}
