package geom

import "errors"

var (
	// ErrDegenerateAxis reports a zero-length axis vector where a direction
	// was required.
	ErrDegenerateAxis = errors.New("degenerate axis: zero-length direction")

	// ErrSingular reports a transform with no inverse.
	ErrSingular = errors.New("singular transform")
)
