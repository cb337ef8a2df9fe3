// Package detector maps between detector pixel coordinates and the lab
// frame through a positioner stack, and intersects diffracted-beam rays with
// the detector plane.
//
// The pixel convention follows the fable layout: a pixel (fast fc, slow sc)
// enters the mount stack as the detector-local vector (0, fc, sc), so the
// detector plane is the image of the local x=0 plane under the composed
// mount transform.
package detector

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg/pkg/geom"
	"github.com/jonwright/grewgg/pkg/positioner"
)

// ErrNoIntersection reports a beam parallel to the detector plane.
var ErrNoIntersection = errors.New("beam does not intersect detector plane")

// planeEps bounds the local direction component below which the beam is
// treated as parallel to the plane instead of dividing by it.
const planeEps = 1e-12

// Pixel is a detector coordinate along the fast and slow axes.
type Pixel struct {
	Fast float64 `json:"fast"`
	Slow float64 `json:"slow"`
}

// Hit is one ray/detector intersection.
type Hit struct {
	Pixel Pixel
	// Lab is the intersection point in the lab frame.
	Lab r3.Vector
	// S is the ray parameter at the intersection: origin + S*dir. Negative
	// S means the plane lies behind the origin along the ray; callers that
	// want forward-only hits filter on the sign.
	S float64
}

// Detector binds a mount stack to the pixel-frame convention. Correction
// file references from configuration are carried but never interpreted;
// image processing is out of scope.
type Detector struct {
	Name  string
	Mount *positioner.Stack

	Distortion string
	Flood      string
}

// New returns a detector on the given mount stack.
func New(name string, mount *positioner.Stack) *Detector {
	return &Detector{Name: name, Mount: mount}
}

// PixelToLab maps a pixel through the composed mount to a lab-frame
// position.
func (d *Detector) PixelToLab(values positioner.Values, px Pixel) (r3.Vector, error) {
	m, err := d.Mount.Compose(values)
	if err != nil {
		return r3.Vector{}, fmt.Errorf("detector %q: %w", d.Name, err)
	}
	return m.ApplyPoint(r3.Vector{Y: px.Fast, Z: px.Slow}), nil
}

// Intersect finds where the line origin + s*dir crosses the detector plane,
// in pixel coordinates. The work happens in the detector-local frame: both
// ray ends go through the inverse mount and the crossing with the x=0 plane
// is solved there. ErrNoIntersection is returned when the transformed
// direction is (numerically) parallel to the plane.
func (d *Detector) Intersect(values positioner.Values, origin, dir r3.Vector) (*Hit, error) {
	m, err := d.Mount.Compose(values)
	if err != nil {
		return nil, fmt.Errorf("detector %q: %w", d.Name, err)
	}
	inv, err := m.Invert()
	if err != nil {
		return nil, fmt.Errorf("detector %q: %w", d.Name, err)
	}

	p := inv.Apply(geom.FromR3(origin, 1))
	v := inv.Apply(geom.FromR3(dir, 0))
	if math.Abs(v.X) < planeEps {
		return nil, fmt.Errorf("detector %q: %w", d.Name, ErrNoIntersection)
	}

	s := -p.X / v.X
	local := p.Vec3().Add(v.Vec3().Mul(s))
	return &Hit{
		Pixel: Pixel{Fast: local.Y, Slow: local.Z},
		Lab:   origin.Add(dir.Mul(s)),
		S:     s,
	}, nil
}
