// Package scan provides the per-step bookkeeping of a scan: a series turns a
// motor name, start value and step increment into one motor-value set per
// frame, and a result records where each frame's beam landed.
package scan

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/positioner"
)

// ErrInvalidSeries reports a series that cannot produce frames.
var ErrInvalidSeries = errors.New("invalid scan series")

// Series describes one single-motor scan: frame i puts the motor at
// Start + i*Step. Units follow the motor's axis: degrees for rotations.
type Series struct {
	Motor  string  `mapstructure:"motor" yaml:"motor" json:"motor"`
	Start  float64 `mapstructure:"start" yaml:"start" json:"start"`
	Step   float64 `mapstructure:"step" yaml:"step" json:"step"`
	Frames int     `mapstructure:"frames" yaml:"frames" json:"frames"`
}

// Validate checks the series can produce at least one frame.
func (s Series) Validate() error {
	if s.Motor == "" {
		return fmt.Errorf("%w: motor name is required", ErrInvalidSeries)
	}
	if s.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidSeries, s.Frames)
	}
	return nil
}

// Position returns the motor position at frame i.
func (s Series) Position(i int) float64 {
	return s.Start + float64(i)*s.Step
}

// Values layers frame i's motor position over base. The base set is never
// mutated; steps stay independent so they can be evaluated in parallel.
func (s Series) Values(base positioner.Values, i int) positioner.Values {
	return base.With(s.Motor, s.Position(i))
}

// Result is one evaluated sweep frame. A miss (beam parallel to the
// detector plane) is data, not an error.
type Result struct {
	Frame int     `json:"frame"`
	Motor string  `json:"motor"`
	Value float64 `json:"value"`
	Miss  bool    `json:"miss"`

	// Pixel and Lab are set when the beam hit the detector plane.
	Pixel *detector.Pixel `json:"pixel,omitempty"`
	Lab   *r3.Vector      `json:"lab,omitempty"`
	// S is the ray parameter at the hit; negative means behind the source.
	S float64 `json:"s,omitempty"`
}

// Summary reports a finished sweep.
type Summary struct {
	ScanID  string        `json:"scan_id"`
	Frames  int           `json:"frames"`
	Hits    int           `json:"hits"`
	Misses  int           `json:"misses"`
	Elapsed time.Duration `json:"elapsed"`
}
