package detector

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/mitchellh/mapstructure"

	"github.com/jonwright/grewgg/pkg/geom"
	"github.com/jonwright/grewgg/pkg/positioner"
)

// Calibration is the flat fable-style detector parameter set. Tilts are in
// radians (the parfile convention); everything else uses lab units. The
// o-matrix elements describe the in-plane flip/swap between pixel axes and
// lab axes.
type Calibration struct {
	Distance float64 `mapstructure:"distance"`
	TiltX    float64 `mapstructure:"tilt_x"`
	TiltY    float64 `mapstructure:"tilt_y"`
	TiltZ    float64 `mapstructure:"tilt_z"`
	O11      float64 `mapstructure:"o11"`
	O12      float64 `mapstructure:"o12"`
	O21      float64 `mapstructure:"o21"`
	O22      float64 `mapstructure:"o22"`
	YSize    float64 `mapstructure:"y_size"`
	ZSize    float64 `mapstructure:"z_size"`
	YCenter  float64 `mapstructure:"y_center"`
	ZCenter  float64 `mapstructure:"z_center"`
}

// CalibrationFromParams decodes a flat parameter map, such as one read from
// a fable .par file, into a Calibration. Keys the struct does not name are
// ignored; par files carry plenty beyond the detector geometry.
func CalibrationFromParams(params map[string]float64) (Calibration, error) {
	var c Calibration
	if err := mapstructure.Decode(params, &c); err != nil {
		return Calibration{}, fmt.Errorf("failed to decode calibration: %w", err)
	}
	return c, nil
}

// FromCalibration builds the detector with its nine-axis mount stack,
// outermost first: the distance translation along x, the three tilts, the
// literal o-matrix, the pixel-size scales and the beam-center translations.
// A pixel is first shifted by the centers, scaled to lab units, flipped,
// tilted and finally pushed out to the detector distance. Tilt angles are
// converted from radians to degrees here; every other rotation in the
// system is configured in degrees already.
func FromCalibration(name string, c Calibration) *Detector {
	o := geom.FromRows([4][4]float64{
		{1, 0, 0, 0},
		{0, c.O22, c.O21, 0},
		{0, c.O12, c.O11, 0},
		{0, 0, 0, 1},
	})
	mount := positioner.NewStack(name,
		positioner.NewTranslation("distance", r3.Vector{X: 1}, c.Distance),
		positioner.NewRotation("tilt_x", r3.Vector{X: 1}, geom.Degrees(c.TiltX)),
		positioner.NewRotation("tilt_y", r3.Vector{Y: 1}, geom.Degrees(c.TiltY)),
		positioner.NewRotation("tilt_z", r3.Vector{Z: 1}, geom.Degrees(c.TiltZ)),
		positioner.NewFixed("Oij", o),
		positioner.NewScale("z_size", r3.Vector{Z: 1}, c.ZSize),
		positioner.NewScale("y_size", r3.Vector{Y: 1}, c.YSize),
		positioner.NewTranslation("z_center", r3.Vector{Z: -1}, c.ZCenter),
		positioner.NewTranslation("y_center", r3.Vector{Y: -1}, c.YCenter),
	)
	return New(name, mount)
}
