/*
Package grewgg models beamline positioner stacks as chains of 4x4
homogeneous transforms and uses them to map between detector pixels and
the laboratory frame.

# Concept

A beamline instrument is a stack of motorized axes: translations,
rotations and scales, plus fixed alignment matrices. Each axis
contributes one homogeneous transform; composing the stack at a given
set of motor values yields the instrument's lab-frame pose. A detector
is such a stack with the fable pixel convention attached: pixel
(fast, slow) enters the stack as the local vector (0, fast, slow), so
the detector plane is the image of the local x=0 plane.

Stacks are described in YAML documents. Axis entries carry a name, a
type, a direction and an optional default position; rotation values are
in degrees. A Parameters block holds calibration values that resolve
symbolic matrix cells and stand in for motor values, so one document
serves many calibrations.

# Key Features

  - Declarative beamline descriptions with nested positioner groups
  - Fable detector convention, including ImageD11 .par calibrations
  - Pixel to lab mapping and ray/detector intersection
  - Parallel scan sweeps with pluggable result stores
  - Eager validation that reports every configuration problem at once

# Usage

	model, err := grewgg.New("fable.yml",
		grewgg.WithParameters(pars),
	)
	if err != nil {
		log.Fatal(err)
	}

	hit, err := model.Trace(ctx, "frelon",
		grewgg.Values{"omega": 42.0},
		r3.Vector{},              // ray origin
		r3.Vector{X: 1, Y: 0.1}, // ray direction
	)

Sub-packages under pkg expose the layers the facade is built from:
geom for the transform algebra, positioner for axis stacks, detector
for the pixel frame, schema for the document model, dsl for building
documents in code and scan for series planning. Services that only
need tracing embed the Model behind the small interfaces in pkg/ports.
*/
package grewgg
