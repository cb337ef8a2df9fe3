/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing beamline descriptions.

It allows developers to define positioner stacks and detector mounts using a
type-safe, fluent builder pattern instead of relying on external YAML files.
This is particularly useful for generated geometries, unit testing, and
leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/jonwright/grewgg/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Instrument("Positioners/diffractometer").
			Rotation("omega", 0, 0, 1).
			Translation("samtx", 1, 0, 0).At(0)

		b.Instrument("Positioners/detector_arm").
			Rotation("tth", 0, 0, 1).At(0).
			Translation("distance", 1, 0, 0).At(150)

		b.Detector("frelon", "detector_arm")

		// The resulting beamline can be passed to grewgg.New via WithBeamline.
		beamline, err := b.Build()
		// ...
	}
*/
package dsl
