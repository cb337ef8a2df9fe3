package grewgg_test

import (
	"context"
	"fmt"
	"log"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/pkg/schema"
)

// ExampleNew_beamline demonstrates building a detector mount in code instead
// of loading a YAML file. This is useful for tests, embedded scenarios, or
// when the geometry comes from another configuration system.
func ExampleNew_beamline() {
	pos := func(v float64) *float64 { return &v }

	// 1. Describe the instrument: a single translation along the beam, so
	// the detector plane sits 150 units downstream.
	beamline := &schema.Beamline{
		Instruments: map[string][]schema.AxisRecord{
			"arm": {
				{Name: "distance", Type: "translation", Axis: []float64{1, 0, 0}, Pos: pos(150)},
			},
		},
		Detectors: map[string]schema.DetectorRecord{
			"flat": {Stack: "arm"},
		},
	}

	// 2. Initialize the model with the in-code document.
	// Note: the path stays empty ("") because we are providing a beamline.
	model, err := grewgg.New("", grewgg.WithBeamline(beamline))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Trace the direct beam from the origin onto the detector.
	hit, err := model.Trace(context.Background(), "flat", nil, r3.Vector{}, r3.Vector{X: 1})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("s=%.0f pixel=(%.0f, %.0f)\n", hit.S, hit.Pixel.Fast, hit.Pixel.Slow)
	// Output: s=150 pixel=(0, 0)
}
