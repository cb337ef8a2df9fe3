package grewgg_test

import (
	"context"
	"fmt"
	"log"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/pkg/dsl"
)

// ExampleNew_dsl demonstrates building a beamline with the fluent builder
// instead of raw schema structs, then swinging the detector arm with a motor
// override at trace time.
func ExampleNew_dsl() {
	// 1. Describe the instrument with the builder: a rotation about the
	// vertical axis carrying a translation down the arm.
	b := dsl.New()
	b.Instrument("arm").
		Rotation("tth", 0, 0, 1).At(0).
		Translation("distance", 1, 0, 0).At(500)
	b.Detector("diode", "arm")

	beamline, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize the model with the built document.
	model, err := grewgg.New("", grewgg.WithBeamline(beamline))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Trace the direct beam with the arm rotated to 30 degrees. The path
	// stretches to distance/cos(tth) and the spot walks along the fast axis.
	hit, err := model.Trace(context.Background(), "diode", grewgg.Values{"tth": 30}, r3.Vector{}, r3.Vector{X: 1})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("s=%.2f pixel=(%.2f, %.2f)\n", hit.S, hit.Pixel.Fast, hit.Pixel.Slow)
	// Output: s=577.35 pixel=(-288.68, 0.00)
}
