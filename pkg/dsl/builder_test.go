package dsl

import (
	"testing"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg/pkg/schema"
)

func TestBuilder_SimpleBeamline(t *testing.T) {
	// 1. Build the beamline using DSL
	b := New()

	b.Instrument("Positioners/diffractometer").
		Rotation("omega", 0, 0, 1).
		Translation("samtx", 1, 0, 0).At(0)

	b.Instrument("Positioners/detector_arm").
		Rotation("tth", 0, 0, 1).At(0).
		Translation("distance", 1, 0, 0).At(150)

	b.Detector("frelon", "detector_arm")

	// 2. Compile to a validated beamline
	beamline, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify the diffractometer records
	recs, ok := beamline.Instruments["Positioners/diffractometer"]
	if !ok {
		t.Fatal("Expected instrument 'Positioners/diffractometer'")
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 axes, got %d", len(recs))
	}
	if recs[0].Name != "omega" || recs[0].Type != "rotation" {
		t.Errorf("Expected outermost axis omega/rotation, got %s/%s", recs[0].Name, recs[0].Type)
	}
	if recs[0].Pos != nil {
		t.Error("Expected omega to have no default position")
	}
	if recs[1].Pos == nil || *recs[1].Pos != 0 {
		t.Errorf("Expected samtx default 0, got %v", recs[1].Pos)
	}

	// 4. The built description resolves to working stacks
	stack, err := beamline.Stack("detector_arm")
	if err != nil {
		t.Fatalf("Stack('detector_arm') failed: %v", err)
	}
	motors := stack.Motors()
	if len(motors) != 2 || motors[0] != "tth" || motors[1] != "distance" {
		t.Errorf("Expected motors [tth distance], got %v", motors)
	}

	tf, err := stack.Compose(nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	p := tf.ApplyPoint(r3.Vector{})
	if p.X != 150 || p.Y != 0 || p.Z != 0 {
		t.Errorf("Expected detector arm tip at (150,0,0), got %v", p)
	}
}

func TestBuilder_ParametersResolveFixedCells(t *testing.T) {
	b := New()
	b.Parameter("shift", 5)
	b.Instrument("table").Fixed("pedestal", [4][4]any{
		{1, 0, 0, "shift"},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})

	beamline, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	stack, err := beamline.Stack("table")
	if err != nil {
		t.Fatalf("Stack('table') failed: %v", err)
	}
	tf, err := stack.Compose(nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if p := tf.ApplyPoint(r3.Vector{}); p.X != 5 {
		t.Errorf("Expected parameter-driven shift of 5, got %v", p)
	}
}

func TestBuilder_InstrumentReturnsExisting(t *testing.T) {
	b := New()
	b.Instrument("arm").Rotation("tth", 0, 0, 1)
	b.Instrument("arm").Translation("distance", 1, 0, 0)

	if got := len(b.Instrument("arm").Records()); got != 2 {
		t.Errorf("Expected both axes on the same stack, got %d", got)
	}
}

func TestBuilder_ValidatesOnBuild(t *testing.T) {
	cases := map[string]func() *Builder{
		"detector on unknown stack": func() *Builder {
			b := New()
			b.Instrument("arm").Translation("distance", 1, 0, 0).At(100)
			b.Detector("frelon", "ghost")
			return b
		},
		"unresolved mat4 symbol": func() *Builder {
			b := New()
			b.Instrument("table").Fixed("pedestal", [4][4]any{
				{1, 0, 0, "missing"},
				{0, 1, 0, 0},
				{0, 0, 1, 0},
				{0, 0, 0, 1},
			})
			return b
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := build().Build()
			if err == nil {
				t.Fatal("Expected Build() to fail")
			}
			if issues := schema.ValidationErrors(err); len(issues) != 1 {
				t.Errorf("Expected 1 validation issue, got %v", issues)
			}
		})
	}
}
