package report_test

import (
	"strings"
	"testing"

	"github.com/jonwright/grewgg/internal/presentation/report"
	"github.com/jonwright/grewgg/pkg/schema"
)

func pos(v float64) *float64 { return &v }

func TestMarkdown(t *testing.T) {
	b := &schema.Beamline{
		Instruments: map[string][]schema.AxisRecord{
			"Positioners/arm": {
				{Name: "distance", Type: "translation", Axis: []float64{1, 0, 0}, Pos: pos(100)},
				{Name: "omega", Type: "rotation", Axis: []float64{0, 0, 1}},
				{Name: "flip", Type: "positioner"},
			},
		},
		Detectors: map[string]schema.DetectorRecord{
			"frelon": {Stack: "Positioners/arm", Distortion: "frelon4m.spline"},
			"eiger":  {Calibration: map[string]float64{"distance": 150}},
		},
		Parameters: map[string]float64{"o22": -1},
	}

	out := report.Markdown("fable", b)

	for _, want := range []string{
		"# Beamline `fable`",
		"### Positioners/arm",
		"| 0 | distance | translation | (1, 0, 0) | 100 |",
		"| 1 | omega | rotation | (0, 0, 1) | motor |",
		"| 2 | flip | positioner | mat4 | - |",
		"| frelon | Positioners/arm | frelon4m.spline |",
		"| eiger | inline fable calibration | - |",
		"| o22 | -1 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdown_EmptySectionsOmitted(t *testing.T) {
	out := report.Markdown("", &schema.Beamline{})

	if !strings.HasPrefix(out, "# Beamline\n") {
		t.Errorf("unexpected title: %q", out)
	}
	for _, absent := range []string{"## Instruments", "## Detectors", "## Parameters"} {
		if strings.Contains(out, absent) {
			t.Errorf("empty report should omit %q:\n%s", absent, out)
		}
	}
}
