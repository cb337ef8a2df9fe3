package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwright/grewgg/pkg/detector"
)

func testBeamline() *Beamline {
	return &Beamline{
		Instruments: map[string][]AxisRecord{
			"Positioners/sample": {
				{Name: "omega", Type: "rotation", Axis: []float64{0, 0, 1}},
				{Name: "samtx", Type: "translation", Axis: []float64{1, 0, 0}, Pos: floatPtr(0)},
			},
			"Positioners/detector_arm": {
				{Name: "distance", Type: "translation", Axis: []float64{1, 0, 0}, Pos: floatPtr(100)},
			},
		},
		Detectors: map[string]DetectorRecord{
			"frelon": {
				Calibration: map[string]float64{
					"distance": 100, "o11": 1, "o22": 1,
					"y_size": 0.048, "z_size": 0.048,
					"y_center": 1024, "z_center": 1024,
				},
				Flood: "flood.edf",
			},
			"mounted": {Stack: "detector_arm"},
		},
	}
}

func TestStackLookupByTerminalName(t *testing.T) {
	b := testBeamline()

	s, err := b.Stack("sample")
	require.NoError(t, err)
	assert.Equal(t, "Positioners/sample", s.Name)
	assert.Equal(t, []string{"omega", "samtx"}, s.Motors())
}

func TestStackLookupByFullPath(t *testing.T) {
	b := testBeamline()
	s, err := b.Stack("Positioners/sample")
	require.NoError(t, err)
	assert.Len(t, s.Axes, 2)
}

func TestStackLookupUnknown(t *testing.T) {
	b := testBeamline()
	_, err := b.Stack("nope")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestStackLookupAmbiguous(t *testing.T) {
	b := testBeamline()
	b.Instruments["Others/sample"] = []AxisRecord{
		{Name: "x", Type: "translation", Axis: []float64{1, 0, 0}, Pos: floatPtr(0)},
	}

	_, err := b.Stack("sample")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestStackAggregatesRecordErrors(t *testing.T) {
	b := &Beamline{Instruments: map[string][]AxisRecord{
		"bad": {
			{Name: "a", Type: "warp", Axis: []float64{1, 0, 0}},
			{Name: "b", Type: "rotation", Axis: []float64{1}},
		},
	}}

	_, err := b.Stack("bad")
	require.Error(t, err)
	assert.Len(t, ValidationErrors(err), 2)
}

func TestDetectorFromInlineCalibration(t *testing.T) {
	b := testBeamline()

	d, err := b.Detector("frelon")
	require.NoError(t, err)
	assert.Equal(t, "flood.edf", d.Flood)

	lab, err := d.PixelToLab(nil, detector.Pixel{Fast: 1024, Slow: 1024})
	require.NoError(t, err)
	assert.InDelta(t, 100, lab.X, 1e-9)
	assert.InDelta(t, 0, lab.Y, 1e-9)
}

func TestDetectorFromStackReference(t *testing.T) {
	b := testBeamline()

	d, err := b.Detector("mounted")
	require.NoError(t, err)
	m, err := d.Mount.Compose(nil)
	require.NoError(t, err)
	assert.InDelta(t, 100, m.TranslationPart().X, 1e-12)
}

func TestDetectorUnknown(t *testing.T) {
	b := testBeamline()
	_, err := b.Detector("pilatus")
	assert.ErrorIs(t, err, ErrUnknownDetector)
}

func TestDetectorRecordValidation(t *testing.T) {
	b := testBeamline()
	b.Detectors["both"] = DetectorRecord{Stack: "sample", Calibration: map[string]float64{"distance": 1}}
	b.Detectors["neither"] = DetectorRecord{}

	var ve *ValidationError
	_, err := b.Detector("both")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "mutually exclusive")

	_, err = b.Detector("neither")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "required")
}

func TestValidateAggregatesEverything(t *testing.T) {
	b := testBeamline()
	b.Instruments["broken"] = []AxisRecord{{Type: "rotation", Axis: []float64{0, 0, 1}}}
	b.Detectors["ghost"] = DetectorRecord{Stack: "missing"}

	err := b.Validate()
	require.Error(t, err)
	assert.GreaterOrEqual(t, len(ValidationErrors(err)), 2)
}

func TestValidateCleanDocument(t *testing.T) {
	assert.NoError(t, testBeamline().Validate())
}
