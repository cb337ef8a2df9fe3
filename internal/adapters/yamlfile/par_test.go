package yamlfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwright/grewgg/pkg/detector"
)

func TestLoadPar(t *testing.T) {
	params, err := LoadPar(filepath.Join("testdata", "test0.par"))
	require.NoError(t, err)

	assert.Equal(t, 96868.5, params["distance"])
	assert.Equal(t, 0.011753, params["tilt_y"])
	assert.Equal(t, -1.0, params["o22"])
	assert.Equal(t, 1071.178, params["y_center"])

	// Free-text entries are not calibration values.
	_, ok := params["spline"]
	assert.False(t, ok)
}

func TestLoadPar_FeedsCalibration(t *testing.T) {
	params, err := LoadPar(filepath.Join("testdata", "test0.par"))
	require.NoError(t, err)

	cal, err := detector.CalibrationFromParams(params)
	require.NoError(t, err)
	assert.Equal(t, 96868.5, cal.Distance)
	assert.Equal(t, 0.004696, cal.TiltZ)
	assert.Equal(t, -1.0, cal.O22)
	assert.Equal(t, 48.0815, cal.ZSize)
}

func TestLoadPar_MissingFile(t *testing.T) {
	_, err := LoadPar(filepath.Join("testdata", "no-such.par"))
	require.Error(t, err)
}

func TestParsePar(t *testing.T) {
	data := []byte(`
# comment line
distance 100.5
lonely
name_only_with_text some free text
y_center 1024
`)
	params := ParsePar(data)
	assert.Equal(t, map[string]float64{
		"distance": 100.5,
		"y_center": 1024,
	}, params)
}
