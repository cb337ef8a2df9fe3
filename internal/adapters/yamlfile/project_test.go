package yamlfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwright/grewgg/pkg/scan"
)

func TestProjectRoundTrip(t *testing.T) {
	p := &Project{
		Instrument: "fable.yml",
		Parameters: map[string]float64{"wavelength": 0.2952},
		Scans: []scan.Series{
			{Motor: "omega", Start: -90, Step: 0.25, Frames: 720},
		},
	}

	path := filepath.Join(t.TempDir(), "project.yml")
	require.NoError(t, p.Save(path))

	loaded, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadProject(t *testing.T) {
	doc := []byte(`
instrument: beamline/fable.yml
parameters:
  wavelength: 0.2952
  omegasign: 1
scans:
  - motor: omega
    start: 0
    step: 0.5
    frames: 360
  - motor: diffty
    start: -1.5
    step: 0.01
    frames: 300
`)
	path := filepath.Join(t.TempDir(), "project.yml")
	require.NoError(t, os.WriteFile(path, doc, 0644))

	p, err := LoadProject(path)
	require.NoError(t, err)

	assert.Equal(t, "beamline/fable.yml", p.Instrument)
	assert.Equal(t, 1.0, p.Parameters["omegasign"])
	require.Len(t, p.Scans, 2)
	assert.Equal(t, "diffty", p.Scans[1].Motor)
	assert.Equal(t, 300, p.Scans[1].Frames)
	require.NoError(t, p.Scans[0].Validate())
}

func TestLoadProject_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yml")
	require.NoError(t, os.WriteFile(path, []byte("scans: {"), 0644))

	_, err := LoadProject(path)
	require.Error(t, err)
}

func TestProjectString(t *testing.T) {
	p := &Project{Instrument: "fable.yml"}
	assert.Contains(t, p.String(), "instrument: fable.yml")
}
