package mcp

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/pkg/geom"
	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/schema"
)

// testServer wraps a real model with a single-translation detector mount so
// the tool handlers run against actual geometry.
func testServer(t *testing.T) *Server {
	t.Helper()
	pos := 150.0
	beamline := &schema.Beamline{
		Instruments: map[string][]schema.AxisRecord{
			"arm": {
				{Name: "distance", Type: "translation", Axis: []float64{1, 0, 0}, Pos: &pos},
			},
		},
		Detectors: map[string]schema.DetectorRecord{
			"flat": {Stack: "arm"},
		},
	}
	model, err := grewgg.New("", grewgg.WithBeamline(beamline))
	require.NoError(t, err)
	return NewServer(model)
}

func TestHandleTrace_Hit(t *testing.T) {
	srv := testServer(t)

	result, err := srv.handleTrace(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"detector": "flat",
	})
	require.NoError(t, err)

	assert.False(t, result.Miss)
	assert.InDelta(t, 0, result.Fast, 1e-9)
	assert.InDelta(t, 0, result.Slow, 1e-9)
	require.Len(t, result.Lab, 3)
	assert.InDelta(t, 150, result.Lab[0], 1e-9)
	assert.InDelta(t, 150, result.S, 1e-9)
}

func TestHandleTrace_MotorsOverrideDefaults(t *testing.T) {
	srv := testServer(t)

	result, err := srv.handleTrace(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"detector": "flat",
		"motors":   `{"distance": 400}`,
	})
	require.NoError(t, err)
	assert.InDelta(t, 400, result.S, 1e-9)
}

func TestHandleTrace_MissIsValidOutcome(t *testing.T) {
	srv := testServer(t)

	result, err := srv.handleTrace(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"detector": "flat",
		"dir":      `[0, 1, 0]`,
	})
	require.NoError(t, err)
	assert.True(t, result.Miss)
	assert.Empty(t, result.Lab)
}

func TestHandleTrace_BadArguments(t *testing.T) {
	srv := testServer(t)

	for name, args := range map[string]map[string]interface{}{
		"malformed motors": {"detector": "flat", "motors": `not json`},
		"short origin":     {"detector": "flat", "origin": `[1, 2]`},
		"unknown detector": {"detector": "ghost"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := srv.handleTrace(context.Background(), mcp.CallToolRequest{}, args)
			assert.Error(t, err)
		})
	}
}

func TestHandlePixelToLab(t *testing.T) {
	srv := testServer(t)

	result, err := srv.handlePixelToLab(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"detector": "flat",
		"fast":     float64(0),
		"slow":     float64(0),
	})
	require.NoError(t, err)

	require.Len(t, result.Lab, 3)
	assert.InDelta(t, 150, result.Lab[0], 1e-9)
	assert.InDelta(t, 0, result.Lab[1], 1e-9)
	assert.InDelta(t, 0, result.Lab[2], 1e-9)
}

func TestSummarizeStacks(t *testing.T) {
	stacks := map[string]*positioner.Stack{
		"Positioners/tower": positioner.NewStack("Positioners/tower",
			positioner.NewRotation("omega", r3.Vector{Z: 1}, 0),
			positioner.NewFixed("flip", geom.Identity()),
		),
		"Positioners/arm": positioner.NewStack("Positioners/arm",
			positioner.NewTranslation("distance", r3.Vector{X: 1}, 100),
		),
	}

	out := summarizeStacks(stacks)
	require.Len(t, out, 2)

	// Sorted by path for stable output.
	assert.Equal(t, "Positioners/arm", out[0].Path)
	assert.Equal(t, "Positioners/tower", out[1].Path)

	assert.Equal(t, []string{"distance"}, out[0].Motors)
	assert.Equal(t, []string{"omega (rotation)", "flip (positioner)"}, out[1].Axes)
}
