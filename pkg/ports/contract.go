package ports

import (
	"context"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/scan"
)

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	scanID := "contract-scan-" + time.Now().Format("20060102150405")

	hit := scan.Result{
		Frame: 3,
		Motor: "omega",
		Value: 0.3,
		Pixel: &detector.Pixel{Fast: 1034.5, Slow: 998.25},
		Lab:   &r3.Vector{X: 136.9, Y: 0.5, Z: -1.25},
		S:     1.0,
	}
	miss := scan.Result{Frame: 7, Motor: "omega", Value: 0.7, Miss: true}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, scanID, hit))

		loaded, err := store.Load(ctx, scanID, hit.Frame)
		require.NoError(t, err)
		assert.Equal(t, hit.Frame, loaded.Frame)
		assert.Equal(t, hit.Motor, loaded.Motor)
		assert.InDelta(t, hit.Value, loaded.Value, 1e-12)
		require.NotNil(t, loaded.Pixel)
		assert.InDelta(t, hit.Pixel.Fast, loaded.Pixel.Fast, 1e-12)
		assert.InDelta(t, hit.Pixel.Slow, loaded.Pixel.Slow, 1e-12)
		require.NotNil(t, loaded.Lab)
		assert.InDelta(t, hit.Lab.X, loaded.Lab.X, 1e-12)
		assert.False(t, loaded.Miss)
	})

	t.Run("Miss Round-Trips", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, scanID, miss))

		loaded, err := store.Load(ctx, scanID, miss.Frame)
		require.NoError(t, err)
		assert.True(t, loaded.Miss)
		assert.Nil(t, loaded.Pixel)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, scanID, 9999)
		assert.ErrorIs(t, err, ErrResultNotFound)

		_, err = store.Load(ctx, "no-such-"+scanID, 0)
		assert.ErrorIs(t, err, ErrResultNotFound)
	})

	t.Run("Frames Sorted", func(t *testing.T) {
		frames, err := store.Frames(ctx, scanID)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 7}, frames)
	})

	t.Run("Frames Of Unknown Scan", func(t *testing.T) {
		frames, err := store.Frames(ctx, "no-such-"+scanID)
		require.NoError(t, err)
		assert.Empty(t, frames)
	})

	t.Run("Overwrite Frame", func(t *testing.T) {
		changed := hit
		changed.Value = 42
		require.NoError(t, store.Save(ctx, scanID, changed))

		loaded, err := store.Load(ctx, scanID, hit.Frame)
		require.NoError(t, err)
		assert.InDelta(t, 42.0, loaded.Value, 1e-12)

		frames, err := store.Frames(ctx, scanID)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 7}, frames)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, scanID))

		_, err := store.Load(ctx, scanID, hit.Frame)
		assert.ErrorIs(t, err, ErrResultNotFound)

		frames, err := store.Frames(ctx, scanID)
		require.NoError(t, err)
		assert.Empty(t, frames)

		// deleting again is fine
		assert.NoError(t, store.Delete(ctx, scanID))
	})
}
