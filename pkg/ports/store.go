package ports

import (
	"context"
	"errors"

	"github.com/jonwright/grewgg/pkg/scan"
)

// ErrResultNotFound reports a frame that was never stored (or was deleted).
var ErrResultNotFound = errors.New("scan result not found")

// ResultStore defines the interface for persisting evaluated sweep frames.
// Results are keyed by a caller-chosen scan ID plus the frame number carried
// in the result itself.
type ResultStore interface {
	// Save persists one frame of a scan.
	Save(ctx context.Context, scanID string, r scan.Result) error

	// Load retrieves one frame. Returns ErrResultNotFound if the frame was
	// never stored.
	Load(ctx context.Context, scanID string, frame int) (*scan.Result, error)

	// Frames lists the stored frame numbers of a scan in ascending order.
	// A scan with no frames yields an empty slice, not an error.
	Frames(ctx context.Context, scanID string) ([]int, error)

	// Delete removes every frame of a scan. Deleting an unknown scan is not
	// an error.
	Delete(ctx context.Context, scanID string) error
}
