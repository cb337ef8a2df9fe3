package ports

import (
	"context"

	"github.com/jonwright/grewgg/pkg/schema"
)

// Source defines how the model retrieves its beamline description.
// This keeps the configuration backend (YAML file, embedded document, test
// fixture) decoupled from the geometry core.
type Source interface {
	// Beamline returns the parsed beamline document.
	Beamline(ctx context.Context) (*schema.Beamline, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) (*schema.Beamline, error)

func (f SourceFunc) Beamline(ctx context.Context) (*schema.Beamline, error) {
	return f(ctx)
}
