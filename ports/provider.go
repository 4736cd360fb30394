package ports

import (
	"context"

	"vegtrend/domain/core"
	"vegtrend/domain/raster"
)

// GridProvider is the external grid & mask collaborator: for each index it
// supplies dated grids and one inclusion mask of identical shape. Download,
// format parsing, and mask construction live behind this boundary.
type GridProvider interface {
	// Indices lists the vegetation indices available for analysis.
	Indices(ctx context.Context) ([]core.IndexKey, error)

	// Load materializes the full dated stack for one index.
	Load(ctx context.Context, key core.IndexKey) (*raster.Stack, error)
}
