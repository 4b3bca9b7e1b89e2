// Package geocode turns an address string into a geo.NamedPlace.
package geocode

import (
	"context"

	"github.com/saan-system/hos-trip-service/internal/geo"
)

// Geocoder resolves an address to its canonical NamedPlace. Implementations
// must be safe for concurrent use.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.NamedPlace, error)
	// Search returns up to limit candidate matches for the `GET /geocode`
	// passthrough.
	Search(ctx context.Context, address string, limit int) ([]geo.NamedPlace, error)
}
