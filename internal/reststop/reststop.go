// Package reststop resolves a named truck-stop place near a point along
// the route. Failures are never fatal to the scheduler: callers fall back
// to a synthetic placeholder.
package reststop

import (
	"context"
	"fmt"

	"github.com/saan-system/hos-trip-service/internal/geo"
)

// StopKind distinguishes what kind of place is being looked up, since a
// fuel stop and an overnight rest-stop query different amenity tags.
type StopKind string

const (
	KindFuel StopKind = "fuel"
	KindRest StopKind = "rest"
)

// Locator resolves a plausible named place near coord.
type Locator interface {
	Locate(ctx context.Context, coord geo.Coordinate, kind StopKind) (geo.NamedPlace, error)
}

// Placeholder returns the synthetic fallback place used when the locator
// fails or returns nothing.
func Placeholder(coord geo.Coordinate) geo.NamedPlace {
	c := coord.Round()
	name := fmt.Sprintf("Rest Area near %s", c.String())
	return geo.NewNamedPlace(name, name, c)
}
