// Package routing turns an origin/destination NamedPlace pair into a
// routed Segment (distance, duration, polyline).
package routing

import (
	"context"

	"github.com/saan-system/hos-trip-service/internal/geo"
)

// Segment describes one routed leg between two named places.
type Segment struct {
	Origin        geo.NamedPlace `json:"from"`
	Destination   geo.NamedPlace `json:"to"`
	DistanceMiles float64        `json:"distance_miles"`
	DurationHours float64        `json:"duration_hours"`
	Polyline      string         `json:"-"`
}

// AverageSpeedMPH returns the segment's implied average speed, used by the
// scheduler to convert driven hours back into driven miles. Always derived
// per-segment, never a fixed constant.
func (s Segment) AverageSpeedMPH() float64 {
	if s.DurationHours <= 0 {
		return 0
	}
	return s.DistanceMiles / s.DurationHours
}

// Router resolves a routed Segment between two places. Implementations
// must be safe for concurrent use.
type Router interface {
	Route(ctx context.Context, origin, destination geo.NamedPlace) (Segment, error)
}
