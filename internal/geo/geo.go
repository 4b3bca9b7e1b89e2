// Package geo holds the coordinate and named-place value types shared by
// the geocoder, router, rest-stop locator, and scheduler.
package geo

import (
	"fmt"
	"math"
)

// Coordinate is a decimal-degree lat/lng pair, rendered with six
// fractional digits (~11cm precision) to match the persisted response
// layout.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Round returns c with both fields rounded to six fractional digits.
func (c Coordinate) Round() Coordinate {
	const p = 1e6
	return Coordinate{
		Lat: math.Round(c.Lat*p) / p,
		Lng: math.Round(c.Lng*p) / p,
	}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// NamedPlace is an address string resolved to coordinates plus a canonical
// display name. Immutable once constructed.
type NamedPlace struct {
	Address     string     `json:"address"`
	DisplayName string     `json:"display_name"`
	Coordinate  Coordinate `json:"coordinates"`
}

// NewNamedPlace constructs an immutable NamedPlace with rounded coordinates.
func NewNamedPlace(address, displayName string, coordinate Coordinate) NamedPlace {
	return NamedPlace{
		Address:     address,
		DisplayName: displayName,
		Coordinate:  coordinate.Round(),
	}
}

const earthRadiusMiles = 3958.8

// HaversineMiles returns the great-circle distance between a and b in
// miles, used by the scheduler to interpolate position along a route.
func HaversineMiles(a, b Coordinate) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Lerp linearly interpolates between a and b at fraction t in [0,1]. Used
// as a straight-line fallback when no polyline is available.
func Lerp(a, b Coordinate, t float64) Coordinate {
	return Coordinate{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// InterpolateAlongPath walks an ordered coordinate path and returns the
// point at fraction t in [0,1] of its total great-circle length. Falls
// back to a straight line between the path endpoints if the path has
// fewer than two points.
func InterpolateAlongPath(path []Coordinate, t float64) Coordinate {
	if t <= 0 && len(path) > 0 {
		return path[0]
	}
	if len(path) < 2 {
		return Coordinate{}
	}
	if t >= 1 {
		return path[len(path)-1]
	}

	total := 0.0
	lengths := make([]float64, len(path)-1)
	for i := range lengths {
		lengths[i] = HaversineMiles(path[i], path[i+1])
		total += lengths[i]
	}
	if total == 0 {
		return path[0]
	}

	target := total * t
	covered := 0.0
	for i, segLen := range lengths {
		if covered+segLen >= target || i == len(lengths)-1 {
			remaining := target - covered
			frac := 0.0
			if segLen > 0 {
				frac = remaining / segLen
			}
			return Lerp(path[i], path[i+1], frac)
		}
		covered += segLen
	}
	return path[len(path)-1]
}
