// Package tzapprox resolves an approximate UTC-offset time zone for a
// coordinate. No offline timezone-from-coordinate library was present in
// the reference corpus this service was built from, so this is the single
// standard-library-only concern in the module (see DESIGN.md). It buckets
// longitude into 15-degree-wide UTC-offset slices and returns a fixed
// zone — good enough to pin DailyLedger day boundaries deterministically,
// but not a substitute for a real IANA lookup.
package tzapprox

import (
	"fmt"
	"time"

	"github.com/saan-system/hos-trip-service/internal/geo"
)

// Resolve returns a *time.Location with a fixed offset approximating the
// local civil time at c.
func Resolve(c geo.Coordinate) *time.Location {
	offsetHours := int(roundToNearest(c.Lng/15.0, 1))
	if offsetHours > 14 {
		offsetHours = 14
	}
	if offsetHours < -12 {
		offsetHours = -12
	}
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return time.FixedZone(name, offsetHours*3600)
}

func roundToNearest(v, step float64) float64 {
	if v >= 0 {
		return float64(int(v/step+0.5)) * step
	}
	return -float64(int(-v/step+0.5)) * step
}
