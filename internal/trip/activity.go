package trip

import (
	"time"

	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
)

// Activity is a contiguous, single-duty-status interval. Activities tile
// the entire trip time axis from the first event to the last with no
// gaps; the scheduler fills working-period gaps with OFF_DUTY activities.
type Activity struct {
	Status      hos.DutyStatus
	Start       time.Time
	End         time.Time
	Description string
	Place       *geo.NamedPlace
}

// Hours returns the activity's duration in fractional hours.
func (a Activity) Hours() float64 {
	return a.End.Sub(a.Start).Hours()
}
