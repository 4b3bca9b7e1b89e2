package trip

import (
	"math"
	"time"
)

// roundMinutesTiesToEven implements the single rounding rule used for
// every minute computation in the module: round to the nearest minute,
// ties to even.
func roundMinutesTiesToEven(d time.Duration) int {
	minutes := d.Minutes()
	return int(math.RoundToEven(minutes))
}
