package trip

import (
	"time"

	"github.com/saan-system/hos-trip-service/internal/hos"
)

// LedgerEntry is one duty-status span within a single calendar day,
// clipped to the day's [00:00, 24:00) boundary.
type LedgerEntry struct {
	Status   hos.DutyStatus `json:"status"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Location string         `json:"location"`
	Activity string         `json:"activity,omitempty"`
}

// Remark is one remarks-column entry: a clock time, a location, and the
// activity description that triggered it.
type Remark struct {
	Time     time.Time `json:"time"`
	Location string    `json:"location"`
	Activity string    `json:"activity"`
}

// HourTotals are the four duty-status totals for one calendar day. They
// must sum to exactly 24.00 +/- 1 minute.
type HourTotals struct {
	OffDutyHours      float64 `json:"off_duty"`
	SleeperHours      float64 `json:"sleeper_berth"`
	DrivingHours      float64 `json:"driving"`
	OnDutyHours       float64 `json:"on_duty"`
}

// Sum returns the total of the four buckets.
func (h HourTotals) Sum() float64 {
	return h.OffDutyHours + h.SleeperHours + h.DrivingHours + h.OnDutyHours
}

// DailyLedger is one calendar day's duty-status accounting.
type DailyLedger struct {
	Date         time.Time     `json:"date"`
	DayNumber    int           `json:"day"`
	Timezone     string        `json:"timezone"`
	StartLocation string       `json:"start_location"`
	EndLocation  string        `json:"end_location"`
	TotalMiles   float64       `json:"total_miles"`
	Hours        HourTotals    `json:"hours"`
	Entries      []LedgerEntry `json:"entries"`
	Remarks      []Remark      `json:"remarks"`
}
