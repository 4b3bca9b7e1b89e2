// Package hos holds the immutable FMCSA property-carrying-driver
// Hours-of-Service policy constants the scheduler enforces.
package hos

// DutyStatus is one of the four statuses that partition every minute of
// every day.
type DutyStatus string

const (
	OffDuty          DutyStatus = "off_duty"
	SleeperBerth     DutyStatus = "sleeper_berth"
	Driving          DutyStatus = "driving"
	OnDutyNotDriving DutyStatus = "on_duty_not_driving"
)

// Rules is the policy table consumed by the scheduler. It is a struct,
// not package-level consts, so tests can construct alternate rule tables
// (e.g. a shortened cycle limit) without mutating shared state.
type Rules struct {
	DrivingLimitHours     float64 // max driving per on-duty window
	OnDutyWindowHours     float64 // max elapsed on-duty+driving span after a reset
	BreakAfterHours       float64 // cumulative driving since last qualifying break
	BreakDurationHours    float64
	OffDutyResetHours     float64 // consecutive off-duty/sleeper hours that reset daily counters
	CycleLimitHours       float64
	CycleWindowDays       int
	RestartDurationHours  float64 // consecutive off-duty hours that zero the cycle
	FuelIntervalMiles     float64
	PreTripHours          float64
	PostTripHours         float64
	PickupHours           float64
	DropoffHours          float64
	FuelingHours          float64
}

// Default is the FMCSA property-carrying driver rule table.
var Default = Rules{
	DrivingLimitHours:    11,
	OnDutyWindowHours:    14,
	BreakAfterHours:      8,
	BreakDurationHours:   0.5,
	OffDutyResetHours:    10,
	CycleLimitHours:      70,
	CycleWindowDays:      8,
	RestartDurationHours: 34,
	FuelIntervalMiles:    1000,
	PreTripHours:         0.5,
	PostTripHours:        0.5,
	PickupHours:          1.0,
	DropoffHours:         1.0,
	FuelingHours:         0.5,
}
