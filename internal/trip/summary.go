package trip

import "time"

// Summary is the aggregate totals computed for a trip.
type Summary struct {
	TotalDistanceMiles   float64        `json:"total_distance_miles"`
	TotalDrivingHours    float64        `json:"total_driving_hours"`
	TotalDays            int            `json:"total_days"`
	CycleHoursUsed       float64        `json:"cycle_hours_used"`
	CycleHoursRemaining  float64        `json:"cycle_hours_remaining"`
	StopKindCounts       map[StopKind]int `json:"stop_kind_counts"`
	StartTime            time.Time      `json:"start_time"`
	EndTime              time.Time      `json:"end_time"`
}
