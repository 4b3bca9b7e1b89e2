// Package logprojector splits the scheduler's activity tiling at
// calendar-day boundaries, in a single fixed reference time zone, and
// produces one DailyLedger per day, with hour totals and a remarks list.
package logprojector

import (
	"fmt"
	"time"

	"github.com/saan-system/hos-trip-service/internal/apperr"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

// sumTolerance is the ±1 minute slack allowed on the 24h-per-day
// invariant.
const sumTolerance = 1.0 / 60.0

// Project splits activities into per-calendar-day ledgers in zone.
// totalDistanceMiles prorates each day's TotalMiles by its share of the
// trip's total driving hours.
func Project(activities []trip.Activity, zone *time.Location, totalDistanceMiles float64) ([]trip.DailyLedger, error) {
	if len(activities) == 0 {
		return nil, nil
	}

	start := activities[0].Start.In(zone)
	end := activities[len(activities)-1].End.In(zone)

	var days []trip.DailyLedger
	dayNumber := 0

	for dayStart := localMidnight(start); dayStart.Before(end); dayStart = dayStart.AddDate(0, 0, 1) {
		dayNumber++
		dayEnd := dayStart.AddDate(0, 0, 1)

		ledger, err := buildDay(activities, dayStart, dayEnd, dayNumber)
		if err != nil {
			return nil, err
		}
		days = append(days, ledger)
	}

	totalDrivingHours := 0.0
	for _, d := range days {
		totalDrivingHours += d.Hours.DrivingHours
	}
	if totalDrivingHours > 0 {
		for i := range days {
			days[i].TotalMiles = totalDistanceMiles * (days[i].Hours.DrivingHours / totalDrivingHours)
		}
	}

	return days, nil
}

func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// buildDay carves out the ledger entries, remarks, and hour totals for a
// single calendar day.
func buildDay(activities []trip.Activity, dayStart, dayEnd time.Time, dayNumber int) (trip.DailyLedger, error) {
	ledger := trip.DailyLedger{
		Date:      dayStart,
		DayNumber: dayNumber,
		Timezone:  dayStart.Location().String(),
	}

	cursor := dayStart
	firstLocation, lastLocation := "", ""

	appendOffDutyGap := func(from, to time.Time) {
		if !to.After(from) {
			return
		}
		ledger.Entries = append(ledger.Entries, trip.LedgerEntry{
			Status: hos.OffDuty,
			Start:  from,
			End:    to,
		})
		ledger.Hours.OffDutyHours += to.Sub(from).Hours()
	}

	for _, act := range activities {
		actStart := act.Start.In(dayStart.Location())
		actEnd := act.End.In(dayStart.Location())

		if !actEnd.After(dayStart) || !actStart.Before(dayEnd) {
			continue // activity does not overlap this calendar day
		}

		clipStart := maxTime(actStart, dayStart)
		clipEnd := minTime(actEnd, dayEnd)
		if !clipEnd.After(clipStart) {
			continue
		}

		appendOffDutyGap(cursor, clipStart)

		location := ""
		if act.Place != nil {
			location = act.Place.DisplayName
		}
		if firstLocation == "" {
			firstLocation = location
		}
		lastLocation = location

		ledger.Entries = append(ledger.Entries, trip.LedgerEntry{
			Status:   act.Status,
			Start:    clipStart,
			End:      clipEnd,
			Location: location,
			Activity: act.Description,
		})
		addHours(&ledger.Hours, act.Status, clipEnd.Sub(clipStart).Hours())

		if act.Description != "" {
			ledger.Remarks = append(ledger.Remarks, trip.Remark{
				Time:     clipStart,
				Location: location,
				Activity: act.Description,
			})
		}

		cursor = clipEnd
	}

	appendOffDutyGap(cursor, dayEnd)

	ledger.StartLocation = firstLocation
	ledger.EndLocation = lastLocation

	sum := ledger.Hours.Sum()
	if sum < 24.0-sumTolerance || sum > 24.0+sumTolerance {
		return trip.DailyLedger{}, apperr.New(apperr.KindInternal, fmt.Sprintf("daily ledger for day %d sums to %.4fh, expected 24h", dayNumber, sum))
	}

	return ledger, nil
}

func addHours(totals *trip.HourTotals, status hos.DutyStatus, hours float64) {
	switch status {
	case hos.OffDuty:
		totals.OffDutyHours += hours
	case hos.SleeperBerth:
		totals.SleeperHours += hours
	case hos.Driving:
		totals.DrivingHours += hours
	case hos.OnDutyNotDriving:
		totals.OnDutyHours += hours
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
