// trip_stops and trip_daily_ledgers both declare
// `trip_id uuid NOT NULL REFERENCES trips(id) ON DELETE CASCADE` (see the
// schema block in connection.go), so Delete below only has to remove the
// trips row — the two child tables empty themselves.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saan-system/hos-trip-service/internal/repository"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

type tripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a Postgres-backed repository.TripRepository.
func NewTripRepository(db *sqlx.DB) repository.TripRepository {
	return &tripRepository{db: db}
}

// Create inserts a Trip and its Stops/DailyLedgers in a single transaction.
func (r *tripRepository) Create(ctx context.Context, t *trip.Trip) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	currentJSON, err := json.Marshal(t.CurrentPlace)
	if err != nil {
		return fmt.Errorf("failed to marshal current place: %w", err)
	}
	pickupJSON, err := json.Marshal(t.PickupPlace)
	if err != nil {
		return fmt.Errorf("failed to marshal pickup place: %w", err)
	}
	dropoffJSON, err := json.Marshal(t.DropoffPlace)
	if err != nil {
		return fmt.Errorf("failed to marshal dropoff place: %w", err)
	}
	summaryJSON, err := json.Marshal(t.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trips (
			id, owner_id, current_location, pickup_location, dropoff_location,
			starting_cycle_hours, polyline, summary, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.OwnerID, currentJSON, pickupJSON, dropoffJSON,
		t.StartingCycleHours, t.Polyline, summaryJSON, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, stop := range t.Stops {
		placeJSON, err := json.Marshal(stop.Place)
		if err != nil {
			return fmt.Errorf("failed to marshal stop place: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trip_stops (
				trip_id, ordinal, kind, place, arrival, departure, activity, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, stop.Ordinal, stop.Kind, placeJSON, stop.Arrival, stop.Departure, stop.Activity, stop.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip stop %d: %w", stop.Ordinal, err)
		}
	}

	for _, ledger := range t.DailyLogs {
		hoursJSON, err := json.Marshal(ledger.Hours)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger hours: %w", err)
		}
		entriesJSON, err := json.Marshal(ledger.Entries)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entries: %w", err)
		}
		remarksJSON, err := json.Marshal(ledger.Remarks)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger remarks: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trip_daily_ledgers (
				trip_id, day_number, date, timezone, start_location, end_location,
				total_miles, hours, entries, remarks
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, ledger.DayNumber, ledger.Date, ledger.Timezone, ledger.StartLocation, ledger.EndLocation,
			ledger.TotalMiles, hoursJSON, entriesJSON, remarksJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert daily ledger %d: %w", ledger.DayNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip with its stops and daily ledgers.
func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	var t trip.Trip
	var currentJSON, pickupJSON, dropoffJSON, summaryJSON []byte

	err := r.db.QueryRowxContext(ctx, `
		SELECT id, owner_id, current_location, pickup_location, dropoff_location,
			   starting_cycle_hours, polyline, summary, created_at
		FROM trips WHERE id = $1`, id).Scan(
		&t.ID, &t.OwnerID, &currentJSON, &pickupJSON, &dropoffJSON,
		&t.StartingCycleHours, &t.Polyline, &summaryJSON, &t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to query trip: %w", err)
	}

	if err := json.Unmarshal(currentJSON, &t.CurrentPlace); err != nil {
		return nil, fmt.Errorf("failed to unmarshal current place: %w", err)
	}
	if err := json.Unmarshal(pickupJSON, &t.PickupPlace); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pickup place: %w", err)
	}
	if err := json.Unmarshal(dropoffJSON, &t.DropoffPlace); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dropoff place: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &t.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	stops, err := r.stopsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Stops = stops

	ledgers, err := r.ledgersFor(ctx, id)
	if err != nil {
		return nil, err
	}
	t.DailyLogs = ledgers

	return &t, nil
}

func (r *tripRepository) stopsFor(ctx context.Context, tripID uuid.UUID) ([]trip.Stop, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT ordinal, kind, place, arrival, departure, activity, status
		FROM trip_stops WHERE trip_id = $1 ORDER BY ordinal`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip stops: %w", err)
	}
	defer rows.Close()

	var stops []trip.Stop
	for rows.Next() {
		var s trip.Stop
		var placeJSON []byte
		if err := rows.Scan(&s.Ordinal, &s.Kind, &placeJSON, &s.Arrival, &s.Departure, &s.Activity, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan trip stop: %w", err)
		}
		if err := json.Unmarshal(placeJSON, &s.Place); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stop place: %w", err)
		}
		stops = append(stops, s)
	}
	return stops, nil
}

func (r *tripRepository) ledgersFor(ctx context.Context, tripID uuid.UUID) ([]trip.DailyLedger, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT day_number, date, timezone, start_location, end_location,
			   total_miles, hours, entries, remarks
		FROM trip_daily_ledgers WHERE trip_id = $1 ORDER BY day_number`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []trip.DailyLedger
	for rows.Next() {
		var l trip.DailyLedger
		var hoursJSON, entriesJSON, remarksJSON []byte
		if err := rows.Scan(&l.DayNumber, &l.Date, &l.Timezone, &l.StartLocation, &l.EndLocation,
			&l.TotalMiles, &hoursJSON, &entriesJSON, &remarksJSON); err != nil {
			return nil, fmt.Errorf("failed to scan daily ledger: %w", err)
		}
		if err := json.Unmarshal(hoursJSON, &l.Hours); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger hours: %w", err)
		}
		if err := json.Unmarshal(entriesJSON, &l.Entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
		}
		if err := json.Unmarshal(remarksJSON, &l.Remarks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger remarks: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, nil
}

// ListByOwner returns the owner's trips newest-first, with truncated
// stop/ledger fields — full detail requires GetByID.
func (r *tripRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*trip.Trip, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, owner_id, current_location, pickup_location, dropoff_location,
			   starting_cycle_hours, polyline, summary, created_at
		FROM trips WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips by owner: %w", err)
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		var t trip.Trip
		var currentJSON, pickupJSON, dropoffJSON, summaryJSON []byte
		if err := rows.Scan(&t.ID, &t.OwnerID, &currentJSON, &pickupJSON, &dropoffJSON,
			&t.StartingCycleHours, &t.Polyline, &summaryJSON, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		if err := json.Unmarshal(currentJSON, &t.CurrentPlace); err != nil {
			return nil, fmt.Errorf("failed to unmarshal current place: %w", err)
		}
		if err := json.Unmarshal(pickupJSON, &t.PickupPlace); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pickup place: %w", err)
		}
		if err := json.Unmarshal(dropoffJSON, &t.DropoffPlace); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dropoff place: %w", err)
		}
		if err := json.Unmarshal(summaryJSON, &t.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
		trips = append(trips, &t)
	}
	return trips, nil
}

// Delete removes a trip; trip_stops and trip_daily_ledgers rows cascade
// via their foreign keys.
func (r *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrTripNotFound
	}
	return nil
}
