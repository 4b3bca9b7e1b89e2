// Package database is the Postgres implementation of internal/repository.
//
// Schema (applied by migrations, not by this package):
//
//	CREATE TABLE trips (
//	    id                   uuid PRIMARY KEY,
//	    owner_id             uuid NOT NULL,
//	    current_location     jsonb NOT NULL,
//	    pickup_location      jsonb NOT NULL,
//	    dropoff_location     jsonb NOT NULL,
//	    starting_cycle_hours double precision NOT NULL,
//	    polyline             text NOT NULL,
//	    summary              jsonb NOT NULL,
//	    created_at           timestamptz NOT NULL
//	);
//	CREATE TABLE trip_stops (
//	    trip_id   uuid NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
//	    ordinal   int NOT NULL,
//	    kind      text NOT NULL,
//	    place     jsonb NOT NULL,
//	    arrival   timestamptz NOT NULL,
//	    departure timestamptz NOT NULL,
//	    activity  text NOT NULL,
//	    status    text NOT NULL,
//	    PRIMARY KEY (trip_id, ordinal)
//	);
//	CREATE TABLE trip_daily_ledgers (
//	    trip_id        uuid NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
//	    day_number     int NOT NULL,
//	    date           timestamptz NOT NULL,
//	    timezone       text NOT NULL,
//	    start_location text NOT NULL,
//	    end_location   text NOT NULL,
//	    total_miles    double precision NOT NULL,
//	    hours          jsonb NOT NULL,
//	    entries        jsonb NOT NULL,
//	    remarks        jsonb NOT NULL,
//	    PRIMARY KEY (trip_id, day_number)
//	);
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewConnection opens and pings a Postgres connection pool.
func NewConnection(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
