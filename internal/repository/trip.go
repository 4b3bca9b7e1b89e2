// Package repository defines the Trip Store contract: key-value by Trip
// id, secondary lookup by owner, cascading delete, no partial updates.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/saan-system/hos-trip-service/internal/trip"
)

// ErrTripNotFound is returned by GetByID/Delete when no row matches.
var ErrTripNotFound = errors.New("trip not found")

// TripRepository persists computed trips and retrieves them by owner.
// Writes are single-row-transactional; a Trip is never partially updated.
type TripRepository interface {
	Create(ctx context.Context, t *trip.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*trip.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
