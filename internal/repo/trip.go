// Package repo contains all database access logic for the Voyago API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nribeiro/voyago/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isoDate is the wire format for trip and itinerary dates.
const isoDate = "2006-01-02"

// TripRepo defines the persistence operations for trips. Every read and
// write is scoped to the owning user; a miss and a foreign trip are both
// domain.ErrNotFound.
//
// Result collections travel as JSONB snapshots with the trip row. Itinerary
// items live in their own table and are loaded by ItineraryRepo.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip owned by userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)

	// ListByUser returns the user's trips ordered by start date descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip, keyed by
	// trip.ID and trip.UserID, and returns the updated record.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip owned by userID. Itinerary items go with it
	// via the FK cascade.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Touch bumps updated_at on a trip owned by userID. Called when a
	// nested itinerary item changes.
	Touch(ctx context.Context, userID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, name, destination, start_date, end_date,
		flights, stays, car_rentals, transports, activities, attractions,
		created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, name, destination, start_date, end_date,
			flights, stays, car_rentals, transports, activities, attractions)
		VALUES (@user_id, @name, @destination, @start_date, @end_date,
			@flights, @stays, @car_rentals, @transports, @activities, @attractions)
		RETURNING ` + tripColumns

	args, err := tripArgs(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns the user's trips, most recent start date first.
func (r *pgTripRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: rows: %w", err)
	}

	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name        = @name,
		    destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    flights     = @flights,
		    stays       = @stays,
		    car_rentals = @car_rentals,
		    transports  = @transports,
		    activities  = @activities,
		    attractions = @attractions,
		    updated_at  = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + tripColumns

	args, err := tripArgs(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key, scoped to its owner.
func (r *pgTripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Touch bumps updated_at, scoped to the owner.
func (r *pgTripRepo) Touch(ctx context.Context, userID, id uuid.UUID) error {
	const q = `UPDATE trips SET updated_at = now() WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Touch: %w", domain.ErrNotFound)
	}
	return nil
}

// tripArgs builds the named arguments shared by Create and Update.
// The result collections are JSON-encoded here; nil slices are stored as
// empty arrays so a round-trip never turns [] into null.
func tripArgs(trip domain.Trip) (pgx.NamedArgs, error) {
	args := pgx.NamedArgs{
		"user_id":     trip.UserID,
		"name":        trip.Name,
		"destination": trip.Destination,
		"start_date":  trip.Dates.Start,
		"end_date":    trip.Dates.End,
	}

	for name, collection := range map[string]any{
		"flights":     trip.Flights,
		"stays":       trip.Stays,
		"car_rentals": trip.CarRentals,
		"transports":  trip.Transports,
		"activities":  trip.Activities,
		"attractions": trip.Attractions,
	} {
		encoded, err := collectionJSON(collection)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		args[name] = encoded
	}

	return args, nil
}

// collectionJSON marshals a result collection for a JSONB column, mapping a
// nil slice to the empty array.
func collectionJSON(collection any) ([]byte, error) {
	encoded, err := json.Marshal(collection)
	if err != nil {
		return nil, err
	}
	if string(encoded) == "null" {
		return []byte("[]"), nil
	}
	return encoded, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, and JSONB collection conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		userID    pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date

		flights     []byte
		stays       []byte
		carRentals  []byte
		transports  []byte
		activities  []byte
		attractions []byte
	)

	err := s.Scan(&id, &userID, &t.Name, &t.Destination, &startDate, &endDate,
		&flights, &stays, &carRentals, &transports, &activities, &attractions,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.Dates = domain.DateRange{
		Start: startDate.Time.Format(isoDate),
		End:   endDate.Time.Format(isoDate),
	}

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{flights, &t.Flights},
		{stays, &t.Stays},
		{carRentals, &t.CarRentals},
		{transports, &t.Transports},
		{activities, &t.Activities},
		{attractions, &t.Attractions},
	} {
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return domain.Trip{}, fmt.Errorf("decode collection: %w", err)
		}
	}

	return t, nil
}
