package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nribeiro/voyago/internal/domain"
)

// ItineraryRepo defines the persistence operations for itinerary items.
// Items are always read ordered by (date, sort_order), the timeline order
// the calendar renders.
type ItineraryRepo interface {
	// ListByTrip returns the trip's items in timeline order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error)

	// ListByTrips returns items for many trips at once, grouped by trip,
	// each group in timeline order. Used when listing trips.
	ListByTrips(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.ItineraryItem, error)

	// ReplaceAll deletes the trip's items and inserts the given set in
	// their place, honoring client-supplied ids (a zero id gets a
	// DB-generated one). Returns the persisted items in timeline order.
	ReplaceAll(ctx context.Context, tripID uuid.UUID, items []domain.ItineraryItem) ([]domain.ItineraryItem, error)

	// Create inserts one item and returns the persisted record.
	Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// Update overwrites the mutable fields of an item, keyed by item.ID
	// and item.TripID. Returns domain.ErrNotFound on a miss.
	Update(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// Delete removes an item scoped to its trip.
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db
// connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itemColumns = `id, trip_id, type, ref_id, date, time_slot, duration_minutes, label, notes, sort_order`

// ListByTrip returns the trip's items in timeline order.
func (r *pgItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM itinerary_items
		WHERE trip_id = @trip_id
		ORDER BY date, sort_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	return items, nil
}

// ListByTrips returns items grouped by trip id.
func (r *pgItineraryRepo) ListByTrips(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.ItineraryItem, error) {
	grouped := make(map[uuid.UUID][]domain.ItineraryItem, len(tripIDs))
	if len(tripIDs) == 0 {
		return grouped, nil
	}

	const q = `
		SELECT ` + itemColumns + `
		FROM itinerary_items
		WHERE trip_id = ANY(@trip_ids)
		ORDER BY date, sort_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrips: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrips: %w", err)
	}
	for _, item := range items {
		grouped[item.TripID] = append(grouped[item.TripID], item)
	}
	return grouped, nil
}

// ReplaceAll swaps the trip's item set wholesale. The caller runs this
// inside the trip update; partial failure surfaces as an error and the
// surrounding transaction (when there is one) rolls the delete back.
func (r *pgItineraryRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, items []domain.ItineraryItem) ([]domain.ItineraryItem, error) {
	const del = `DELETE FROM itinerary_items WHERE trip_id = @trip_id`
	if _, err := r.db.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ReplaceAll: delete: %w", err)
	}

	for _, item := range items {
		item.TripID = tripID
		if _, err := r.insert(ctx, item); err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ReplaceAll: %w", err)
		}
	}

	return r.ListByTrip(ctx, tripID)
}

// Create inserts one item and returns the persisted record.
func (r *pgItineraryRepo) Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	result, err := r.insert(ctx, item)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}
	return result, nil
}

// insert writes one item row. A zero item.ID defers to the column default.
func (r *pgItineraryRepo) insert(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		INSERT INTO itinerary_items (id, trip_id, type, ref_id, date, time_slot,
			duration_minutes, label, notes, sort_order)
		VALUES (@id, @trip_id, @type, @ref_id, @date, @time_slot,
			@duration_minutes, @label, @notes, @sort_order)
		RETURNING ` + itemColumns

	id := item.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	args := pgx.NamedArgs{
		"id":               id,
		"trip_id":          item.TripID,
		"type":             string(item.Type),
		"ref_id":           item.RefID,
		"date":             item.Date,
		"time_slot":        item.TimeSlot,
		"duration_minutes": item.DurationMinutes,
		"label":            item.Label,
		"notes":            item.Notes,
		"sort_order":       item.Order,
	}

	return scanItem(r.db.QueryRow(ctx, q, args))
}

// Update overwrites the mutable fields of an item, scoped to its trip.
func (r *pgItineraryRepo) Update(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		UPDATE itinerary_items
		SET type             = @type,
		    ref_id           = @ref_id,
		    date             = @date,
		    time_slot        = @time_slot,
		    duration_minutes = @duration_minutes,
		    label            = @label,
		    notes            = @notes,
		    sort_order       = @sort_order
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + itemColumns

	args := pgx.NamedArgs{
		"id":               item.ID,
		"trip_id":          item.TripID,
		"type":             string(item.Type),
		"ref_id":           item.RefID,
		"date":             item.Date,
		"time_slot":        item.TimeSlot,
		"duration_minutes": item.DurationMinutes,
		"label":            item.Label,
		"notes":            item.Notes,
		"sort_order":       item.Order,
	}

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes an item by primary key, scoped to its trip.
func (r *pgItineraryRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	const q = `DELETE FROM itinerary_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectItems drains rows into a slice.
func collectItems(rows pgx.Rows) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

// scanItem maps a single database row into a domain.ItineraryItem.
func scanItem(s scanner) (domain.ItineraryItem, error) {
	var (
		item   domain.ItineraryItem
		id     pgtype.UUID
		tripID pgtype.UUID
		typ    string
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &typ, &item.RefID, &date, &item.TimeSlot,
		&item.DurationMinutes, &item.Label, &item.Notes, &item.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, domain.ErrNotFound
		}
		return domain.ItineraryItem{}, err
	}

	item.ID = uuid.UUID(id.Bytes)
	item.TripID = uuid.UUID(tripID.Bytes)
	item.Type = domain.ItineraryItemType(typ)
	item.Date = date.Time.Format(isoDate)
	return item, nil
}
