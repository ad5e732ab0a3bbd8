// Package service contains the business logic for the Voyago API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/repo"
	"github.com/nribeiro/voyago/internal/schedule"
)

// isoDate is the wire format for trip and itinerary dates.
const isoDate = "2006-01-02"

// TripService implements business logic for trips and their itineraries.
// Every operation is scoped to the requesting user; a trip that exists but
// belongs to someone else behaves exactly like one that does not exist.
type TripService struct {
	trips repo.TripRepo
	items repo.ItineraryRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, items repo.ItineraryRepo) *TripService {
	return &TripService{trips: trips, items: items}
}

// Create validates and persists a new trip. Itinerary items supplied on
// create are stored alongside the trip.
func (s *TripService) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.UserID = userID
	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	created.ItineraryItems, err = s.items.ReplaceAll(ctx, created.ID, trip.ItineraryItems)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip with its itinerary in timeline order.
func (s *TripService) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}

	trip.ItineraryItems, err = s.items.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns the user's trips, each with its itinerary attached.
func (s *TripService) List(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}

	ids := make([]uuid.UUID, len(trips))
	for i, trip := range trips {
		ids[i] = trip.ID
	}
	grouped, err := s.items.ListByTrips(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	for i := range trips {
		trips[i].ItineraryItems = grouped[trips[i].ID]
	}
	return trips, nil
}

// Update validates and overwrites an existing trip. The itinerary is
// replaced wholesale with the submitted set: simple, and what the web
// client's save flow expects. Last write wins.
func (s *TripService) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	for _, item := range trip.ItineraryItems {
		if err := validateItem(item); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
	}

	trip.UserID = userID
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	updated.ItineraryItems, err = s.items.ReplaceAll(ctx, updated.ID, trip.ItineraryItems)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip; its itinerary items cascade with it.
func (s *TripService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddItem validates and appends one itinerary item to a trip, bumping the
// trip's updated_at.
func (s *TripService) AddItem(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	if err := validateItem(item); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.TripService.AddItem: %w", err)
	}

	// Touch doubles as the ownership check: it only affects rows owned by
	// userID, so a foreign trip id comes back ErrNotFound here.
	if err := s.trips.Touch(ctx, userID, tripID); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.TripService.AddItem: %w", err)
	}

	item.TripID = tripID
	created, err := s.items.Create(ctx, item)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.TripService.AddItem: %w", err)
	}
	return created, nil
}

// UpdateItem validates and overwrites one itinerary item.
func (s *TripService) UpdateItem(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	if err := validateItem(item); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.TripService.UpdateItem: %w", err)
	}

	if err := s.trips.Touch(ctx, userID, tripID); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.TripService.UpdateItem: %w", err)
	}

	item.TripID = tripID
	updated, err := s.items.Update(ctx, item)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.TripService.UpdateItem: %w", err)
	}
	return updated, nil
}

// DeleteItem removes one itinerary item.
func (s *TripService) DeleteItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error {
	if err := s.trips.Touch(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripService.DeleteItem: %w", err)
	}
	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.TripService.DeleteItem: %w", err)
	}
	return nil
}

// ConflictQuery is a candidate calendar slot to test against a trip's
// existing schedule.
type ConflictQuery struct {
	Date            string
	TimeSlot        string
	DurationMinutes *int
	// ExcludeItemID skips one existing item, so editing an item never
	// conflicts with itself. uuid.Nil excludes nothing.
	ExcludeItemID uuid.UUID
}

// DetectConflicts checks a candidate slot against the trip's booked transit
// legs and timed itinerary items.
func (s *TripService) DetectConflicts(ctx context.Context, userID, tripID uuid.UUID, q ConflictQuery) (schedule.ConflictResult, error) {
	if _, err := time.Parse(isoDate, q.Date); err != nil {
		return schedule.ConflictResult{}, fmt.Errorf("service.TripService.DetectConflicts: %w: date must be YYYY-MM-DD", domain.ErrValidation)
	}

	trip, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return schedule.ConflictResult{}, fmt.Errorf("service.TripService.DetectConflicts: %w", err)
	}

	blocks := schedule.BuildTimeBlocks(trip.Flights, trip.CarRentals, trip.Transports, trip.ItineraryItems, q.ExcludeItemID)
	result, err := schedule.DetectConflicts(q.Date, q.TimeSlot, q.DurationMinutes, blocks)
	if err != nil {
		return schedule.ConflictResult{}, fmt.Errorf("service.TripService.DetectConflicts: %w: %v", domain.ErrValidation, err)
	}
	return result, nil
}

// validateTrip enforces the invariants shared by Create and Update.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: trip name is required", domain.ErrValidation)
	}

	start, err := time.Parse(isoDate, trip.Dates.Start)
	if err != nil {
		return fmt.Errorf("%w: start date must be YYYY-MM-DD", domain.ErrValidation)
	}
	end, err := time.Parse(isoDate, trip.Dates.End)
	if err != nil {
		return fmt.Errorf("%w: end date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

// validateItem enforces itinerary item invariants.
func validateItem(item domain.ItineraryItem) error {
	if !item.Type.Valid() {
		return fmt.Errorf("%w: unknown itinerary item type %q", domain.ErrValidation, item.Type)
	}
	if _, err := time.Parse(isoDate, item.Date); err != nil {
		return fmt.Errorf("%w: item date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if item.TimeSlot != nil {
		if _, err := schedule.MinuteOfDay(*item.TimeSlot); err != nil {
			return fmt.Errorf("%w: time slot must be HH:MM", domain.ErrValidation)
		}
	}
	if item.DurationMinutes != nil && *item.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", domain.ErrValidation)
	}
	if strings.TrimSpace(item.Label) == "" {
		return fmt.Errorf("%w: item label is required", domain.ErrValidation)
	}
	return nil
}
