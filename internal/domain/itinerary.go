package domain

import "github.com/google/uuid"

// ItineraryItemType discriminates an itinerary item's category.
type ItineraryItemType string

const (
	ItemFlight     ItineraryItemType = "flight"
	ItemStay       ItineraryItemType = "stay"
	ItemCarRental  ItineraryItemType = "car-rental"
	ItemTransport  ItineraryItemType = "transport"
	ItemActivity   ItineraryItemType = "activity"
	ItemAttraction ItineraryItemType = "attraction"
	ItemCustom     ItineraryItemType = "custom"
)

// Valid reports whether t is one of the known item types.
func (t ItineraryItemType) Valid() bool {
	switch t {
	case ItemFlight, ItemStay, ItemCarRental, ItemTransport,
		ItemActivity, ItemAttraction, ItemCustom:
		return true
	}
	return false
}

// FixedTransit reports whether items of this type represent booked transit
// legs. Their calendar blocks are derived from the trip's results, so timed
// itinerary items of these types are skipped when building conflict blocks.
func (t ItineraryItemType) FixedTransit() bool {
	return t == ItemFlight || t == ItemCarRental || t == ItemTransport
}

// ItineraryItem is a single entry on the trip itinerary timeline.
// It references a search result via RefID, or stands alone for custom items.
//
// Lifecycle: created when a result is added to the itinerary or via a manual
// form; mutated on edit/drag/resize in the calendar; deleted when removed
// directly or when its referenced result is removed (cascade by convention).
type ItineraryItem struct {
	ID     uuid.UUID `json:"id"`
	TripID uuid.UUID `json:"-"`

	Type ItineraryItemType `json:"type"`
	// RefID references a search result id; nil for custom items.
	RefID *string `json:"refId"`
	// Date is an ISO 8601 date (YYYY-MM-DD).
	Date string `json:"date"`
	// TimeSlot is a 24-hour "HH:MM" string; nil for all-day items.
	TimeSlot *string `json:"timeSlot"`
	// DurationMinutes is nil for all-day items.
	DurationMinutes *int   `json:"durationMinutes"`
	Label           string `json:"label"`
	// Notes is free text; empty string when unset, never null.
	Notes string `json:"notes"`
	// Order breaks ties within the same date/timeSlot group.
	Order int `json:"order"`
}
