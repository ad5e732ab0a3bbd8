package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: everything a user has selected for a
// single journey plus the itinerary built from it. Owned by exactly one user.
//
// The result collections are immutable snapshots serialized wholesale; only
// itinerary items live in their own table.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Dates       DateRange `json:"dates"`

	Flights     []Flight     `json:"flights"`
	Stays       []Stay       `json:"stays"`
	CarRentals  []CarRental  `json:"carRentals"`
	Transports  []Transport  `json:"transports"`
	Activities  []Activity   `json:"activities"`
	Attractions []Attraction `json:"attractions"`

	ItineraryItems []ItineraryItem `json:"itineraryItems"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
