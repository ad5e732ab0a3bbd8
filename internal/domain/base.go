// Package domain contains the core data types for the Voyago travel planner.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (rank, schedule, repo, service, handler).
//
// JSON tags are camelCase to match the wire format the web client persists:
// search-result snapshots are stored verbatim inside trip records, so the
// stored shape and the API shape are the same shape.
package domain

// Price is a monetary amount with its ISO 4217 currency code.
type Price struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// DateRange is an inclusive range of ISO 8601 dates (YYYY-MM-DD).
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GeoLocation holds WGS-84 coordinates.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ExternalLink is a deep-link to an external provider page.
type ExternalLink struct {
	URL string `json:"url"`
	// Provider is the display name shown on the booking CTA, e.g. "Amadeus".
	Provider string `json:"provider"`
}

// SearchResultBase carries the fields shared by every search result variant.
// Results are immutable snapshots captured at search time; they are never
// re-fetched or revalidated after being attached to a trip.
type SearchResultBase struct {
	// ID uniquely identifies the result for deduplication and itinerary refs.
	ID string `json:"id"`
	// Source names the provider or category that produced the result.
	Source string `json:"source"`
	// AddedToItinerary is true iff at least one itinerary item references
	// this result. Maintained by convention at each call site, not enforced
	// by a referential constraint.
	AddedToItinerary bool `json:"addedToItinerary"`
}
