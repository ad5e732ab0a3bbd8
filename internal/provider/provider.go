// Package provider contains the third-party travel API clients and their
// fixture-backed counterparts. Each travel category is an interface; the
// real implementation and the fixture implementation are chosen once at
// startup (mock mode flag), never per call.
//
// Search methods return the upstream payload as raw JSON: the backend is a
// normalizing proxy, not a re-modeling layer. Fixture implementations wrap
// their data in the {"_mock": true, "data": [...]} envelope so clients can
// tell fixture responses apart.
package provider

import (
	"context"
	"encoding/json"
	"net/url"
)

// FlightProvider searches flight offers and airport locations.
type FlightProvider interface {
	// SearchOffers proxies a flight-offers search with the given query.
	SearchOffers(ctx context.Context, query url.Values) (json.RawMessage, error)
	// SearchAirports proxies an airport/location keyword search.
	SearchAirports(ctx context.Context, query url.Values) (json.RawMessage, error)
}

// HotelProvider searches lodging destinations and hotel offers.
type HotelProvider interface {
	SearchDestination(ctx context.Context, query url.Values) (json.RawMessage, error)
	SearchHotels(ctx context.Context, query url.Values) (json.RawMessage, error)
}

// CarProvider searches rental locations and car offers.
type CarProvider interface {
	AutoComplete(ctx context.Context, query url.Values) (json.RawMessage, error)
	SearchCars(ctx context.Context, query url.Values) (json.RawMessage, error)
}

// TourProvider searches guided tours and activities.
type TourProvider interface {
	// SearchTours forwards the provider-shaped request body as-is.
	SearchTours(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
}

// TransportProvider searches ground/sea transport legs.
type TransportProvider interface {
	SearchTransport(ctx context.Context, query url.Values) (json.RawMessage, error)
}

// AttractionProvider searches points of interest.
type AttractionProvider interface {
	Geoname(ctx context.Context, query url.Values) (json.RawMessage, error)
	Radius(ctx context.Context, query url.Values) (json.RawMessage, error)
	PlaceDetails(ctx context.Context, xid string) (json.RawMessage, error)
}

// Providers bundles one implementation per category. Wired in main.go:
// either all real clients or all fixtures, decided by the mock-mode flag.
type Providers struct {
	Flights     FlightProvider
	Hotels      HotelProvider
	Cars        CarProvider
	Tours       TourProvider
	Transport   TransportProvider
	Attractions AttractionProvider
}

// mockEnvelope is the wire shape fixture providers respond with.
type mockEnvelope struct {
	Mock bool `json:"_mock"`
	Data any  `json:"data"`
}

// wrapMock marshals data into the fixture envelope.
func wrapMock(data any) (json.RawMessage, error) {
	return json.Marshal(mockEnvelope{Mock: true, Data: data})
}
