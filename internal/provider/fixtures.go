package provider

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/upstream"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// FeaturedDestination is a curated destination card used by the showcase
// endpoints and the geoname lookup in mock mode.
type FeaturedDestination struct {
	Name        string             `json:"name"`
	Country     string             `json:"country"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Location    domain.GeoLocation `json:"location"`
}

// ShowcaseStats is the aggregate counter block on the home showcase.
type ShowcaseStats struct {
	Destinations int `json:"destinations"`
	Countries    int `json:"countries"`
	Travelers    int `json:"travelers"`
	Tours        int `json:"tours"`
}

// Showcase is the curated marketing data served by the showcase endpoints.
type Showcase struct {
	FeaturedDestinations []FeaturedDestination `json:"featuredDestinations"`
	FlightDeals          []domain.Flight       `json:"flightDeals"`
	Stats                ShowcaseStats         `json:"stats"`
}

// fixtureAirport mirrors the Amadeus location shape the client expects.
type fixtureAirport struct {
	IATACode    string `json:"iataCode"`
	Name        string `json:"name"`
	CityName    string `json:"cityName"`
	CountryName string `json:"countryName"`
}

// fixtureDestination mirrors the Booking destination shape.
type fixtureDestination struct {
	DestID   string `json:"destId"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Region   string `json:"region"`
	ImageURL string `json:"imageUrl"`
}

// fixtureCarLocation mirrors the Priceline autocomplete shape.
type fixtureCarLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Fixtures serves every travel category from embedded JSON, wrapped in the
// {"_mock": true, ...} envelope. One instance backs all six provider
// interfaces so mock mode is a single startup decision.
type Fixtures struct {
	flights      []domain.Flight
	airports     []fixtureAirport
	destinations []fixtureDestination
	stays        []domain.Stay
	carLocations []fixtureCarLocation
	carRentals   []domain.CarRental
	activities   []domain.Activity
	transports   []domain.Transport
	attractions  []domain.Attraction
	showcase     Showcase
}

// NewFixtures loads the embedded fixture data. Load failures are programmer
// errors (the data ships inside the binary) and abort startup.
func NewFixtures() (*Fixtures, error) {
	f := &Fixtures{}
	for name, dst := range map[string]any{
		"flights.json":       &f.flights,
		"airports.json":      &f.airports,
		"destinations.json":  &f.destinations,
		"stays.json":         &f.stays,
		"car_locations.json": &f.carLocations,
		"car_rentals.json":   &f.carRentals,
		"activities.json":    &f.activities,
		"transports.json":    &f.transports,
		"attractions.json":   &f.attractions,
		"showcase.json":      &f.showcase,
	} {
		data, err := fixtureFS.ReadFile("fixtures/" + name)
		if err != nil {
			return nil, fmt.Errorf("provider.NewFixtures: read %s: %w", name, err)
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return nil, fmt.Errorf("provider.NewFixtures: parse %s: %w", name, err)
		}
	}
	return f, nil
}

// FixtureProviders wires one Fixtures instance behind every category.
func FixtureProviders() (*Providers, *Fixtures, error) {
	f, err := NewFixtures()
	if err != nil {
		return nil, nil, err
	}
	return &Providers{
		Flights:     f,
		Hotels:      f,
		Cars:        f,
		Tours:       f,
		Transport:   f,
		Attractions: f,
	}, f, nil
}

// SearchOffers filters the flight fixtures by origin/destination IATA codes
// when the caller supplies them.
func (f *Fixtures) SearchOffers(_ context.Context, query url.Values) (json.RawMessage, error) {
	origin := strings.ToUpper(query.Get("originLocationCode"))
	dest := strings.ToUpper(query.Get("destinationLocationCode"))

	out := make([]domain.Flight, 0, len(f.flights))
	for _, fl := range f.flights {
		if origin != "" && fl.Origin != origin {
			continue
		}
		if dest != "" && fl.Destination != dest {
			continue
		}
		out = append(out, fl)
	}
	return wrapMock(out)
}

// SearchAirports filters the airport fixtures by the keyword parameter,
// matching IATA code, airport name, or city.
func (f *Fixtures) SearchAirports(_ context.Context, query url.Values) (json.RawMessage, error) {
	keyword := strings.ToLower(query.Get("keyword"))

	out := make([]fixtureAirport, 0, len(f.airports))
	for _, a := range f.airports {
		if keyword == "" ||
			strings.Contains(strings.ToLower(a.IATACode), keyword) ||
			strings.Contains(strings.ToLower(a.Name), keyword) ||
			strings.Contains(strings.ToLower(a.CityName), keyword) {
			out = append(out, a)
		}
	}
	return wrapMock(out)
}

// SearchDestination filters the lodging destination fixtures by keyword.
func (f *Fixtures) SearchDestination(_ context.Context, query url.Values) (json.RawMessage, error) {
	keyword := strings.ToLower(query.Get("query"))

	out := make([]fixtureDestination, 0, len(f.destinations))
	for _, d := range f.destinations {
		if keyword == "" ||
			strings.Contains(strings.ToLower(d.Name), keyword) ||
			strings.Contains(strings.ToLower(d.Country), keyword) {
			out = append(out, d)
		}
	}
	return wrapMock(out)
}

// SearchHotels returns the stay fixtures, overriding check-in/check-out with
// the requested dates so results always match the searched range.
func (f *Fixtures) SearchHotels(_ context.Context, query url.Values) (json.RawMessage, error) {
	checkIn := query.Get("arrival_date")
	checkOut := query.Get("departure_date")

	out := make([]domain.Stay, len(f.stays))
	copy(out, f.stays)
	for i := range out {
		if checkIn != "" {
			out[i].CheckIn = checkIn
		}
		if checkOut != "" {
			out[i].CheckOut = checkOut
		}
	}
	return wrapMock(out)
}

// AutoComplete filters the rental location fixtures by keyword.
func (f *Fixtures) AutoComplete(_ context.Context, query url.Values) (json.RawMessage, error) {
	keyword := strings.ToLower(query.Get("string"))
	if keyword == "" {
		keyword = strings.ToLower(query.Get("query"))
	}

	out := make([]fixtureCarLocation, 0, len(f.carLocations))
	for _, loc := range f.carLocations {
		if keyword == "" ||
			strings.Contains(strings.ToLower(loc.Name), keyword) ||
			strings.Contains(strings.ToLower(loc.City), keyword) {
			out = append(out, loc)
		}
	}
	return wrapMock(out)
}

// SearchCars returns the rental fixtures.
func (f *Fixtures) SearchCars(_ context.Context, _ url.Values) (json.RawMessage, error) {
	return wrapMock(f.carRentals)
}

// SearchTours filters the activity fixtures by the destination name in the
// request body, when one is present.
func (f *Fixtures) SearchTours(_ context.Context, body json.RawMessage) (json.RawMessage, error) {
	var req struct {
		Destination string `json:"destination"`
		City        string `json:"city"`
	}
	// A malformed body still gets the full fixture set; the real provider
	// owns request validation.
	_ = json.Unmarshal(body, &req)

	keyword := strings.ToLower(req.Destination)
	if keyword == "" {
		keyword = strings.ToLower(req.City)
	}

	out := make([]domain.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		if keyword == "" || strings.Contains(strings.ToLower(a.City), keyword) {
			out = append(out, a)
		}
	}
	return wrapMock(out)
}

// SearchTransport filters the transport fixtures by origin/destination.
func (f *Fixtures) SearchTransport(_ context.Context, query url.Values) (json.RawMessage, error) {
	origin := strings.ToLower(query.Get("origin"))
	dest := strings.ToLower(query.Get("destination"))

	out := make([]domain.Transport, 0, len(f.transports))
	for _, t := range f.transports {
		if origin != "" && !strings.Contains(strings.ToLower(t.Origin), origin) {
			continue
		}
		if dest != "" && !strings.Contains(strings.ToLower(t.Destination), dest) {
			continue
		}
		out = append(out, t)
	}
	return wrapMock(out)
}

// Geoname resolves a destination name against the featured destination
// fixtures.
func (f *Fixtures) Geoname(_ context.Context, query url.Values) (json.RawMessage, error) {
	name := strings.ToLower(query.Get("name"))
	for _, d := range f.showcase.FeaturedDestinations {
		if strings.Contains(strings.ToLower(d.Name), name) {
			return wrapMock(map[string]any{
				"name":    d.Name,
				"country": d.Country,
				"lat":     d.Location.Latitude,
				"lon":     d.Location.Longitude,
			})
		}
	}
	return nil, &upstream.AppError{
		Status:    404,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("no destination matches %q", query.Get("name")),
		Source:    "attractions",
		Timestamp: time.Now().UTC(),
	}
}

// Radius returns the attraction fixtures; the coordinate filter is ignored
// because the embedded set is already destination-scoped.
func (f *Fixtures) Radius(_ context.Context, _ url.Values) (json.RawMessage, error) {
	return wrapMock(f.attractions)
}

// PlaceDetails returns one attraction fixture by id.
func (f *Fixtures) PlaceDetails(_ context.Context, xid string) (json.RawMessage, error) {
	for _, a := range f.attractions {
		if a.ID == xid {
			return wrapMock(a)
		}
	}
	return nil, &upstream.AppError{
		Status:    404,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("no attraction with id %q", xid),
		Source:    "attractions",
		Timestamp: time.Now().UTC(),
	}
}

// ShowcaseData returns the curated showcase block.
func (f *Fixtures) ShowcaseData() Showcase { return f.showcase }

// ShowcaseStays returns the stay fixtures used by the hotel showcase.
func (f *Fixtures) ShowcaseStays() []domain.Stay { return f.stays }

// ShowcaseActivities returns the activity fixtures used by the tour showcase.
func (f *Fixtures) ShowcaseActivities() []domain.Activity { return f.activities }

var (
	_ FlightProvider     = (*Fixtures)(nil)
	_ HotelProvider      = (*Fixtures)(nil)
	_ CarProvider        = (*Fixtures)(nil)
	_ TourProvider       = (*Fixtures)(nil)
	_ TransportProvider  = (*Fixtures)(nil)
	_ AttractionProvider = (*Fixtures)(nil)
)
