package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/upstream"
)

func loadFixtures(t *testing.T) *Fixtures {
	t.Helper()
	f, err := NewFixtures()
	require.NoError(t, err)
	return f
}

// unwrapMock asserts the fixture envelope and decodes its data field.
func unwrapMock(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	var envelope struct {
		Mock bool            `json:"_mock"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.True(t, envelope.Mock, "fixture responses carry _mock: true")
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestFixturesSearchOffersFiltersByRoute(t *testing.T) {
	f := loadFixtures(t)

	query := url.Values{}
	query.Set("originLocationCode", "lis")
	query.Set("destinationLocationCode", "BCN")

	raw, err := f.SearchOffers(context.Background(), query)
	require.NoError(t, err)

	var flights []domain.Flight
	unwrapMock(t, raw, &flights)
	require.NotEmpty(t, flights)
	for _, fl := range flights {
		assert.Equal(t, "LIS", fl.Origin)
		assert.Equal(t, "BCN", fl.Destination)
	}
}

func TestFixturesSearchAirportsKeyword(t *testing.T) {
	f := loadFixtures(t)

	raw, err := f.SearchAirports(context.Background(), url.Values{"keyword": {"paris"}})
	require.NoError(t, err)

	var airports []fixtureAirport
	unwrapMock(t, raw, &airports)
	require.Len(t, airports, 2)
	for _, a := range airports {
		assert.Equal(t, "Paris", a.CityName)
	}
}

func TestFixturesSearchHotelsOverridesDates(t *testing.T) {
	f := loadFixtures(t)

	query := url.Values{}
	query.Set("arrival_date", "2027-03-01")
	query.Set("departure_date", "2027-03-05")

	raw, err := f.SearchHotels(context.Background(), query)
	require.NoError(t, err)

	var stays []domain.Stay
	unwrapMock(t, raw, &stays)
	require.NotEmpty(t, stays)
	for _, s := range stays {
		assert.Equal(t, "2027-03-01", s.CheckIn)
		assert.Equal(t, "2027-03-05", s.CheckOut)
	}

	// The embedded set itself is untouched.
	assert.Equal(t, "2026-10-12", f.stays[0].CheckIn)
}

func TestFixturesStaysPreserveNullRating(t *testing.T) {
	f := loadFixtures(t)

	raw, err := f.SearchHotels(context.Background(), url.Values{})
	require.NoError(t, err)

	var stays []domain.Stay
	unwrapMock(t, raw, &stays)

	var hostel *domain.Stay
	for i := range stays {
		if stays[i].ID == "stay-bcn-003" {
			hostel = &stays[i]
		}
	}
	require.NotNil(t, hostel)
	assert.Nil(t, hostel.Rating)
	assert.Nil(t, hostel.PhotoURL)
	assert.Empty(t, hostel.Images)
}

func TestFixturesSearchToursFiltersByCity(t *testing.T) {
	f := loadFixtures(t)

	raw, err := f.SearchTours(context.Background(), json.RawMessage(`{"destination": "Paris"}`))
	require.NoError(t, err)

	var tours []domain.Activity
	unwrapMock(t, raw, &tours)
	require.NotEmpty(t, tours)
	for _, tour := range tours {
		assert.Equal(t, "Paris", tour.City)
	}
}

func TestFixturesSearchToursMalformedBodyReturnsAll(t *testing.T) {
	f := loadFixtures(t)

	raw, err := f.SearchTours(context.Background(), json.RawMessage(`not json`))
	require.NoError(t, err)

	var tours []domain.Activity
	unwrapMock(t, raw, &tours)
	assert.Len(t, tours, len(f.activities))
}

func TestFixturesPlaceDetails(t *testing.T) {
	f := loadFixtures(t)

	raw, err := f.PlaceDetails(context.Background(), "attr-bcn-parkguell")
	require.NoError(t, err)

	var attraction domain.Attraction
	unwrapMock(t, raw, &attraction)
	assert.Equal(t, "Park Guell", attraction.Name)
}

func TestFixturesPlaceDetailsNotFound(t *testing.T) {
	f := loadFixtures(t)

	_, err := f.PlaceDetails(context.Background(), "attr-nowhere")

	var appErr *upstream.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFixturesGeonameMatchesFeaturedDestination(t *testing.T) {
	f := loadFixtures(t)

	raw, err := f.Geoname(context.Background(), url.Values{"name": {"barcelona"}})
	require.NoError(t, err)

	var place struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	unwrapMock(t, raw, &place)
	assert.Equal(t, "Barcelona", place.Name)
	assert.Equal(t, "Spain", place.Country)
	assert.InDelta(t, 41.39, place.Lat, 0.1)
}

func TestFixtureProvidersShareOneInstance(t *testing.T) {
	providers, f, err := FixtureProviders()
	require.NoError(t, err)
	assert.Same(t, f, providers.Flights)
	assert.Same(t, f, providers.Attractions)
	require.NotEmpty(t, f.ShowcaseData().FeaturedDestinations)
	require.NotEmpty(t, f.ShowcaseData().FlightDeals)
}
