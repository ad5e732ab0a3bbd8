package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// get performs an unauthenticated GET; the search surface is public.
func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status   string `json:"status"`
		Inflight int64  `json:"inflight"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestFlightOffersProxy(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/amadeus/v2/shopping/flight-offers?originLocationCode=LIS&destinationLocationCode=BCN")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Mock bool              `json:"_mock"`
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Mock)
	assert.Len(t, body.Data, 3)
}

func TestAirportSearchProxy(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/amadeus/v1/reference-data/locations?keyword=paris")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CDG")
}

func TestTourSearchForwardsBody(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	body := bytes.NewReader([]byte(`{"destination":"Paris"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/tours/search", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []struct {
			City string `json:"city"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data)
	for _, tour := range envelope.Data {
		assert.Equal(t, "Paris", tour.City)
	}
}

func TestAttractionGeoname_RequiresName(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/attractions/geoname")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttractionGeoname_UnknownCity(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/attractions/geoname?name=Atlantis")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"attractions"`)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestAttractionDetails(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/attractions/xid/attr-bcn-parkguell")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "attr-bcn-parkguell")
}

func TestHomeShowcase(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/home/showcase")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		FeaturedDestinations struct {
			Data []json.RawMessage `json:"data"`
		} `json:"featuredDestinations"`
		Stats struct {
			Destinations int `json:"destinations"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.FeaturedDestinations.Data, 3, "home sections are capped")
	assert.Equal(t, 120, body.Stats.Destinations)
}

func TestFlightShowcase(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := get(t, h, "/api/flights/showcase")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Deals    []json.RawMessage `json:"deals"`
		Cheapest *json.RawMessage  `json:"cheapest"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Deals)
	assert.NotNil(t, body.Cheapest)
}
