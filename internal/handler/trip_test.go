package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/handler"
	"github.com/nribeiro/voyago/internal/middleware"
	"github.com/nribeiro/voyago/internal/provider"
	"github.com/nribeiro/voyago/internal/schedule"
	"github.com/nribeiro/voyago/internal/service"
)

var testUserID = uuid.MustParse("9a1b2c3d-0000-4111-8222-333344445555")

// mockTripService is a hand-written test double for handler.TripServicer.
// Each method is a function field — set only the ones your test needs.
type mockTripService struct {
	create          func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID         func(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)
	list            func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	update          func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	delete          func(ctx context.Context, userID, id uuid.UUID) error
	addItem         func(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error)
	updateItem      func(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error)
	deleteItem      func(ctx context.Context, userID, tripID, itemID uuid.UUID) error
	detectConflicts func(ctx context.Context, userID, tripID uuid.UUID, q service.ConflictQuery) (schedule.ConflictResult, error)
}

func (m *mockTripService) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, userID, trip)
}
func (m *mockTripService) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockTripService) List(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.list(ctx, userID)
}
func (m *mockTripService) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, userID, trip)
}
func (m *mockTripService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}
func (m *mockTripService) AddItem(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	return m.addItem(ctx, userID, tripID, item)
}
func (m *mockTripService) UpdateItem(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	return m.updateItem(ctx, userID, tripID, item)
}
func (m *mockTripService) DeleteItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error {
	return m.deleteItem(ctx, userID, tripID, itemID)
}
func (m *mockTripService) DetectConflicts(ctx context.Context, userID, tripID uuid.UUID, q service.ConflictQuery) (schedule.ConflictResult, error) {
	return m.detectConflicts(ctx, userID, tripID, q)
}

var _ handler.TripServicer = (*mockTripService)(nil)

// stubAuth accepts the token "valid-token" for testUserID.
type stubAuth struct{}

func (stubAuth) LoginURL(state string) string { return "https://accounts.example.com?state=" + state }
func (stubAuth) HandleCallback(context.Context, string) (domain.User, string, error) {
	return domain.User{}, "", errors.New("not wired in this test")
}
func (stubAuth) ParseToken(token string) (uuid.UUID, *service.Claims, error) {
	if token != "valid-token" {
		return uuid.Nil, nil, errors.New("bad token")
	}
	return testUserID, &service.Claims{Email: "ana@example.com", Name: "Ana"}, nil
}

var _ handler.AuthServicer = stubAuth{}

// newTestServer builds a Server over the fixture providers and the given
// trip service mock.
func newTestServer(t *testing.T, trips handler.TripServicer) http.Handler {
	t.Helper()
	providers, fixtures, err := provider.FixtureProviders()
	require.NoError(t, err)

	srv := handler.NewServer(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		trips,
		stubAuth{},
		service.NewShowcaseService(fixtures),
		providers,
		middleware.NewInflightCounter(),
		"http://localhost:4200",
	)
	return srv.Routes()
}

// do performs an authenticated request against the router.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListTrips(t *testing.T) {
	trips := &mockTripService{
		list: func(_ context.Context, userID uuid.UUID) ([]domain.Trip, error) {
			assert.Equal(t, testUserID, userID)
			return []domain.Trip{{ID: uuid.New(), Name: "Barcelona Getaway"}}, nil
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodGet, "/api/trips/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Barcelona Getaway", got[0].Name)
}

func TestListTrips_EmptyIsArray(t *testing.T) {
	trips := &mockTripService{
		list: func(context.Context, uuid.UUID) ([]domain.Trip, error) { return nil, nil },
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodGet, "/api/trips/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "no trips is [], never null")
}

func TestListTrips_Unauthenticated(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	req := httptest.NewRequest(http.MethodGet, "/api/trips/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTrip(t *testing.T) {
	trips := &mockTripService{
		create: func(_ context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
			assert.Equal(t, testUserID, userID)
			trip.ID = uuid.New()
			return trip, nil
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodPost, "/api/trips/", map[string]any{
		"name":        "Barcelona Getaway",
		"destination": "Barcelona",
		"dates":       map[string]string{"start": "2026-10-12", "end": "2026-10-16"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestCreateTrip_MalformedBody(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	req := httptest.NewRequest(http.MethodPost, "/api/trips/", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION"`)
}

func TestCreateTrip_ValidationError(t *testing.T) {
	trips := &mockTripService{
		create: func(context.Context, uuid.UUID, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: trip name is required", domain.ErrValidation)
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodPost, "/api/trips/", map[string]any{"name": ""})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "trip name is required")
}

func TestGetTrip_NotFound(t *testing.T) {
	trips := &mockTripService{
		getByID: func(context.Context, uuid.UUID, uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodGet, "/api/trips/"+uuid.NewString()+"/", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "trip not found")
}

func TestGetTrip_BadUUID(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := do(t, h, http.MethodGet, "/api/trips/not-a-uuid/", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteTrip(t *testing.T) {
	id := uuid.New()
	trips := &mockTripService{
		delete: func(_ context.Context, userID, gotID uuid.UUID) error {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, id, gotID)
			return nil
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodDelete, "/api/trips/"+id.String()+"/", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAddItem(t *testing.T) {
	tripID := uuid.New()
	trips := &mockTripService{
		addItem: func(_ context.Context, userID, gotTrip uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
			assert.Equal(t, tripID, gotTrip)
			item.ID = uuid.New()
			return item, nil
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodPost, "/api/trips/"+tripID.String()+"/items", map[string]any{
		"type":     "activity",
		"date":     "2026-10-13",
		"timeSlot": "09:00",
		"label":    "Sagrada Familia Tour",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.ItineraryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.ItemActivity, got.Type)
	require.NotNil(t, got.TimeSlot)
	assert.Equal(t, "09:00", *got.TimeSlot)
}

func TestUpdateItem_UsesPathID(t *testing.T) {
	tripID, itemID := uuid.New(), uuid.New()
	trips := &mockTripService{
		updateItem: func(_ context.Context, _, _ uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error) {
			assert.Equal(t, itemID, item.ID, "path id wins over any body id")
			return item, nil
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodPut, "/api/trips/"+tripID.String()+"/items/"+itemID.String(), map[string]any{
		"id":    uuid.NewString(),
		"type":  "custom",
		"date":  "2026-10-14",
		"label": "Beach day",
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteItem_NotFound(t *testing.T) {
	trips := &mockTripService{
		deleteItem: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
			return domain.ErrNotFound
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodDelete, "/api/trips/"+uuid.NewString()+"/items/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "itinerary item not found")
}

func TestDetectConflicts(t *testing.T) {
	tripID := uuid.New()
	exclude := uuid.New()
	trips := &mockTripService{
		detectConflicts: func(_ context.Context, _, gotTrip uuid.UUID, q service.ConflictQuery) (schedule.ConflictResult, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, "2026-10-13", q.Date)
			assert.Equal(t, "09:00", q.TimeSlot)
			require.NotNil(t, q.DurationMinutes)
			assert.Equal(t, 120, *q.DurationMinutes)
			assert.Equal(t, exclude, q.ExcludeItemID)
			return schedule.ConflictResult{HasConflict: true, Conflicts: []schedule.TimeBlock{{Date: "2026-10-13"}}}, nil
		},
	}
	h := newTestServer(t, trips)

	rec := do(t, h, http.MethodGet, "/api/trips/"+tripID.String()+
		"/conflicts?date=2026-10-13&timeSlot=09:00&durationMinutes=120&excludeItem="+exclude.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasConflict":true`)
}

func TestDetectConflicts_BadDuration(t *testing.T) {
	h := newTestServer(t, &mockTripService{})

	rec := do(t, h, http.MethodGet, "/api/trips/"+uuid.NewString()+
		"/conflicts?date=2026-10-13&timeSlot=09:00&durationMinutes=soon", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
