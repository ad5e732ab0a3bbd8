// Package handler implements the HTTP handlers for the Voyago API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, search.go, auth.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/middleware"
	"github.com/nribeiro/voyago/internal/provider"
	"github.com/nribeiro/voyago/internal/schedule"
	"github.com/nribeiro/voyago/internal/service"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	AddItem(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error)
	UpdateItem(ctx context.Context, userID, tripID uuid.UUID, item domain.ItineraryItem) (domain.ItineraryItem, error)
	DeleteItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error
	DetectConflicts(ctx context.Context, userID, tripID uuid.UUID, q service.ConflictQuery) (schedule.ConflictResult, error)
}

// AuthServicer defines the sign-in operations the auth handler depends on.
type AuthServicer interface {
	LoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (domain.User, string, error)
	ParseToken(token string) (uuid.UUID, *service.Claims, error)
}

// ShowcaseServicer defines the curated-content operations the showcase
// endpoints depend on.
type ShowcaseServicer interface {
	Flights(ctx context.Context) service.FlightShowcase
	Hotels(ctx context.Context) service.HotelShowcase
	Tours(ctx context.Context) service.TourShowcase
	Home(ctx context.Context) service.HomeShowcase
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	log       *slog.Logger
	trips     TripServicer
	auth      AuthServicer
	showcase  ShowcaseServicer
	providers *provider.Providers
	inflight  *middleware.InflightCounter

	// frontendURL is where auth callbacks redirect back to.
	frontendURL string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	log *slog.Logger,
	trips TripServicer,
	auth AuthServicer,
	showcase ShowcaseServicer,
	providers *provider.Providers,
	inflight *middleware.InflightCounter,
	frontendURL string,
) *Server {
	return &Server{
		log:         log,
		trips:       trips,
		auth:        auth,
		showcase:    showcase,
		providers:   providers,
		inflight:    inflight,
		frontendURL: frontendURL,
	}
}

// Routes builds the /api router. Search and showcase endpoints are public;
// trips and /auth/me require a bearer token.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", s.handleOpenAPI)
	r.Get("/docs", s.handleDocs)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Upstream search proxies.
		r.Get("/amadeus/v2/shopping/flight-offers", s.handleFlightOffers)
		r.Get("/amadeus/v1/reference-data/locations", s.handleAirportSearch)
		r.Get("/hotels/searchDestination", s.handleHotelDestinations)
		r.Get("/hotels/searchHotels", s.handleHotelSearch)
		r.Get("/cars/autoComplete", s.handleCarLocations)
		r.Get("/cars/search", s.handleCarSearch)
		r.Post("/tours/search", s.handleTourSearch)
		r.Get("/transport/search", s.handleTransportSearch)
		r.Get("/attractions/geoname", s.handleAttractionGeoname)
		r.Get("/attractions/radius", s.handleAttractionRadius)
		r.Get("/attractions/xid/{xid}", s.handleAttractionDetails)

		// Curated content.
		r.Get("/flights/showcase", s.handleFlightShowcase)
		r.Get("/hotels/showcase", s.handleHotelShowcase)
		r.Get("/tours/showcase", s.handleTourShowcase)
		r.Get("/home/showcase", s.handleHomeShowcase)

		// Sign-in flow.
		r.Get("/auth/google", s.handleGoogleLogin)
		r.Get("/auth/google/callback", s.handleGoogleCallback)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthHandler(s.auth))

			r.Get("/auth/me", s.handleMe)

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", s.handleListTrips)
				r.Post("/", s.handleCreateTrip)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetTrip)
					r.Put("/", s.handleUpdateTrip)
					r.Delete("/", s.handleDeleteTrip)
					r.Get("/conflicts", s.handleDetectConflicts)
					r.Post("/items", s.handleAddItem)
					r.Put("/items/{itemId}", s.handleUpdateItem)
					r.Delete("/items/{itemId}", s.handleDeleteItem)
				})
			})
		})
	})

	return r
}

// pathUUID parses a UUID path parameter, writing a 422 on failure.
// The boolean reports whether the caller should continue.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		s.writeValidationMessage(w, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
