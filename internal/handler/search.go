package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// proxyQuery runs a provider search keyed on the request's query string and
// writes the raw upstream payload through. Provider failures arrive as
// *upstream.AppError and map to their upstream status.
func (s *Server) proxyQuery(w http.ResponseWriter, r *http.Request, fn func(context.Context, url.Values) (json.RawMessage, error)) {
	raw, err := fn(r.Context(), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handleFlightOffers(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Flights.SearchOffers)
}

func (s *Server) handleAirportSearch(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Flights.SearchAirports)
}

func (s *Server) handleHotelDestinations(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Hotels.SearchDestination)
}

func (s *Server) handleHotelSearch(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Hotels.SearchHotels)
}

func (s *Server) handleCarLocations(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Cars.AutoComplete)
}

func (s *Server) handleCarSearch(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Cars.SearchCars)
}

// handleTourSearch forwards the POST body to the tour provider unchanged.
func (s *Server) handleTourSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeValidationMessage(w, "unreadable request body")
		return
	}

	raw, err := s.providers.Tours.SearchTours(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handleTransportSearch(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Transport.SearchTransport)
}

func (s *Server) handleAttractionGeoname(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("name") == "" {
		s.writeValidationMessage(w, "name is required")
		return
	}
	s.proxyQuery(w, r, s.providers.Attractions.Geoname)
}

func (s *Server) handleAttractionRadius(w http.ResponseWriter, r *http.Request) {
	s.proxyQuery(w, r, s.providers.Attractions.Radius)
}

func (s *Server) handleAttractionDetails(w http.ResponseWriter, r *http.Request) {
	xid := chi.URLParam(r, "xid")
	raw, err := s.providers.Attractions.PlaceDetails(r.Context(), xid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, raw)
}

// Showcase endpoints: curated content, no upstream involved.

func (s *Server) handleFlightShowcase(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.showcase.Flights(r.Context()))
}

func (s *Server) handleHotelShowcase(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.showcase.Hotels(r.Context()))
}

func (s *Server) handleTourShowcase(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.showcase.Tours(r.Context()))
}

func (s *Server) handleHomeShowcase(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.showcase.Home(r.Context()))
}
