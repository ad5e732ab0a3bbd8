package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/middleware"
	"github.com/nribeiro/voyago/internal/service"
)

// userID reads the authenticated user set by the auth middleware. Routes
// calling this are always behind it, so a miss is a wiring bug, not a client
// error.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		s.log.Error("authenticated route reached without a user id", "path", r.URL.Path)
		s.writeJSON(w, http.StatusUnauthorized, errorBody{
			Status:    http.StatusUnauthorized,
			Code:      "UNAUTHORIZED",
			Message:   "authentication required",
			Timestamp: timestamp(),
		})
		return uuid.Nil, false
	}
	return id, true
}

// handleListTrips handles GET /api/trips.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	s.writeJSON(w, http.StatusOK, trips)
}

// handleCreateTrip handles POST /api/trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var trip domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		s.writeValidationMessage(w, "request body must be a JSON trip")
		return
	}

	created, err := s.trips.Create(r.Context(), userID, trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// handleGetTrip handles GET /api/trips/{id}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trip)
}

// handleUpdateTrip handles PUT /api/trips/{id}. The submitted itinerary
// replaces the stored one wholesale.
func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var trip domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		s.writeValidationMessage(w, "request body must be a JSON trip")
		return
	}
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), userID, trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddItem handles POST /api/trips/{id}/items.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var item domain.ItineraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.writeValidationMessage(w, "request body must be a JSON itinerary item")
		return
	}

	created, err := s.trips.AddItem(r.Context(), userID, tripID, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// handleUpdateItem handles PUT /api/trips/{id}/items/{itemId}.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := s.pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	var item domain.ItineraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.writeValidationMessage(w, "request body must be a JSON itinerary item")
		return
	}
	item.ID = itemID

	updated, err := s.trips.UpdateItem(r.Context(), userID, tripID, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// handleDeleteItem handles DELETE /api/trips/{id}/items/{itemId}.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := s.pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	if err := s.trips.DeleteItem(r.Context(), userID, tripID, itemID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDetectConflicts handles GET /api/trips/{id}/conflicts. It tests a
// candidate calendar slot (?date=&timeSlot=&durationMinutes=&excludeItem=)
// against the trip's schedule.
func (s *Server) handleDetectConflicts(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	q := service.ConflictQuery{
		Date:     query.Get("date"),
		TimeSlot: query.Get("timeSlot"),
	}
	if raw := query.Get("durationMinutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			s.writeValidationMessage(w, "durationMinutes must be a positive integer")
			return
		}
		q.DurationMinutes = &minutes
	}
	if raw := query.Get("excludeItem"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.writeValidationMessage(w, "excludeItem must be a UUID")
			return
		}
		q.ExcludeItemID = id
	}

	result, err := s.trips.DetectConflicts(r.Context(), userID, tripID, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
