package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/upstream"
)

// errorBody is the uniform error shape every failure response carries.
type errorBody struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	Timestamp string `json:"timestamp"`
}

// writeJSON writes v with the given status. Encoding failures are logged,
// not surfaced: the status line is already on the wire.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// writeError maps an error to its HTTP response:
//
//   - domain.ErrValidation → 422 with the validation message,
//   - domain.ErrNotFound → 404,
//   - *upstream.AppError → the upstream status (502 for network failures),
//     preserving the provider code, message, and source,
//   - anything else → 500 with a generic body; the detail goes to the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		s.writeValidationMessage(w, validationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{
			Status:    http.StatusNotFound,
			Code:      "NOT_FOUND",
			Message:   notFoundMessage(r),
			Timestamp: timestamp(),
		})
	default:
		var appErr *upstream.AppError
		if errors.As(err, &appErr) {
			status := appErr.Status
			if status == 0 {
				// The request never reached the provider.
				status = http.StatusBadGateway
			}
			s.writeJSON(w, status, errorBody{
				Status:    status,
				Code:      appErr.Code,
				Message:   appErr.Message,
				Source:    appErr.Source,
				Timestamp: appErr.Timestamp.UTC().Format(time.RFC3339),
			})
			return
		}

		s.log.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{
			Status:    http.StatusInternalServerError,
			Code:      "INTERNAL",
			Message:   "An unexpected error occurred",
			Timestamp: timestamp(),
		})
	}
}

// writeValidationMessage writes a 422 with the given message.
func (s *Server) writeValidationMessage(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Status:    http.StatusUnprocessableEntity,
		Code:      "VALIDATION",
		Message:   message,
		Timestamp: timestamp(),
	})
}

// validationMessage extracts the human-readable part from a wrapped
// validation error, e.g.
// "service.TripService.Create: validation error: trip name is required"
// → "trip name is required".
func validationMessage(err error) string {
	msg := err.Error()
	if _, after, found := strings.Cut(msg, domain.ErrValidation.Error()+": "); found {
		return after
	}
	return msg
}

// notFoundMessage names the missing resource from the request path.
func notFoundMessage(r *http.Request) string {
	if strings.Contains(r.URL.Path, "/items") {
		return "itinerary item not found"
	}
	if strings.Contains(r.URL.Path, "/trips") {
		return "trip not found"
	}
	return "resource not found"
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
