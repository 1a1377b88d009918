package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/natan23f3/finfam/internal/validate"
)

// errorResponse is the failure envelope every endpoint uses: status,
// a human-readable message, and field-level errors for 400s.
type errorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message})
}

func writeValidation(w http.ResponseWriter, errs validate.Errors) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Errors:  errs,
	})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// idParam parses the {id} route parameter as a positive integer.
func idParam(r *http.Request, name string) (int64, bool) {
	return validate.ID(chi.URLParam(r, name))
}
