package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"highfive_server/services"
)

// WelcomeHandler greets callers at the root path
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to Internet High Five"))
}

// HealthCheckHandler reports service health
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is a collaborator failure surfaced as 502; the caller
// decides whether to retry — the conditional writes underneath make that safe.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyInSession):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrNotReady):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrSelfConnect):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "store unavailable: "+err.Error(), http.StatusBadGateway)
	}
}
