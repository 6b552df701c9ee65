package controllers

import (
	"encoding/json"
	"net/http"

	"highfive_server/services"

	"github.com/gorilla/mux"
)

// SessionController handles HTTP requests for the rendezvous registry
type SessionController struct {
	Service *services.SessionService
}

// NewSessionController creates a new SessionController instance
func NewSessionController(service *services.SessionService) *SessionController {
	return &SessionController{Service: service}
}

// Connect resolves or creates the session between two users. A sibling
// session conflict surfaces as 409; the caller decides whether to retry.
func (sc *SessionController) Connect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		PartnerID string `json:"partnerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.PartnerID == "" {
		http.Error(w, "userId and partnerId are required", http.StatusBadRequest)
		return
	}

	session, err := sc.Service.Connect(r.Context(), req.UserID, req.PartnerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Ready toggles the caller's own ready slot
func (sc *SessionController) Ready(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		SessionID string `json:"sessionId"`
		Ready     bool   `json:"ready"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.SessionID == "" {
		http.Error(w, "userId and sessionId are required", http.StatusBadRequest)
		return
	}

	session, err := sc.Service.SetReady(r.Context(), req.UserID, req.SessionID, req.Ready)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Leave resets the caller's ready slot; the record stays behind
func (sc *SessionController) Leave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.SessionID == "" {
		http.Error(w, "userId and sessionId are required", http.StatusBadRequest)
		return
	}

	if err := sc.Service.Leave(r.Context(), req.UserID, req.SessionID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// GetSession fetches the current session snapshot
func (sc *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := sc.Service.GetSession(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}
