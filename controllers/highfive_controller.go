package controllers

import (
	"encoding/json"
	"net/http"

	"highfive_server/services"

	"github.com/gorilla/mux"
)

// HighFiveController handles HTTP requests for match attempts
type HighFiveController struct {
	Service *services.HighFiveService
}

// NewHighFiveController creates a new HighFiveController instance
func NewHighFiveController(service *services.HighFiveService) *HighFiveController {
	return &HighFiveController{Service: service}
}

// Initiate creates a pending attempt; 409 when either side is not ready
func (hc *HighFiveController) Initiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InitiatorID string `json:"initiatorId"`
		ReceiverID  string `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InitiatorID == "" || req.ReceiverID == "" {
		http.Error(w, "initiatorId and receiverId are required", http.StatusBadRequest)
		return
	}

	highFive, err := hc.Service.Initiate(r.Context(), req.InitiatorID, req.ReceiverID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, highFive)
}

// Respond records the receiver's tap and returns the settled attempt
func (hc *HighFiveController) Respond(w http.ResponseWriter, r *http.Request) {
	highFiveID := mux.Vars(r)["highFiveId"]

	var req struct {
		ReceiverID string `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReceiverID == "" {
		http.Error(w, "receiverId is required", http.StatusBadRequest)
		return
	}

	highFive, err := hc.Service.Respond(r.Context(), highFiveID, req.ReceiverID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, highFive)
}

// GetHighFive fetches the current attempt snapshot
func (hc *HighFiveController) GetHighFive(w http.ResponseWriter, r *http.Request) {
	highFiveID := mux.Vars(r)["highFiveId"]

	highFive, err := hc.Service.GetHighFive(r.Context(), highFiveID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, highFive)
}
