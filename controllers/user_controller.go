package controllers

import (
	"encoding/json"
	"net/http"

	"highfive_server/services"

	"github.com/gorilla/mux"
)

// UserController handles HTTP requests for identity, heartbeat and friends
type UserController struct {
	Service *services.UserService
}

// NewUserController creates a new UserController instance
func NewUserController(service *services.UserService) *UserController {
	return &UserController{Service: service}
}

// Login finds or creates the user for a display name
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	user, err := uc.Service.Login(r.Context(), req.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Heartbeat bumps the caller's liveness timestamp
func (uc *UserController) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := uc.Service.Heartbeat(r.Context(), req.UserID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetUser fetches one user with presence
func (uc *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := uc.Service.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ListUsers fetches all users with presence
func (uc *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := uc.Service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// AddFriend records a symmetric friendship
func (uc *UserController) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := decodeFriendPair(w, r)
	if !ok {
		return
	}

	if err := uc.Service.AddFriend(r.Context(), userID, friendID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFriend removes a symmetric friendship
func (uc *UserController) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := decodeFriendPair(w, r)
	if !ok {
		return
	}

	if err := uc.Service.RemoveFriend(r.Context(), userID, friendID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// GetFriends fetches the user's friends with presence
func (uc *UserController) GetFriends(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	friends, err := uc.Service.Friends(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

func decodeFriendPair(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var req struct {
		UserID   string `json:"userId"`
		FriendID string `json:"friendId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.FriendID == "" {
		http.Error(w, "userId and friendId are required", http.StatusBadRequest)
		return "", "", false
	}
	if req.UserID == req.FriendID {
		http.Error(w, "userId and friendId must differ", http.StatusBadRequest)
		return "", "", false
	}
	return req.UserID, req.FriendID, true
}
