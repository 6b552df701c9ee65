package routes

import (
	"highfive_server/controllers"
	"highfive_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up routes for the rendezvous registry under /api/sessions
func RegisterSessionRoutes(r *mux.Router, sessionService *services.SessionService) {
	controller := controllers.NewSessionController(sessionService)

	sessionRouter := r.PathPrefix("/api/sessions").Subrouter()
	sessionRouter.HandleFunc("/connect", controller.Connect).Methods("POST")
	sessionRouter.HandleFunc("/ready", controller.Ready).Methods("POST")
	sessionRouter.HandleFunc("/leave", controller.Leave).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}", controller.GetSession).Methods("GET")
}
