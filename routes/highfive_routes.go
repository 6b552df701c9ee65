package routes

import (
	"highfive_server/controllers"
	"highfive_server/services"

	"github.com/gorilla/mux"
)

// RegisterHighFiveRoutes sets up routes for match attempts under /api/highfives
func RegisterHighFiveRoutes(r *mux.Router, highFiveService *services.HighFiveService) {
	controller := controllers.NewHighFiveController(highFiveService)

	highFiveRouter := r.PathPrefix("/api/highfives").Subrouter()
	highFiveRouter.HandleFunc("/initiate", controller.Initiate).Methods("POST")
	highFiveRouter.HandleFunc("/{highFiveId}/respond", controller.Respond).Methods("POST")
	highFiveRouter.HandleFunc("/{highFiveId}", controller.GetHighFive).Methods("GET")
}
