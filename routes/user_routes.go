package routes

import (
	"highfive_server/controllers"
	"highfive_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up routes for identity, heartbeat and friends under /api/users
func RegisterUserRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewUserController(userService)

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/login", controller.Login).Methods("POST")
	userRouter.HandleFunc("/heartbeat", controller.Heartbeat).Methods("POST")
	userRouter.HandleFunc("/friends", controller.AddFriend).Methods("POST")
	userRouter.HandleFunc("/friends", controller.RemoveFriend).Methods("DELETE")
	userRouter.HandleFunc("", controller.ListUsers).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.GetUser).Methods("GET")
	userRouter.HandleFunc("/{userId}/friends", controller.GetFriends).Methods("GET")
}
