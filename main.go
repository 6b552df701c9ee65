package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"highfive_server/routes"
	"highfive_server/services"
	"highfive_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize DynamoDB client and store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	store := &services.DynamoStore{Dynamo: &services.DynamoService{Client: dynamoClient}}
	log.Println("DynamoDB client initialized.")

	// Start the Socket.IO server (realtime snapshots + notifications)
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server failed: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize Services
	notificationService := services.NewNotificationService(store, socketServer)
	userService := services.NewUserService(store)

	sessionService := services.NewSessionService(store, store, notificationService, socketServer)
	sessionService.ActiveWindow = getEnvDuration("SESSION_ACTIVE_WINDOW_MS", 300_000)

	highFiveService := services.NewHighFiveService(store, store, notificationService, socketServer)
	highFiveService.Timeout = getEnvDuration("HIGH_FIVE_TIMEOUT_MS", 5_000)
	highFiveService.MatchWindow = getEnvDuration("HIGH_FIVE_MATCH_WINDOW_MS", 2_000)

	// Stale-session cleanup is opt-in: the reference behavior keeps expired
	// session records around forever.
	if getEnvBool("SESSION_CLEANUP_ENABLED", false) {
		janitor := services.NewSessionJanitor(
			store,
			getEnvDuration("SESSION_RETENTION_MS", 3_600_000),
			getEnvDuration("SESSION_CLEANUP_INTERVAL_MS", 60_000),
		)
		janitor.Start()
		defer janitor.Stop()
	}

	// Set up the server port
	port := getEnv("PORT", "8080")
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterSessionRoutes(r, sessionService)
	routes.RegisterHighFiveRoutes(r, highFiveService)
	r.Handle("/socket.io/", socketServer.IO())

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvDuration reads a millisecond-valued environment variable.
func getEnvDuration(key string, fallbackMillis int64) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return time.Duration(parsed) * time.Millisecond
		}
	}
	return time.Duration(fallbackMillis) * time.Millisecond
}
