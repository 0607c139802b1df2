package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/codequest/backend/internal/adaptive"
	"github.com/codequest/backend/internal/auth"
	"github.com/codequest/backend/internal/database"
	"github.com/codequest/backend/internal/middleware"
	"github.com/codequest/backend/internal/missions"
	"github.com/codequest/backend/internal/profile"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Adaptive engine
	adaptiveStore := adaptive.NewStore(db)
	tracker := adaptive.NewTracker(adaptiveStore)
	selector := adaptive.NewSelector(adaptiveStore, adaptiveStore, adaptiveStore, tracker)
	processor := adaptive.NewProcessor(adaptiveStore, tracker)
	adaptiveHandler := adaptive.NewHandler(selector, processor, adaptiveStore)

	// Missions
	missionStore := missions.NewStore(db)
	missionEngine := missions.NewEngine(missionStore)
	rewardEngine := missions.NewRewardEngine(missionStore)
	missionHandler := missions.NewHandler(missionEngine, rewardEngine)

	profileHandler := profile.NewHandler(profile.NewStore(db))

	authHandler := auth.NewHandler(db)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Scheduler route (cron hits this; no user identity involved)
	api.HandleFunc("/missions/expire", missionHandler.Expire).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/questions/next", adaptiveHandler.NextQuestion).Methods("GET")
	protected.HandleFunc("/questions/{id:[0-9]+}/answer", adaptiveHandler.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/skills", adaptiveHandler.GetSkills).Methods("GET")
	protected.HandleFunc("/weak-concepts", adaptiveHandler.GetWeakConcepts).Methods("GET")

	protected.HandleFunc("/missions", missionHandler.ListMissions).Methods("GET")
	protected.HandleFunc("/missions/progress", missionHandler.Progress).Methods("POST")
	protected.HandleFunc("/missions/{id:[0-9]+}/claim", missionHandler.Claim).Methods("POST")
	protected.HandleFunc("/missions/generate/daily", missionHandler.GenerateDaily).Methods("POST")
	protected.HandleFunc("/missions/generate/weekly", missionHandler.GenerateWeekly).Methods("POST")

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/xp-events", profileHandler.GetXPEvents).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// In-process expiry sweep alongside the cron endpoint
	go missionEngine.StartExpirySweeper(context.Background(), 15*time.Minute)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
