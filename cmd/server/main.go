package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mindgrid-games/mindgrid-web/config"
	"github.com/mindgrid-games/mindgrid-web/internal/api"
	"github.com/mindgrid-games/mindgrid-web/internal/auth"
	"github.com/mindgrid-games/mindgrid-web/internal/database"
	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/services"
	"github.com/mindgrid-games/mindgrid-web/internal/store"
	syncer "github.com/mindgrid-games/mindgrid-web/internal/sync"
	"github.com/mindgrid-games/mindgrid-web/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.GlobalLogLevel = logger.LogLevel(cfg.Log.Level)

	// Initialize database
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Stores and services
	activityStore := store.NewActivityStore(db)
	hintStore := store.NewHintStore(db)
	cache := services.NewAnalyticsCache()

	userService := services.NewUserService(db)
	puzzleService := services.NewPuzzleService(activityStore, hintStore, cache)
	analyticsService := services.NewAnalyticsService(activityStore, cache)

	// Initialize auth with user service
	auth.Init(userService)

	// Live event hub
	hub := websocket.NewHub()
	go hub.Run()

	// Remote leaderboard sync
	pusher := syncer.NewPusher(activityStore, cfg.Sync.URL, time.Duration(cfg.Sync.Interval)*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pusher.Run(ctx)

	r := mux.NewRouter()

	// Public routes (no session required)
	publicRouter := r.PathPrefix("/api/v1/auth").Subrouter()
	publicRouter.HandleFunc("/register", auth.RegisterHandler).Methods("POST")
	publicRouter.HandleFunc("/login", auth.LoginHandler).Methods("POST")
	publicRouter.HandleFunc("/logout", auth.LogoutHandler).Methods("POST")

	// Session-aware routes (anonymous players allowed)
	sessionRouter := r.PathPrefix("/").Subrouter()
	sessionRouter.Use(auth.Middleware)

	apiRouter := sessionRouter.PathPrefix("/api/v1").Subrouter()
	api.RegisterRoutes(apiRouter, puzzleService, analyticsService, hub)

	websocket.RegisterRoutes(sessionRouter, hub)

	// CORS setup for development
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	log.Printf("🧩 MindGrid server starting on port %s", port)
	log.Printf("🗄️ Database: %s", cfg.Database.Path)

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
