package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mulvri/nindo/config"
	"github.com/mulvri/nindo/internal/api"
	"github.com/mulvri/nindo/internal/auth"
	"github.com/mulvri/nindo/internal/credits"
	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/logger"
	"github.com/mulvri/nindo/internal/notify"
	"github.com/mulvri/nindo/internal/services"
	"github.com/mulvri/nindo/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Services
	prefsService := services.NewPrefsService(db)
	achievementService := services.NewAchievementService(db)
	streakService := services.NewStreakService(db, prefsService, achievementService)
	quoteService := services.NewQuoteService(db)
	moodService := services.NewMoodService(db, prefsService)
	reminderService := services.NewReminderService(db, prefsService)
	notificationService := services.NewNotificationService(db)

	// Seed the quote catalog on first start
	if pack, err := services.LoadQuotePack(cfg.Quotes.PackPath); err != nil {
		lg.WithError(err).Warn("Could not load quote pack")
	} else if err := quoteService.Seed(pack); err != nil {
		log.Fatalf("Failed to seed quotes: %v", err)
	}

	// Reminders from legacy flat preferences
	if err := reminderService.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed reminders: %v", err)
	}

	// Notification pipeline
	hub := websocket.NewHub()
	go hub.Run()

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notifications.Enabled {
		local := notify.NewLocalNotifier(db, hub, lg)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go local.Run(ctx)
		notifier = local
	}

	scheduler := notify.NewScheduler(reminderService, quoteService, prefsService, notifier, lg)
	if err := scheduler.Sync(); err != nil {
		lg.WithError(err).Error("Initial notification sync failed")
	}

	guard, err := auth.Init(lg)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	r := mux.NewRouter()

	// Public routes (no authentication required)
	r.HandleFunc("/login", guard.LoginHandler).Methods("POST")
	r.HandleFunc("/logout", guard.LogoutHandler).Methods("POST")
	r.HandleFunc("/credits", credits.Handler).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Authenticated routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(guard.Middleware)

	apiRouter := authRouter.PathPrefix("/api/v1").Subrouter()
	handler := api.NewHandler(quoteService, streakService, moodService, achievementService,
		reminderService, prefsService, notificationService, scheduler, notifier, lg)
	api.RegisterRoutes(apiRouter, handler)

	websocket.RegisterRoutes(authRouter, hub)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	log.Printf("🥷 Nindo server starting on port %s", port)
	log.Printf("🗄️ Database: %s", cfg.Database.Path)

	if err := http.ListenAndServe(":"+port, c.Handler(r)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
