package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bagasta/addressbook/internal/config"
	"github.com/bagasta/addressbook/internal/database"
	"github.com/bagasta/addressbook/internal/handler"
	"github.com/bagasta/addressbook/internal/middleware"
	"github.com/bagasta/addressbook/internal/repository"
	"github.com/bagasta/addressbook/internal/service"
	"github.com/bagasta/addressbook/internal/webhook"
	"github.com/bagasta/addressbook/internal/websocket"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	contactRepo := repository.NewContactRepository(db)
	userRepo := repository.NewUserRepository(db)

	hub := websocket.NewHub()
	go hub.Run()

	notifiers := []service.ChangeNotifier{hub}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, webhook.NewWebhookService(cfg.WebhookURL))
	}

	contactService := service.NewContactService(contactRepo, notifiers...)
	authService := service.NewAuthService(userRepo, cfg)

	contactHandler := handler.NewContactHandler(contactService)
	authHandler := handler.NewAuthHandler(authService)
	mw := middleware.NewMiddleware(cfg, userRepo, log.Logger)

	r := mux.NewRouter()
	r.Use(mw.RequestLogger, mw.CORS, mw.RateLimit)

	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/pin", authHandler.GeneratePIN).Methods(http.MethodPost, http.MethodOptions)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost, http.MethodOptions)

	contacts := r.PathPrefix("/api/contacts").Subrouter()
	contacts.Use(mw.Auth)
	contactHandler.Register(contacts)

	r.HandleFunc("/api/ws", websocket.Handler(hub, cfg.AllowedOrigins))

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("address book server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
