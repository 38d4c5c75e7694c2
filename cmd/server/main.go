package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"everafter/api"
	"everafter/config"
	"everafter/handlers"
	"everafter/internal/database"
	"everafter/services/accounts"
	"everafter/services/cleanup"
	"everafter/services/guests"
	"everafter/services/invitations"
	"everafter/services/scheduler"
	"everafter/services/sessions"
	"everafter/services/uploads"
	"everafter/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[server] config: %v", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[server] database: %v", err)
	}
	defer db.Close()

	sessionsSvc, err := sessions.NewService(cfg.DataDir, sessions.DefaultSessionDuration)
	if err != nil {
		log.Fatalf("[server] sessions: %v", err)
	}

	uploadsSvc, err := uploads.NewService(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("[server] uploads: %v", err)
	}

	accountsSvc := accounts.NewService(db.Users)
	invitationsSvc := invitations.NewService(db.Invitations, db.Templates, db.PageViews, uploadsSvc)
	guestsSvc := guests.NewService(db.Guests, db.Invitations, cfg.DefaultPhoneRegion)
	cleanupSvc := cleanup.NewService(db.Invitations, uploadsSvc)
	schedulerSvc := scheduler.NewService(cleanupSvc, cfg.CleanupInterval)

	if generated, err := accountsSvc.EnsureSuperadmin(cfg.AdminEmail); err != nil {
		log.Fatalf("[server] superadmin bootstrap: %v", err)
	} else if generated != "" {
		// Printed once on first start; not written anywhere else.
		log.Printf("[server] superadmin created: %s password: %s", cfg.AdminEmail, generated)
	}

	authHandler := handlers.NewAuthHandler(accountsSvc, sessionsSvc)
	invitationsHandler := handlers.NewInvitationsHandler(invitationsSvc)
	guestsHandler := handlers.NewGuestsHandler(guestsSvc)
	publicHandler := handlers.NewPublicHandler(invitationsSvc, guestsSvc)
	uploadsHandler := handlers.NewUploadsHandler(uploadsSvc)
	adminHandler := handlers.NewAdminHandler(db, accountsSvc, sessionsSvc, invitationsSvc)

	// Unauthenticated endpoints get per-IP rate limits: 5/min for logins,
	// 10/min for public RSVP submissions.
	loginLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)
	rsvpLimiter := api.NewIPRateLimiter(rate.Every(6*time.Second), 10)

	router := utils.NewRouter(cfg.FrontendOrigin)

	// Public, unauthenticated
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/api/auth/login", api.RateLimitHandlerFunc(loginLimiter, authHandler.Login)).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/api/admin/login", api.RateLimitHandlerFunc(loginLimiter, adminHandler.Login)).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/public/{slug}", publicHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/public/{slug}/rsvp", api.RateLimitHandlerFunc(rsvpLimiter, publicHandler.RSVP)).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/public/{slug}/messages", publicHandler.Messages).Methods(http.MethodGet, http.MethodOptions)
	router.PathPrefix("/uploads/").HandlerFunc(uploadsHandler.Serve).Methods(http.MethodGet, http.MethodOptions)

	// Authenticated
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.AuthMiddleware(sessionsSvc))
	apiRouter.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/auth/change-password", authHandler.ChangePassword).Methods(http.MethodPost, http.MethodOptions)

	apiRouter.HandleFunc("/templates", invitationsHandler.Templates).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/invitations", invitationsHandler.List).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/invitations", invitationsHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}", invitationsHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}", invitationsHandler.Update).Methods(http.MethodPut, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}", invitationsHandler.Delete).Methods(http.MethodDelete, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}/publish", invitationsHandler.Publish).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}/views", invitationsHandler.Views).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/invitations/{id}/guests", guestsHandler.List).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}/guests", guestsHandler.Add).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}/guests/bulk", guestsHandler.BulkAdd).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/invitations/{id}/guests/export", guestsHandler.Export).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/uploads", uploadsHandler.Upload).Methods(http.MethodPost, http.MethodOptions)

	// Superadmin only
	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(api.AdminOnlyMiddleware())
	adminRouter.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/users", adminHandler.Users).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods(http.MethodDelete, http.MethodOptions)
	adminRouter.HandleFunc("/invitations", adminHandler.Invitations).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/invitations/{id}", adminHandler.DeleteInvitation).Methods(http.MethodDelete, http.MethodOptions)

	if err := schedulerSvc.Start(context.Background()); err != nil {
		log.Fatalf("[server] scheduler: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[server] listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("[server] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[server] http shutdown: %v", err)
	}
	if err := schedulerSvc.Stop(ctx); err != nil {
		log.Printf("[server] scheduler stop: %v", err)
	}
}
