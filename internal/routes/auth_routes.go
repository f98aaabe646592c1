package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"heavymachines/internal/config"
	"heavymachines/internal/handlers"
	"heavymachines/internal/middleware"
	"heavymachines/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	var mailer services.EmailSender
	if cfg.SMTPHost != "" {
		mailer = &services.SMTPSender{
			Host:   cfg.SMTPHost,
			Port:   cfg.SMTPPort,
			User:   cfg.SMTPUser,
			Pass:   cfg.SMTPPassword,
			From:   cfg.SMTPFrom,
			UseTLS: cfg.SMTPUseTLS,
		}
	}
	authHandler := handlers.NewAuthHandler(db, cfg, mailer)

	router.Post("/signup", authHandler.Signup)
	router.Post("/login", authHandler.Login)
	router.Post("/reset-password", authHandler.RequestPasswordReset)
	router.Post("/update-password", authHandler.UpdatePassword)

	router.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/me", authHandler.Me)
	})
}
