package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"heavymachines/internal/config"
	"heavymachines/internal/handlers"
	"heavymachines/internal/middleware"
)

func RegisterProductRoutes(router chi.Router, db *sql.DB, cfg *config.Config, s3Config *config.S3Config) {
	productHandler := handlers.NewProductHandler(db, s3Config)

	router.Get("/products/{category}", productHandler.ListByCategory)

	router.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Post("/products", productHandler.Create)
	})
}
