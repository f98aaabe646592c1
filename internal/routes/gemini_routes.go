package routes

import (
	"github.com/go-chi/chi/v5"

	"heavymachines/internal/config"
	"heavymachines/internal/handlers"
)

func RegisterGeminiRoutes(router chi.Router, cfg *config.Config) {
	geminiHandler := handlers.NewGeminiHandlerFromConfig(cfg)

	router.Route("/gemini", func(r chi.Router) {
		r.Post("/generate_idea", geminiHandler.GenerateIdea)
		r.Post("/enhance_description", geminiHandler.EnhanceDescription)
	})
}
