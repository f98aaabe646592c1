package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"heavymachines/internal/config"
	"heavymachines/internal/models"
	"heavymachines/internal/services"
)

// GeminiHandler proxies prompt templates to the generative-text API.
// A nil client means the feature is disabled; callers get 503.
type GeminiHandler struct {
	client *services.GeminiClient
	v      *validator.Validate
}

func NewGeminiHandler(client *services.GeminiClient) *GeminiHandler {
	return &GeminiHandler{
		client: client,
		v:      validator.New(),
	}
}

func NewGeminiHandlerFromConfig(cfg *config.Config) *GeminiHandler {
	if cfg == nil || strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		log.Println("Warning: GEMINI_API_KEY not set. AI features will be disabled.")
		return NewGeminiHandler(nil)
	}
	return NewGeminiHandler(services.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel))
}

// @Tags Gemini
// @Summary Generate a product idea
// @Accept json
// @Produce json
// @Success 200 {object} models.GeneratedTextResponse
// @Failure 503 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /gemini/generate_idea [post]
func (h *GeminiHandler) GenerateIdea(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "Gemini service not available.")
		return
	}

	var req models.GenerateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	prompt := fmt.Sprintf(
		"Give one highly innovative and practical product idea for heavy machinery or agriculture based on this category: %s. Be brief and focus on novelty.",
		req.Query,
	)

	text, err := h.client.GenerateContent(r.Context(), prompt)
	if err != nil {
		log.Printf("AI API Error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "upstream_error", "AI API Error: Failed to generate content.")
		return
	}
	if text == "" {
		text = "AI response format unexpected."
	}

	writeJSON(w, http.StatusOK, models.GeneratedTextResponse{GeneratedText: text})
}

// @Tags Gemini
// @Summary Enhance a product description
// @Accept json
// @Produce json
// @Success 200 {object} models.GeneratedTextResponse
// @Failure 503 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /gemini/enhance_description [post]
func (h *GeminiHandler) EnhanceDescription(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "Gemini service not available.")
		return
	}

	var req models.EnhanceDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	parts := []string{
		"Write a compelling, enthusiastic, 30-word marketing description for this product:",
		"Name: " + req.ProductName,
		"Price: " + req.Price,
	}
	if req.Details != nil && *req.Details != "" {
		parts = append(parts, "Details: "+*req.Details)
	}
	prompt := strings.Join(parts, "\n")

	text, err := h.client.GenerateContent(r.Context(), prompt)
	if err != nil {
		log.Printf("AI API Error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "upstream_error", "AI API Error: Failed to generate description.")
		return
	}
	if text == "" {
		text = "AI response format unexpected."
	}

	writeJSON(w, http.StatusOK, models.GeneratedTextResponse{GeneratedText: text})
}
