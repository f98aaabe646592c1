package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContentRequiresAPIKey(t *testing.T) {
	c := NewGeminiClient("https://example.invalid", "", "gemini-1.5-flash")
	if _, err := c.GenerateContent(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestGenerateContentJoinsParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v1beta/models/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello, "},{"text":"world."}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash")
	text, err := c.GenerateContent(context.Background(), "hi")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if text != "Hello, world." {
		t.Fatalf("expected joined parts, got %q", text)
	}
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash")
	text, err := c.GenerateContent(context.Background(), "hi")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestGenerateContentNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash")
	if _, err := c.GenerateContent(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
