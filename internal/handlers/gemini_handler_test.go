package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"heavymachines/internal/services"
)

func fakeGeminiServer(t *testing.T, status int, text string, lastPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") == "" {
			t.Errorf("expected x-goog-api-key header")
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.Unmarshal(body, &req)
		if lastPrompt != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*lastPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "secret upstream detail"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		})
	}))
}

func TestGenerateIdeaUnconfiguredReturns503(t *testing.T) {
	h := NewGeminiHandler(nil)
	w := postJSON(t, h.GenerateIdea, "/gemini/generate_idea", map[string]any{"query": "tractors"})

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "Gemini service not available." {
		t.Fatalf("unexpected message: %v", resp)
	}
}

func TestGenerateIdeaSuccess(t *testing.T) {
	var prompt string
	srv := fakeGeminiServer(t, http.StatusOK, "A solar-assisted tiller.", &prompt)
	defer srv.Close()

	h := NewGeminiHandler(services.NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash"))
	w := postJSON(t, h.GenerateIdea, "/gemini/generate_idea", map[string]any{"query": "tractors"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["generated_text"] != "A solar-assisted tiller." {
		t.Fatalf("unexpected body: %v", resp)
	}
	if !strings.Contains(prompt, "tractors") {
		t.Fatalf("expected query in prompt, got %q", prompt)
	}
}

func TestGenerateIdeaUpstreamFailureIsMasked(t *testing.T) {
	srv := fakeGeminiServer(t, http.StatusInternalServerError, "", nil)
	defer srv.Close()

	h := NewGeminiHandler(services.NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash"))
	w := postJSON(t, h.GenerateIdea, "/gemini/generate_idea", map[string]any{"query": "tractors"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "AI API Error: Failed to generate content." {
		t.Fatalf("unexpected message: %v", resp)
	}
	if strings.Contains(w.Body.String(), "secret upstream detail") {
		t.Fatalf("upstream error leaked into response: %s", w.Body.String())
	}
}

func TestEnhanceDescriptionIncludesDetailsInPrompt(t *testing.T) {
	var prompt string
	srv := fakeGeminiServer(t, http.StatusOK, "Unbeatable power at an unbeatable price!", &prompt)
	defer srv.Close()

	h := NewGeminiHandler(services.NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash"))
	w := postJSON(t, h.EnhanceDescription, "/gemini/enhance_description", map[string]any{
		"product_name": "Compact Tractor",
		"price":        "12000",
		"details":      "54 HP, 4WD",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	for _, want := range []string{"Name: Compact Tractor", "Price: 12000", "Details: 54 HP, 4WD"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected %q in prompt, got %q", want, prompt)
		}
	}
}

func TestEnhanceDescriptionOmitsEmptyDetails(t *testing.T) {
	var prompt string
	srv := fakeGeminiServer(t, http.StatusOK, "ok", &prompt)
	defer srv.Close()

	h := NewGeminiHandler(services.NewGeminiClient(srv.URL, "test-key", "gemini-1.5-flash"))
	w := postJSON(t, h.EnhanceDescription, "/gemini/enhance_description", map[string]any{
		"product_name": "Compact Tractor",
		"price":        "12000",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if strings.Contains(prompt, "Details:") {
		t.Fatalf("did not expect Details line in prompt, got %q", prompt)
	}
}
