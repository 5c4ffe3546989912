package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careloop/careloop-backend/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", server.URL)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	client, err := NewClient(log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func candidateBody(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if _, err := NewClient(log); err == nil {
		t.Fatal("NewClient succeeded without GEMINI_API_KEY")
	}
}

func TestGenerateTextDecodesCandidate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("path=%q, want default model generateContent", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("x-goog-api-key=%q, want test-key", got)
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			SystemInstruction *struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "You are helpful." {
			t.Errorf("system instruction not forwarded: %s", body)
		}
		w.Write([]byte(candidateBody("Stay hydrated.")))
	}))

	text, err := client.GenerateText(context.Background(), "You are helpful.", "hydration tip")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "Stay hydrated." {
		t.Fatalf("text=%q", text)
	}
}

func TestGenerateTextNoCandidates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))

	if _, err := client.GenerateText(context.Background(), "", "anything"); err == nil {
		t.Fatal("GenerateText succeeded with no candidates")
	}
}

func TestGenerateJSONRequestsJSONMime(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"responseMimeType":"application/json"`) {
			t.Errorf("request missing json mime type: %s", body)
		}
		w.Write([]byte(candidateBody(`{"items": [1, 2]}`)))
	}))

	raw, err := client.GenerateJSON(context.Background(), "", "list two numbers")
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	var decoded struct {
		Items []int `json:"items"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(decoded.Items) != 2 {
		t.Fatalf("items=%v, want two entries", decoded.Items)
	}
}

func TestGenerateJSONRejectsInvalidPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateBody("not json at all")))
	}))

	if _, err := client.GenerateJSON(context.Background(), "", "anything"); err == nil {
		t.Fatal("GenerateJSON accepted non-JSON model output")
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 429}}`, http.StatusTooManyRequests)
	}))

	if _, err := client.GenerateText(context.Background(), "", "anything"); err == nil {
		t.Fatal("GenerateText succeeded on http 429")
	}
}
