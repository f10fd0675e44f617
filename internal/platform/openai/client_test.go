package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", baseURL)
	t.Setenv("OPENAI_MAX_RETRIES", "1")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if _, err := NewClient(log); err == nil {
		t.Fatal("expected error without OPENAI_API_KEY")
	}
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		// Out-of-order data entries must land at their declared index.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0.3, 0.4}},
				{"index": 0, "embedding": []float64{0.1, 0.2}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Embed(context.Background(), []string{"primeira", "segunda"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(got))
	}
	if got[0][0] != 0.1 || got[1][0] != 0.3 {
		t.Fatalf("vectors not reordered by index: %v", got)
	}
}

func TestGenerateTextRetriesOn500(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{
					"type": "message",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": "tudo certo"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.GenerateText(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "tudo certo" {
		t.Fatalf("unexpected text: %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
}

func TestGenerateTextEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"output": []map[string]any{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GenerateText(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error on empty output")
	}
}

func TestExtractOutputText(t *testing.T) {
	t.Parallel()

	resp := responsesResponse{}
	raw := `{"output":[
		{"type":"reasoning"},
		{"type":"message","role":"assistant","content":[
			{"type":"output_text","text":"parte um. "},
			{"type":"refusal","text":"ignored"},
			{"type":"output_text","text":"parte dois."}
		]}
	]}`
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if got := extractOutputText(resp); got != "parte um. parte dois." {
		t.Fatalf("unexpected text: %q", got)
	}
}
