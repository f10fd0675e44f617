package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vigiahub/assistant-backend/internal/assistant"
	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type stubConvStore struct {
	mu      sync.Mutex
	appends int
}

func (s *stubConvStore) Append(_ context.Context, _ *domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	return nil
}

func (s *stubConvStore) SessionHistory(_ context.Context, _ uuid.UUID, _ *uuid.UUID) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (s *stubConvStore) UserHistory(_ context.Context, _, _ uuid.UUID, _ *uuid.UUID, _ int) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (s *stubConvStore) RecentProjectTurns(_ context.Context, _ uuid.UUID, _ int) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (s *stubConvStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends
}

type stubPostStore struct{}

func (stubPostStore) InWindow(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]domain.ScheduledPost, error) {
	return nil, nil
}

type stubStats struct{}

func (stubStats) Snapshot(_ context.Context, _ uuid.UUID) (*domain.ProjectStats, error) {
	return nil, nil
}

type stubGenerator struct{ answer string }

func (g stubGenerator) GenerateText(_ context.Context, _, _ string) (string, error) {
	return g.answer, nil
}

func newTestHandler(t *testing.T, conv *stubConvStore) *AssistantHandler {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	svc := assistant.NewService(log, assistant.Deps{
		Conversations: conv,
		Posts:         stubPostStore{},
		Stats:         stubStats{},
		Retriever:     assistant.NewRetriever(log, nil, nil, conv, 0),
		Generator:     stubGenerator{answer: "tudo certo"},
	})
	return NewAssistantHandler(log, svc)
}

func postAssistant(t *testing.T, h *AssistantHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/assistant", h.Ask)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAskMissingPrompt(t *testing.T) {
	t.Parallel()

	conv := &stubConvStore{}
	h := newTestHandler(t, conv)

	for _, body := range []string{`{}`, `{"prompt":""}`, `{"prompt":"   "}`} {
		rec := postAssistant(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: unexpected status %d", body, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Prompt is required"}` {
			t.Fatalf("body %s: unexpected response %s", body, got)
		}
	}
	if conv.count() != 0 {
		t.Fatalf("rejected requests must not persist turns, got %d", conv.count())
	}
}

func TestAskMalformedJSON(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &stubConvStore{})
	rec := postAssistant(t, h, `{"prompt":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Invalid request body"}` {
		t.Fatalf("unexpected response %s", got)
	}
}

func TestAskSuccess(t *testing.T) {
	t.Parallel()

	conv := &stubConvStore{}
	h := newTestHandler(t, conv)

	rec := postAssistant(t, h, `{"prompt":"quantas menções eu tenho?","sessionId":"abc-session"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var reply assistant.Reply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Response != "tudo certo" {
		t.Fatalf("unexpected response: %q", reply.Response)
	}
	if reply.Metadata.Language != assistant.LangPortuguese {
		t.Fatalf("unexpected language: %q", reply.Metadata.Language)
	}
	if reply.Metadata.RAGSearched {
		t.Fatalf("no project in request, ragSearched must be false")
	}
	if conv.count() != 2 {
		t.Fatalf("expected 2 persisted turns, got %d", conv.count())
	}
}
