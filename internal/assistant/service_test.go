package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vigiahub/assistant-backend/internal/domain"
)

type fakeConvStore struct {
	mu      sync.Mutex
	appends []domain.ConversationTurn

	session   []domain.ConversationTurn
	user      []domain.ConversationTurn
	appendErr error
}

func (f *fakeConvStore) Append(_ context.Context, row *domain.ConversationTurn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, *row)
	return nil
}

func (f *fakeConvStore) SessionHistory(_ context.Context, _ uuid.UUID, _ *uuid.UUID) ([]domain.ConversationTurn, error) {
	return f.session, nil
}

func (f *fakeConvStore) UserHistory(_ context.Context, _, _ uuid.UUID, _ *uuid.UUID, _ int) ([]domain.ConversationTurn, error) {
	return f.user, nil
}

func (f *fakeConvStore) RecentProjectTurns(_ context.Context, _ uuid.UUID, _ int) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (f *fakeConvStore) appended() []domain.ConversationTurn {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ConversationTurn, len(f.appends))
	copy(out, f.appends)
	return out
}

type fakePostStore struct {
	rows []domain.ScheduledPost
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakePostStore) InWindow(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]domain.ScheduledPost, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeStatsSource struct {
	stats *domain.ProjectStats
	err   error
}

func (f *fakeStatsSource) Snapshot(_ context.Context, _ uuid.UUID) (*domain.ProjectStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

type fakeGenerator struct {
	answer string
	err    error

	mu        sync.Mutex
	gotSystem string
	calls     int
}

func (f *fakeGenerator) GenerateText(_ context.Context, system, _ string) (string, error) {
	f.mu.Lock()
	f.gotSystem = system
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestService(t *testing.T, conv *fakeConvStore, posts *fakePostStore, stats *fakeStatsSource, gen TextGenerator, searcher *fakeSearcher) *Service {
	t.Helper()
	log := testLogger(t)
	return NewService(log, Deps{
		Conversations:   conv,
		Posts:           posts,
		Stats:           stats,
		Retriever:       NewRetriever(log, &fakeEmbedder{}, searcher, conv, 2*time.Second),
		Generator:       gen,
		DefaultTimezone: "America/Sao_Paulo",
		QueryTimeout:    2 * time.Second,
	})
}

func testProjectRequest(prompt string) Request {
	return Request{
		Prompt:    prompt,
		UserID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		SessionID: "b3e1f6a0-1234-4cde-9abc-0123456789ab",
		Context: &RequestContext{
			CurrentProject: &ProjectRef{ID: "a1b2c3d4-0000-4000-8000-000000000001", Name: "Demo"},
			UserTimezone:   "America/Sao_Paulo",
		},
	}
}

func TestAnswerDayBranch(t *testing.T) {
	t.Parallel()

	posted := time.Now().UTC()
	conv := &fakeConvStore{}
	posts := &fakePostStore{rows: []domain.ScheduledPost{
		{Message: "post de hoje", Status: domain.PostStatusPosted, PostedAt: &posted},
	}}
	gen := &fakeGenerator{answer: "Você publicou 1 post hoje."}
	searcher := &fakeSearcher{}
	svc := newTestService(t, conv, posts, &fakeStatsSource{stats: &domain.ProjectStats{TotalMentions: 5}}, gen, searcher)

	reply := svc.Answer(context.Background(), testProjectRequest("o que foi postado hoje?"))

	if reply.Response != "Você publicou 1 post hoje." {
		t.Fatalf("unexpected response: %q", reply.Response)
	}
	meta := reply.Metadata
	if !meta.TodayPostsSearched || meta.YesterdayPostsSearched {
		t.Fatalf("day flags wrong: %+v", meta)
	}
	if meta.RAGSearched || meta.RAGResults != 0 {
		t.Fatalf("day branch must not run retrieval: %+v", meta)
	}
	if meta.Language != LangPortuguese {
		t.Fatalf("unexpected language: %q", meta.Language)
	}
	if gen.gotSystem == "" || !strings.Contains(gen.gotSystem, "Postagens de hoje") {
		t.Fatalf("day section missing from model context:\n%s", gen.gotSystem)
	}
	if searcher.gotLimit != 0 {
		t.Fatalf("vector search should not have been called")
	}

	turns := conv.appended()
	if len(turns) != 2 {
		t.Fatalf("expected exactly 2 appended turns, got %d", len(turns))
	}
	if turns[0].Role != domain.RoleUser || turns[0].Message != "o que foi postado hoje?" {
		t.Fatalf("first turn wrong: %+v", turns[0])
	}
	if turns[1].Role != domain.RoleAssistant || turns[1].Message != reply.Response {
		t.Fatalf("second turn wrong: %+v", turns[1])
	}
}

func TestAnswerRAGBranch(t *testing.T) {
	t.Parallel()

	conv := &fakeConvStore{}
	searcher := &fakeSearcher{results: []domain.RetrievalResult{
		{Content: "menção sobre o produto", Source: "mention", Similarity: 0.6},
	}}
	gen := &fakeGenerator{answer: "Encontrei uma menção relevante."}
	svc := newTestService(t, conv, &fakePostStore{}, &fakeStatsSource{}, gen, searcher)

	reply := svc.Answer(context.Background(), testProjectRequest("o que falam sobre o produto?"))

	meta := reply.Metadata
	if !meta.RAGSearched {
		t.Fatalf("expected ragSearched, got %+v", meta)
	}
	if meta.RAGResults != 1 {
		t.Fatalf("unexpected ragResults: %d", meta.RAGResults)
	}
	if meta.TodayPostsSearched || meta.YesterdayPostsSearched {
		t.Fatalf("rag branch must not fetch day posts: %+v", meta)
	}
	if len(meta.Categories) != 1 || meta.Categories[0] != "general" {
		t.Fatalf("unexpected categories: %v", meta.Categories)
	}
}

func TestAnswerGenerationFailureFallsBack(t *testing.T) {
	t.Parallel()

	conv := &fakeConvStore{}
	gen := &fakeGenerator{err: errors.New("upstream 500")}
	svc := newTestService(t, conv, &fakePostStore{}, &fakeStatsSource{}, gen, &fakeSearcher{})

	reply := svc.Answer(context.Background(), testProjectRequest("quantas menções eu tenho?"))

	want := "Desculpe, não consegui processar sua pergunta agora. Tente novamente em instantes."
	if reply.Response != want {
		t.Fatalf("unexpected fallback: %q", reply.Response)
	}
	turns := conv.appended()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns even on failure, got %d", len(turns))
	}
	if turns[1].Message != want {
		t.Fatalf("fallback not persisted as assistant turn: %q", turns[1].Message)
	}
}

func TestAnswerWithoutProject(t *testing.T) {
	t.Parallel()

	conv := &fakeConvStore{}
	posts := &fakePostStore{}
	gen := &fakeGenerator{answer: "ok"}
	searcher := &fakeSearcher{}
	svc := newTestService(t, conv, posts, &fakeStatsSource{}, gen, searcher)

	reply := svc.Answer(context.Background(), Request{Prompt: "o que foi postado hoje?"})

	meta := reply.Metadata
	if meta.RAGSearched || meta.TodayPostsSearched || meta.YesterdayPostsSearched {
		t.Fatalf("project-scoped work must be skipped without a project: %+v", meta)
	}
	if posts.calls != 0 {
		t.Fatalf("post store should not have been queried, got %d calls", posts.calls)
	}
	if len(conv.appended()) != 2 {
		t.Fatalf("turns must still be appended without a project")
	}
}

func TestAnswerSessionContinued(t *testing.T) {
	t.Parallel()

	conv := &fakeConvStore{session: []domain.ConversationTurn{
		{Role: domain.RoleUser, Message: "oi", CreatedAt: time.Now().UTC()},
	}}
	gen := &fakeGenerator{answer: "olá de novo"}
	svc := newTestService(t, conv, &fakePostStore{}, &fakeStatsSource{}, gen, &fakeSearcher{})

	reply := svc.Answer(context.Background(), testProjectRequest("continuando nossa conversa de agora"))
	if !reply.Metadata.SessionContinued {
		t.Fatalf("expected sessionContinued with prior session turns")
	}
}

func TestAnswerAppendFailureDoesNotBlockReply(t *testing.T) {
	t.Parallel()

	conv := &fakeConvStore{appendErr: errors.New("db down")}
	gen := &fakeGenerator{answer: "resposta"}
	svc := newTestService(t, conv, &fakePostStore{}, &fakeStatsSource{}, gen, &fakeSearcher{})

	reply := svc.Answer(context.Background(), testProjectRequest("qualquer pergunta"))
	if reply.Response != "resposta" {
		t.Fatalf("append failure leaked into the reply: %q", reply.Response)
	}
}
