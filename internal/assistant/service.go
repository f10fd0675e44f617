package assistant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

// ConversationStore is the append-only turn gateway.
type ConversationStore interface {
	Append(ctx context.Context, row *domain.ConversationTurn) error
	SessionHistory(ctx context.Context, sessionID uuid.UUID, projectID *uuid.UUID) ([]domain.ConversationTurn, error)
	UserHistory(ctx context.Context, userID, excludeSessionID uuid.UUID, projectID *uuid.UUID, limit int) ([]domain.ConversationTurn, error)
	RecentProjectTurns(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ConversationTurn, error)
}

type PostStore interface {
	InWindow(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]domain.ScheduledPost, error)
}

type StatsSource interface {
	Snapshot(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, error)
}

type StatsCache interface {
	Get(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, bool)
	Set(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStats)
}

type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RequestContext struct {
	CurrentProject *ProjectRef    `json:"currentProject,omitempty"`
	CurrentPage    string         `json:"currentPage,omitempty"`
	UserTimezone   string         `json:"userTimezone,omitempty"`
	VisibleData    map[string]any `json:"visibleData,omitempty"`
}

type Request struct {
	Prompt    string          `json:"prompt"`
	Context   *RequestContext `json:"context,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

type Metadata struct {
	RAGSearched            bool     `json:"ragSearched"`
	RAGResults             int      `json:"ragResults"`
	Categories             []string `json:"categories"`
	Language               Language `json:"language"`
	SessionContinued       bool     `json:"sessionContinued"`
	Timezone               string   `json:"timezone"`
	TodayPostsSearched     bool     `json:"todayPostsSearched"`
	YesterdayPostsSearched bool     `json:"yesterdayPostsSearched"`
}

type Reply struct {
	Response string   `json:"response"`
	Metadata Metadata `json:"metadata"`
}

type Deps struct {
	Conversations ConversationStore
	Posts         PostStore
	Stats         StatsSource
	StatsCache    StatsCache // optional
	Retriever     *Retriever
	Generator     TextGenerator // optional; nil degrades to the fallback answer

	DefaultTimezone string
	QueryTimeout    time.Duration
}

type Service struct {
	log  *logger.Logger
	deps Deps
	now  func() time.Time
}

func NewService(log *logger.Logger, deps Deps) *Service {
	if deps.DefaultTimezone == "" {
		deps.DefaultTimezone = "America/Sao_Paulo"
	}
	if deps.QueryTimeout <= 0 {
		deps.QueryTimeout = 10 * time.Second
	}
	return &Service{
		log:  log.With("service", "AssistantService"),
		deps: deps,
		now:  time.Now,
	}
}

// Answer runs the full pipeline for one validated request. It never returns an
// error: every internal failure degrades into an absent context section or the
// localized fallback answer, and the two conversation turns are appended
// regardless.
func (s *Service) Answer(ctx context.Context, req Request) Reply {
	prompt := req.Prompt
	lang := DetectLanguage(prompt)
	cats := Categorize(prompt)

	userID := uuid.MustParse(ResolveIdentifier(req.UserID))
	sessionID := uuid.MustParse(ResolveIdentifier(req.SessionID))

	tz := s.deps.DefaultTimezone
	var page string
	var visible map[string]any
	var projectID *uuid.UUID
	if req.Context != nil {
		if req.Context.UserTimezone != "" {
			tz = req.Context.UserTimezone
		}
		page = req.Context.CurrentPage
		visible = req.Context.VisibleData
		if req.Context.CurrentProject != nil {
			if pid, err := uuid.Parse(req.Context.CurrentProject.ID); err == nil && pid != uuid.Nil {
				projectID = &pid
			}
		}
	}
	loc := ResolveLocation(tz, s.deps.DefaultTimezone)
	now := s.now()

	wantToday := hasCategory(cats, CategoryPostsToday)
	wantYesterday := hasCategory(cats, CategoryPostsYesterday)
	// Date-scoped fetch and semantic retrieval are mutually exclusive: when the
	// day listing answers the question, the heavier search is wasted work.
	dateBranch := projectID != nil && (wantToday || wantYesterday)
	ragBranch := projectID != nil && !dateBranch

	var (
		sessionHist    []domain.ConversationTurn
		userHist       []domain.ConversationTurn
		stats          *domain.ProjectStats
		todayPosts     *DayPosts
		yesterdayPosts *DayPosts
		retrieval      []domain.RetrievalResult
	)

	// Independent reads run concurrently; every branch recovers locally, so the
	// group never carries an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessionHist = s.loadSessionHistory(gctx, sessionID, projectID)
		return nil
	})
	g.Go(func() error {
		userHist = s.loadUserHistory(gctx, userID, sessionID, projectID)
		return nil
	})
	if projectID != nil {
		pid := *projectID
		g.Go(func() error {
			stats = s.loadStats(gctx, pid)
			return nil
		})
	}
	if dateBranch {
		pid := *projectID
		if wantToday {
			g.Go(func() error {
				todayPosts = s.loadDayPosts(gctx, pid, now, loc, 0)
				return nil
			})
		}
		if wantYesterday {
			g.Go(func() error {
				yesterdayPosts = s.loadDayPosts(gctx, pid, now, loc, 1)
				return nil
			})
		}
	}
	if ragBranch {
		pid := *projectID
		g.Go(func() error {
			// The retriever bounds its own database lookups; the embedding call
			// carries the completion client's HTTP timeout.
			retrieval = s.deps.Retriever.Retrieve(gctx, pid, prompt, cats)
			return nil
		})
	}
	_ = g.Wait()

	memory := SessionContext{
		SessionHistory: sessionHist,
		UserHistory:    userHist,
		Extracted:      ExtractInfo(append(append([]domain.ConversationTurn{}, sessionHist...), userHist...)),
	}

	contextBlock := BuildContext(ContextInput{
		Language:       lang,
		Now:            now,
		Location:       loc,
		Timezone:       tz,
		CurrentPage:    page,
		VisibleData:    visible,
		Memory:         memory,
		Stats:          stats,
		TodayPosts:     todayPosts,
		YesterdayPosts: yesterdayPosts,
		Retrieval:      retrieval,
	})

	answer := s.generate(ctx, lang, contextBlock, prompt)

	meta := Metadata{
		RAGSearched:            ragBranch,
		RAGResults:             len(retrieval),
		Categories:             categoryStrings(cats),
		Language:               lang,
		SessionContinued:       len(sessionHist) > 0,
		Timezone:               tz,
		TodayPostsSearched:     dateBranch && wantToday,
		YesterdayPostsSearched: dateBranch && wantYesterday,
	}

	s.persistTurn(ctx, userID, sessionID, projectID, domain.RoleUser, prompt, meta)
	s.persistTurn(ctx, userID, sessionID, projectID, domain.RoleAssistant, answer, meta)

	return Reply{Response: answer, Metadata: meta}
}

func (s *Service) generate(ctx context.Context, lang Language, contextBlock, prompt string) string {
	if s.deps.Generator == nil {
		s.log.Error("Completion client not configured, using fallback answer")
		return FallbackMessage(lang)
	}
	system := SystemPrompt(lang) + "\n\n" + contextBlock
	answer, err := s.deps.Generator.GenerateText(ctx, system, prompt)
	if err != nil {
		s.log.Error("Completion call failed, using fallback answer", "error", err)
		return FallbackMessage(lang)
	}
	return answer
}

func (s *Service) loadSessionHistory(ctx context.Context, sessionID uuid.UUID, projectID *uuid.UUID) []domain.ConversationTurn {
	qctx, cancel := context.WithTimeout(ctx, s.deps.QueryTimeout)
	defer cancel()
	turns, err := s.deps.Conversations.SessionHistory(qctx, sessionID, projectID)
	if err != nil {
		s.log.Warn("Session history read failed", "session_id", sessionID.String(), "error", err)
		return nil
	}
	return turns
}

func (s *Service) loadUserHistory(ctx context.Context, userID, sessionID uuid.UUID, projectID *uuid.UUID) []domain.ConversationTurn {
	qctx, cancel := context.WithTimeout(ctx, s.deps.QueryTimeout)
	defer cancel()
	turns, err := s.deps.Conversations.UserHistory(qctx, userID, sessionID, projectID, 10)
	if err != nil {
		s.log.Warn("User history read failed", "user_id", userID.String(), "error", err)
		return nil
	}
	return turns
}

// loadStats returns nil on any failure: the metrics section is then omitted
// rather than filled with zeros, because zero is a legitimate count.
func (s *Service) loadStats(ctx context.Context, projectID uuid.UUID) *domain.ProjectStats {
	if s.deps.StatsCache != nil {
		if cached, ok := s.deps.StatsCache.Get(ctx, projectID); ok {
			return cached
		}
	}
	qctx, cancel := context.WithTimeout(ctx, s.deps.QueryTimeout)
	defer cancel()
	stats, err := s.deps.Stats.Snapshot(qctx, projectID)
	if err != nil {
		s.log.Warn("Stats aggregate failed", "project_id", projectID.String(), "error", err)
		return nil
	}
	if stats != nil && s.deps.StatsCache != nil {
		s.deps.StatsCache.Set(ctx, projectID, stats)
	}
	return stats
}

// loadDayPosts returns nil on failure ("could not check"), and a non-nil empty
// DayPosts when the day genuinely had nothing.
func (s *Service) loadDayPosts(ctx context.Context, projectID uuid.UUID, now time.Time, loc *time.Location, daysAgo int) *DayPosts {
	start, end := DayWindow(now, loc, daysAgo)
	qctx, cancel := context.WithTimeout(ctx, s.deps.QueryTimeout)
	defer cancel()
	rows, err := s.deps.Posts.InWindow(qctx, projectID, start, end)
	if err != nil {
		s.log.Warn("Day-scoped post fetch failed", "project_id", projectID.String(), "days_ago", daysAgo, "error", err)
		return nil
	}
	return PartitionPosts(rows)
}

// persistTurn appends one turn. A persistence failure is logged and swallowed:
// it must never block the user-facing response.
func (s *Service) persistTurn(ctx context.Context, userID, sessionID uuid.UUID, projectID *uuid.UUID, role, message string, meta Metadata) {
	raw, err := json.Marshal(map[string]any{
		"categories": meta.Categories,
		"language":   meta.Language,
		"timezone":   meta.Timezone,
	})
	if err != nil {
		raw = []byte(`{}`)
	}
	qctx, cancel := context.WithTimeout(ctx, s.deps.QueryTimeout)
	defer cancel()
	appendErr := s.deps.Conversations.Append(qctx, &domain.ConversationTurn{
		UserID:    userID,
		ProjectID: projectID,
		SessionID: sessionID,
		Role:      role,
		Message:   message,
		Metadata:  raw,
		CreatedAt: s.now().UTC(),
	})
	if appendErr != nil {
		s.log.Error("Turn append failed", "session_id", sessionID.String(), "role", role, "error", appendErr)
	}
}
