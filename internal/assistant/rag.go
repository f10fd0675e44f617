package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

const (
	// Floor for questions the categorizer could not classify: recall over
	// precision.
	similarityFloorGeneral = 0.2
	// Floor for tagged questions.
	similarityFloorTagged = 0.4

	semanticResultLimit = 20
	historyTurnLimit    = 50
	// Turns returned on the history path are treated as maximally relevant.
	historySimilarity = 0.95

	historySource = "conversation_turn"
)

// Embedder produces query embeddings.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// DocumentSearcher is the vector-search RPC boundary.
type DocumentSearcher interface {
	MatchDocuments(ctx context.Context, projectID uuid.UUID, embedding []float32, threshold float64, limit int, categories []string) ([]domain.RetrievalResult, error)
}

// HistoryReader supplies the direct conversation lookup used by the history
// category, which bypasses the embedding call entirely.
type HistoryReader interface {
	RecentProjectTurns(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ConversationTurn, error)
}

type Retriever struct {
	log      *logger.Logger
	embedder Embedder
	docs     DocumentSearcher
	history  HistoryReader

	// Applied to the database lookups only; the embedding call is bounded by
	// the HTTP client's own timeout.
	queryTimeout time.Duration
}

func NewRetriever(log *logger.Logger, embedder Embedder, docs DocumentSearcher, history HistoryReader, queryTimeout time.Duration) *Retriever {
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &Retriever{
		log:          log.With("service", "Retriever"),
		embedder:     embedder,
		docs:         docs,
		history:      history,
		queryTimeout: queryTimeout,
	}
}

// Retrieve runs exactly one of the two retrieval paths. Every failure inside
// degrades to an empty result set; retrieval never propagates an error.
func (r *Retriever) Retrieve(ctx context.Context, projectID uuid.UUID, query string, cats []Category) []domain.RetrievalResult {
	if hasCategory(cats, CategoryHistory) {
		return r.retrieveHistory(ctx, projectID)
	}
	return r.retrieveSemantic(ctx, projectID, query, cats)
}

func (r *Retriever) retrieveHistory(ctx context.Context, projectID uuid.UUID) []domain.RetrievalResult {
	qctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	turns, err := r.history.RecentProjectTurns(qctx, projectID, historyTurnLimit)
	if err != nil {
		r.log.Warn("History retrieval failed", "error", err)
		return nil
	}
	out := make([]domain.RetrievalResult, 0, len(turns))
	for _, turn := range turns {
		out = append(out, domain.RetrievalResult{
			Content:    turn.Message,
			Source:     historySource,
			Similarity: historySimilarity,
			Metadata: map[string]any{
				"role":       turn.Role,
				"created_at": turn.CreatedAt,
			},
		})
	}
	return out
}

func (r *Retriever) retrieveSemantic(ctx context.Context, projectID uuid.UUID, query string, cats []Category) []domain.RetrievalResult {
	if r.embedder == nil {
		r.log.Warn("Embedder not configured, skipping semantic retrieval")
		return nil
	}

	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil || len(embeddings) == 0 {
		r.log.Warn("Query embedding failed, skipping semantic retrieval", "error", err)
		return nil
	}

	floor := similarityFloorTagged
	var filter []string
	if onlyGeneral(cats) {
		floor = similarityFloorGeneral
	} else {
		filter = categoryStrings(cats)
	}

	qctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	results, err := r.docs.MatchDocuments(qctx, projectID, embeddings[0], floor, semanticResultLimit, filter)
	if err != nil {
		r.log.Warn("Vector search failed", "error", err)
		return nil
	}
	return results
}
