package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type RetrievalRepo interface {
	// MatchDocuments calls the match_project_documents SQL function: cosine
	// search over the project's document embeddings with a similarity floor.
	// Results come back ordered by similarity descending; callers must not
	// re-sort them. A nil categories slice applies no category filter.
	MatchDocuments(ctx context.Context, projectID uuid.UUID, embedding []float32, threshold float64, limit int, categories []string) ([]domain.RetrievalResult, error)
}

type retrievalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRetrievalRepo(db *gorm.DB, log *logger.Logger) RetrievalRepo {
	return &retrievalRepo{
		db:  db,
		log: log.With("repo", "RetrievalRepo"),
	}
}

type matchRow struct {
	Content    string  `gorm:"column:content"`
	Source     string  `gorm:"column:source"`
	Similarity float64 `gorm:"column:similarity"`
	Metadata   []byte  `gorm:"column:metadata"`
}

func (r *retrievalRepo) MatchDocuments(ctx context.Context, projectID uuid.UUID, embedding []float32, threshold float64, limit int, categories []string) ([]domain.RetrievalResult, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("missing query embedding")
	}
	if limit <= 0 {
		limit = 20
	}

	var catArg any
	if len(categories) > 0 {
		catArg = "{" + strings.Join(categories, ",") + "}"
	}

	var rows []matchRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT content, source, similarity, metadata
		FROM match_project_documents(?::uuid, ?::vector, ?, ?, ?::text[])
	`, projectID, vectorLiteral(embedding), threshold, limit, catArg).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.RetrievalResult, 0, len(rows))
	for _, row := range rows {
		res := domain.RetrievalResult{
			Content:    row.Content,
			Source:     row.Source,
			Similarity: row.Similarity,
		}
		if len(row.Metadata) > 0 {
			_ = json.Unmarshal(row.Metadata, &res.Metadata)
		}
		out = append(out, res)
	}
	return out, nil
}

// vectorLiteral renders a pgvector input literal: [0.1,0.2,...].
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
