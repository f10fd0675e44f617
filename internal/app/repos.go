package app

import (
	"gorm.io/gorm"

	"github.com/vigiahub/assistant-backend/internal/data/repos"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type Repos struct {
	Conversations repos.ConversationRepo
	Posts         repos.PostRepo
	Stats         repos.StatsRepo
	Retrieval     repos.RetrievalRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Conversations: repos.NewConversationRepo(db, log),
		Posts:         repos.NewPostRepo(db, log),
		Stats:         repos.NewStatsRepo(db, log),
		Retrieval:     repos.NewRetrievalRepo(db, log),
	}
}
