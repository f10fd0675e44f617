package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/envutil"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := envutil.GetEnv("DATABASE_URL", "", log)
	if dsn == "" {
		host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
		port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
		user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
		password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
		name := envutil.GetEnv("POSTGRES_NAME", "vigia", log)
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	}

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

// AutoMigrateAll migrates only the tables this service owns. The mention and
// channel tables behind the stats aggregate, and the document table behind
// match_project_documents, belong to the ingestion side.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&domain.ConversationTurn{},
		&domain.ScheduledPost{},
	); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}
