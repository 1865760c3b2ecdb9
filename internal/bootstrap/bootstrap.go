package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/config"
	"github.com/kitchenport/recipe-assistant/internal/core/ports"
	"github.com/kitchenport/recipe-assistant/internal/core/usecase"
	"github.com/kitchenport/recipe-assistant/internal/infrastructure/embedding/ollama"
	"github.com/kitchenport/recipe-assistant/internal/infrastructure/queue/nats"
	"github.com/kitchenport/recipe-assistant/internal/infrastructure/repository/postgres"
	"github.com/kitchenport/recipe-assistant/internal/infrastructure/resilience"
	sessionmemory "github.com/kitchenport/recipe-assistant/internal/infrastructure/session/memory"
	vectormemory "github.com/kitchenport/recipe-assistant/internal/infrastructure/vector/memory"
	"github.com/kitchenport/recipe-assistant/internal/infrastructure/vector/qdrant"
	"github.com/kitchenport/recipe-assistant/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Repo     ports.RecipeRepository
	Sessions ports.SessionStore

	SearchUC ports.RecipeSearcher
	ChatUC   ports.ChatService
	IngestUC ports.RecipeIngestor
	IndexUC  ports.RecipeIndexer
	StatsUC  ports.StatsReader

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRecipeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	embedder := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaEmbedModel, ollama.Options{
		Timeout:  time.Duration(cfg.EmbedTimeoutSeconds) * time.Second,
		Executor: executor,
	})

	var vectorDB ports.VectorStore
	switch cfg.VectorBackend {
	case "memory":
		vectorDB = vectormemory.New()
	default:
		vectorDB = qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	}

	sessions := sessionmemory.NewStore()

	retrieveUC := usecase.NewRetrieveUseCase(embedder, vectorDB, usecase.RetrieveConfig{
		DefaultTopK:     cfg.RetrieveTopKDefault,
		MaxTopK:         cfg.RetrieveTopKMax,
		OverfetchFactor: cfg.RetrieveOverfetchFactor,
		MinCandidates:   cfg.RetrieveMinCandidates,
	})
	chatUC := usecase.NewChatUseCase(retrieveUC, usecase.NewRuleClassifier(), sessions, usecase.ChatConfig{
		HistoryLimit: cfg.SessionHistoryLimit,
		TopK:         cfg.RetrieveTopKDefault,
	})
	ingestUC := usecase.NewIngestUseCase(repo, queue)
	indexUC := usecase.NewIndexUseCase(repo, embedder, vectorDB)
	statsUC := usecase.NewStatsUseCase(repo, cfg.EmbedVectorDimension)

	return &App{
		Config:   cfg,
		Queue:    queue,
		Repo:     repo,
		Sessions: sessions,

		SearchUC: retrieveUC,
		ChatUC:   chatUC,
		IngestUC: ingestUC,
		IndexUC:  indexUC,
		StatsUC:  statsUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// StartSessionJanitor evicts idle sessions on a fixed cadence until ctx
// is canceled. It owns expiry entirely; request handlers never check TTLs.
func (a *App) StartSessionJanitor(ctx context.Context, httpMetrics *metrics.HTTPServerMetrics) {
	ttl := time.Duration(a.Config.SessionIdleTTLMinutes) * time.Minute
	if ttl <= 0 {
		return
	}
	interval := ttl / 10
	if interval < time.Minute {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pruned := a.Sessions.PruneIdle(ttl)
				if pruned > 0 {
					slog.Info("sessions_pruned", "count", pruned, "idle_ttl", ttl.String())
				}
				if httpMetrics != nil {
					httpMetrics.RecordPrunedSessions(pruned)
					httpMetrics.SetActiveSessions(a.Sessions.Len())
				}
			}
		}
	}()
}
