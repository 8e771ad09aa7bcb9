//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pulse-server/services/advisor-api/internal/config"
	"pulse-server/services/advisor-api/internal/domain/agent"
	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/domain/llm"
	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/retry"
	"pulse-server/services/advisor-api/internal/domain/tool"
	"pulse-server/services/advisor-api/internal/domain/user"
	"pulse-server/services/advisor-api/internal/infrastructure/database"
	"pulse-server/services/advisor-api/internal/infrastructure/deviceapi"
	"pulse-server/services/advisor-api/internal/infrastructure/embeddings"
	"pulse-server/services/advisor-api/internal/infrastructure/llmprovider"
	"pulse-server/services/advisor-api/internal/infrastructure/logger"
	interactionrepo "pulse-server/services/advisor-api/internal/infrastructure/repository/interaction"
	"pulse-server/services/advisor-api/internal/infrastructure/repository/userstore"
	"pulse-server/services/advisor-api/internal/infrastructure/vectorstore"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver"
	"pulse-server/services/advisor-api/internal/worker"
)

var advisorSet = wire.NewSet(
	interactionrepo.NewPostgresRepository,
	wire.Bind(new(interaction.Repository), new(*interactionrepo.PostgresRepository)),
	userstore.NewPostgresRepository,
	wire.Bind(new(user.Store), new(*userstore.PostgresRepository)),
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newDeviceClient,
	wire.Bind(new(metric.DeviceClient), new(*deviceapi.Client)),
	newEmbeddingClient,
	wire.Bind(new(knowledge.Embedder), new(*embeddings.Client)),
	newVectorClient,
	wire.Bind(new(knowledge.Index), new(*vectorstore.Client)),
	metric.NewExtractor,
	newRetriever,
	newCatalog,
	newLogWriterPool,
	wire.Bind(new(agent.Sink), new(*worker.Pool)),
	newOrchestrator,
)

// BuildApplication assembles the advisor service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		advisorSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.LLMAPIURL)
}

func newDeviceClient(cfg *config.Config, log zerolog.Logger) *deviceapi.Client {
	return deviceapi.NewClient(cfg.DeviceAPIURL, retry.DefaultPolicy(), log)
}

func newEmbeddingClient(cfg *config.Config) *embeddings.Client {
	return embeddings.NewClient(cfg.EmbeddingsURL)
}

func newVectorClient(cfg *config.Config) *vectorstore.Client {
	return vectorstore.NewClient(cfg.VectorIndexURL)
}

func newRetriever(embedder knowledge.Embedder, index knowledge.Index, cfg *config.Config, log zerolog.Logger) *knowledge.Retriever {
	return knowledge.NewRetriever(embedder, index, cfg.RetrievalTopK, log)
}

func newCatalog(extractor *metric.Extractor, retriever *knowledge.Retriever, cfg *config.Config, log zerolog.Logger) *tool.Catalog {
	return tool.NewCatalog(
		extractor,
		retriever,
		knowledge.Partition(cfg.PodcastPartition),
		knowledge.Partition(cfg.MedicalPartition),
		log,
	)
}

func newLogWriterPool(logs interaction.Repository, cfg *config.Config, log zerolog.Logger) *worker.Pool {
	return worker.NewPool(
		logs,
		worker.Config{
			WriterCount:  cfg.LogWriterCount,
			QueueSize:    cfg.LogQueueSize,
			WriteTimeout: cfg.ShutdownTimeout,
		},
		log,
	)
}

func newOrchestrator(
	provider llm.Provider,
	catalog *tool.Catalog,
	users user.Store,
	logs agent.Sink,
	cfg *config.Config,
	log zerolog.Logger,
) *agent.Orchestrator {
	return agent.NewOrchestrator(
		provider,
		catalog,
		users,
		logs,
		cfg.LLMModel,
		cfg.MaxAgentTurns,
		cfg.ToolTimeout,
		log,
	)
}
