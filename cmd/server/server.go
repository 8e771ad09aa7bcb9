package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"pulse-server/services/advisor-api/internal/config"
	"pulse-server/services/advisor-api/internal/domain/agent"
	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/retry"
	"pulse-server/services/advisor-api/internal/domain/tool"
	"pulse-server/services/advisor-api/internal/infrastructure/database"
	"pulse-server/services/advisor-api/internal/infrastructure/deviceapi"
	"pulse-server/services/advisor-api/internal/infrastructure/embeddings"
	"pulse-server/services/advisor-api/internal/infrastructure/llmprovider"
	"pulse-server/services/advisor-api/internal/infrastructure/logger"
	"pulse-server/services/advisor-api/internal/infrastructure/observability"
	interactionrepo "pulse-server/services/advisor-api/internal/infrastructure/repository/interaction"
	"pulse-server/services/advisor-api/internal/infrastructure/repository/userstore"
	"pulse-server/services/advisor-api/internal/infrastructure/vectorstore"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver"
	"pulse-server/services/advisor-api/internal/worker"
)

// Application bundles the long-lived service components.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	interactionRepository := interactionrepo.NewPostgresRepository(db)
	userStore := userstore.NewPostgresRepository(db)

	llmClient := llmprovider.NewClient(cfg.LLMAPIURL)
	deviceClient := deviceapi.NewClient(cfg.DeviceAPIURL, retry.DefaultPolicy(), log)
	embeddingClient := embeddings.NewClient(cfg.EmbeddingsURL)
	vectorClient := vectorstore.NewClient(cfg.VectorIndexURL)

	extractor := metric.NewExtractor(deviceClient, log)
	retriever := knowledge.NewRetriever(embeddingClient, vectorClient, cfg.RetrievalTopK, log)
	catalog := tool.NewCatalog(
		extractor,
		retriever,
		knowledge.Partition(cfg.PodcastPartition),
		knowledge.Partition(cfg.MedicalPartition),
		log,
	)

	logWriterPool := worker.NewPool(
		interactionRepository,
		worker.Config{
			WriterCount:  cfg.LogWriterCount,
			QueueSize:    cfg.LogQueueSize,
			WriteTimeout: cfg.ShutdownTimeout,
		},
		log,
	)
	logWriterPool.Start(ctx)
	defer logWriterPool.Stop()

	orchestrator := agent.NewOrchestrator(
		llmClient,
		catalog,
		userStore,
		logWriterPool,
		cfg.LLMModel,
		cfg.MaxAgentTurns,
		cfg.ToolTimeout,
		log,
	)

	httpServer := httpserver.New(cfg, log, orchestrator, interactionRepository, userStore)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
