package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/cache"
	"ruraldraft-backend/handlers"
	"ruraldraft-backend/internal/config"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/internal/telemetry"
	"ruraldraft-backend/llm"
	"ruraldraft-backend/models"
	"ruraldraft-backend/render"
	"ruraldraft-backend/repository"
	"ruraldraft-backend/rules"
	"ruraldraft-backend/salary"
	"ruraldraft-backend/search"
	"ruraldraft-backend/service"
	"ruraldraft-backend/storage"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, version, cfg.Telemetry.Insecure)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize database connections
	db, err := initPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	defer db.Close()
	log.Info("postgres connection established", nil)

	var responseCache cache.Cache = cache.Nop{}
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		rc := cache.NewRedisCache(client, cache.WithTTL(cfg.Redis.TTL))
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, lookups will not be cached", map[string]interface{}{"error": err.Error()})
		} else {
			responseCache = rc
		}
	}

	// Initialize storage
	exportStorage, err := storage.NewStorage(ctx, storage.StorageConfig{
		Type:       storage.StorageType(cfg.Storage.Type),
		LocalPath:  cfg.Storage.LocalPath,
		S3Bucket:   cfg.Storage.S3Bucket,
		S3Region:   cfg.Storage.S3Region,
		S3Endpoint: cfg.Storage.S3Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("storage initialized", map[string]interface{}{"type": string(exportStorage.Type())})

	// Initialize repositories
	documentRepo := repository.NewDocumentRepository(db)
	jobRepo := repository.NewGenerationJobRepository(db)
	exportRepo := repository.NewExportRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)
	jurisdictionRepo := repository.NewJurisdictionRepository(db)

	// Agents
	table := salary.DefaultTable()
	registry := agent.NewRegistry(agent.RegistryWithLogger(log))
	registry.Register(agent.NewMaternityAgent(
		agent.MaternityWithTable(table),
		agent.MaternityWithPeriods(cfg.Payment.Periods),
	))

	priorities, err := rules.NewPriorityEngine()
	if err != nil {
		return fmt.Errorf("failed to compile priority rules: %w", err)
	}

	router := initGenerators(ctx, cfg, log)

	knowledgeOpts := []service.KnowledgeServiceOption{
		service.KnowledgeWithStore(knowledgeRepo),
		service.KnowledgeWithCache(responseCache),
		service.KnowledgeWithLogger(log),
	}
	if embedder, err := llm.NewGenAIEmbedder(ctx, cfg.LLM.GeminiAPIKey, cfg.Embedding.Model, cfg.Embedding.Dimensions); err != nil {
		log.Warn("semantic knowledge search disabled", map[string]interface{}{"error": err.Error()})
	} else {
		knowledgeOpts = append(knowledgeOpts, service.KnowledgeWithEmbedder(embedder))
	}

	orchestratorOpts := []service.OrchestratorOption{
		service.OrchestratorWithRegistry(registry),
		service.OrchestratorWithRouter(router),
		service.OrchestratorWithKnowledge(service.NewKnowledgeService(knowledgeOpts...)),
		service.OrchestratorWithJurisdiction(jurisdictionRepo),
		service.OrchestratorWithPriorityRules(priorities),
		service.OrchestratorWithLogger(log),
	}
	if cfg.Search.SerperAPIKey != "" {
		orchestratorOpts = append(orchestratorOpts, service.OrchestratorWithSearch(search.NewClient(
			cfg.Search.SerperAPIKey,
			search.WithTimeout(cfg.Search.Timeout),
			search.WithCache(responseCache),
		)))
	} else {
		log.Warn("SERPER_API_KEY not set, INSS address and case-law search disabled", nil)
	}

	documentService := service.NewDocumentService(
		service.DocumentWithPipeline(service.NewOrchestrator(orchestratorOpts...)),
		service.DocumentWithRenderer(render.New(
			render.WithOffice(officeFromConfig(cfg.Office)),
			render.WithLogger(log),
		)),
		service.DocumentWithDocumentStore(documentRepo),
		service.DocumentWithJobStore(jobRepo),
		service.DocumentWithExportStore(exportRepo),
		service.DocumentWithStorage(exportStorage),
		service.DocumentWithLogger(log),
	)

	// Setup Gin router
	gin.SetMode(cfg.Server.Mode)
	engine := handlers.NewRouter(handlers.RouterConfig{
		Documents: handlers.NewDocumentHandler(documentService, log),
		Reference: handlers.NewReferenceHandler(registry, table, cfg.Payment.Periods),
		Database:  db,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", map[string]interface{}{"port": cfg.Server.Port, "version": version})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	sctx, scancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer scancel()
	return srv.Shutdown(sctx)
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// initGenerators registers every provider with credentials. A request for a
// provider that is not registered fails with llm.ErrUnknownProvider.
func initGenerators(ctx context.Context, cfg *config.Config, log logger.Logger) *llm.Router {
	var generators []llm.Generator

	gemini, err := llm.DialGemini(ctx, cfg.LLM.GeminiAPIKey,
		llm.GeminiWithModel(cfg.LLM.GeminiModel),
		llm.GeminiWithTimeout(cfg.LLM.Timeout),
	)
	if err != nil {
		log.Warn("gemini provider disabled", map[string]interface{}{"error": err.Error()})
	} else {
		generators = append(generators, gemini)
	}

	if cfg.LLM.OpenAIAPIKey != "" {
		generators = append(generators, llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey,
			llm.OpenAIWithBaseURL(cfg.LLM.OpenAIBaseURL),
			llm.OpenAIWithModel(cfg.LLM.OpenAIModel),
			llm.OpenAIWithTimeout(cfg.LLM.Timeout),
		))
	} else {
		log.Warn("openai provider disabled", map[string]interface{}{"error": "OPENAI_API_KEY not set"})
	}

	router := llm.NewRouter(cfg.LLM.DefaultProvider, generators...)
	log.Info("generation providers ready", map[string]interface{}{
		"providers": router.Providers(),
		"default":   router.Default(),
	})
	return router
}

func officeFromConfig(oc config.OfficeConfig) *models.Office {
	if oc.Name == "" {
		return nil
	}
	return &models.Office{
		Name:    oc.Name,
		CNPJ:    oc.CNPJ,
		Address: oc.Address,
		Phone:   oc.Phone,
		Email:   oc.Email,
		Slogan:  oc.Slogan,
		LogoURL: oc.LogoURL,
	}
}
