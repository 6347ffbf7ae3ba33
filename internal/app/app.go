package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ai-jeopardy/internal/config"
	"github.com/gokatarajesh/ai-jeopardy/internal/game"
	"github.com/gokatarajesh/ai-jeopardy/internal/logging"
	"github.com/gokatarajesh/ai-jeopardy/internal/question"
	"github.com/gokatarajesh/ai-jeopardy/internal/question/ai"
	"github.com/gokatarajesh/ai-jeopardy/internal/server"
	ws "github.com/gokatarajesh/ai-jeopardy/pkg/http/ws"
)

const sweepInterval = 5 * time.Minute

// Application aggregates shared infrastructure (cache, sessions, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	redis *redis.Client
	http  *http.Server

	memoryStore *game.MemoryStore
	bgCancels   []context.CancelFunc
}

// New bootstraps the logger, optional Redis, the generation pipeline and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.WithLevel(logging.New(cfg.Name, cfg.Env), cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis not reachable at startup")
		}
	} else {
		logger.Info().Msg("REDIS_ADDR not set; answer cache disabled")
	}

	backend, err := ai.NewBackend(aiConfig(cfg.AI))
	if err != nil {
		return nil, fmt.Errorf("build ai backend: %w", err)
	}
	if cfg.AI.APIKey() == "" {
		logger.Warn().Str("provider", cfg.AI.Provider).Msg("API key not configured; every generation will fail")
	}

	metrics := question.NewMetrics(prometheus.DefaultRegisterer)
	var generator question.Generator = metrics.Instrument(ai.NewGenerator(backend, logger))
	if redisClient != nil && cfg.Generation.CacheTTL > 0 {
		generator = question.WithCache(generator, question.NewCache(redisClient, cfg.Generation.CacheTTL), logger)
	}

	boardGenerator := generator
	if cfg.Generation.SentinelOnFailure {
		boardGenerator = question.WithSentinel(generator, logger)
	}

	var (
		store       game.Store
		memoryStore *game.MemoryStore
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		store = game.NewRedisStore(redisClient, cfg.Session.TTL)
	default:
		memoryStore = game.NewMemoryStore(cfg.Session.TTL)
		store = memoryStore
	}
	logger.Info().Str("store", cfg.Session.Store).Dur("ttl", cfg.Session.TTL).Msg("session store ready")

	wsHub := ws.NewHub(logger)
	orchestrator := game.NewOrchestrator(boardGenerator, game.OrchestratorOptions{
		Concurrency: cfg.Generation.Concurrency,
	}, logger)
	gameSvc := game.NewService(store, orchestrator, wsHub, logger)

	gameHTTP := game.NewHTTPHandlers(gameSvc, logger)
	gameWS := game.NewWSHandler(gameSvc, wsHub, logger)
	questionHTTP := question.NewHTTPHandler(generator, logger)

	apiServer := server.NewHTTPServer(cfg, logger, redisClient, prometheus.DefaultGatherer, server.Routes{
		GenerateQuestion: questionHTTP.HandleGenerate,
		CreateGame:       gameHTTP.CreateGame,
		GetGame:          gameHTTP.GetGame,
		RenameCategory:   gameHTTP.RenameCategory,
		StartGame:        gameHTTP.StartGame,
		RevealQuestion:   gameHTTP.RevealQuestion,
		ResetGame:        gameHTTP.ResetGame,
		GameWebSocket:    gameWS.HandleWebSocket,
	})

	return &Application{
		cfg:         cfg,
		logger:      logger,
		redis:       redisClient,
		http:        apiServer,
		memoryStore: memoryStore,
		bgCancels:   make([]context.CancelFunc, 0, 1),
	}, nil
}

func aiConfig(cfg config.AI) ai.Config {
	out := ai.Config{
		Provider:    cfg.Provider,
		Temperature: cfg.Temperature,
		Timeout:     cfg.HTTPTimeout,
	}
	if cfg.Provider == ai.ProviderGemini {
		out.APIKey = cfg.GeminiAPIKey
		out.BaseURL = cfg.GeminiBaseURL
		out.Model = cfg.GeminiModel
		return out
	}
	out.APIKey = cfg.OpenAIAPIKey
	out.BaseURL = cfg.OpenAIBaseURL
	out.Model = cfg.OpenAIModel
	out.JSONMode = cfg.OpenAIJSONMode
	return out
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.memoryStore != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go a.memoryStore.RunSweeper(bgCtx, sweepInterval)
	}
}
