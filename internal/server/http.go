package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ai-jeopardy/internal/config"
	"github.com/gokatarajesh/ai-jeopardy/internal/logging"
	httperrors "github.com/gokatarajesh/ai-jeopardy/pkg/http/errors"
)

// WSUpgrader handles WebSocket upgrades. Origins are enforced by the CORS layer.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Routes groups the handlers mounted by NewHTTPServer. Nil handlers are skipped.
type Routes struct {
	GenerateQuestion http.HandlerFunc

	CreateGame     http.HandlerFunc
	GetGame        http.HandlerFunc
	RenameCategory http.HandlerFunc
	StartGame      http.HandlerFunc
	RevealQuestion http.HandlerFunc
	ResetGame      http.HandlerFunc
	GameWebSocket  http.HandlerFunc
}

// NewHTTPServer wires base routes (health, metrics, ping) and the game API.
// redis and gatherer may be nil.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, redis *redis.Client, gatherer prometheus.Gatherer, routes Routes) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), redis); err != nil {
			reqLogger := logging.FromContext(r.Context())
			reqLogger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Method checks for this endpoint live in the handler so non-POST gets a JSON 405.
	handle(mux, "/generate-question", routes.GenerateQuestion)

	handle(mux, "POST /v1/games", routes.CreateGame)
	handle(mux, "GET /v1/games/{id}", routes.GetGame)
	handle(mux, "PUT /v1/games/{id}/categories/{categoryID}", routes.RenameCategory)
	handle(mux, "POST /v1/games/{id}/start", routes.StartGame)
	handle(mux, "POST /v1/games/{id}/questions/{questionID}/reveal", routes.RevealQuestion)
	handle(mux, "POST /v1/games/{id}/reset", routes.ResetGame)
	handle(mux, "GET /ws/games/{id}", routes.GameWebSocket)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           Middleware(cfg.CORS, logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Middleware wraps a handler with request ids, panic recovery, CORS and access logs.
func Middleware(corsCfg config.CORS, logger zerolog.Logger) func(http.Handler) http.Handler {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	})
	return func(next http.Handler) http.Handler {
		h := logging.Middleware(logger)(next)
		h = chimw.Recoverer(h)
		h = corsHandler(h)
		h = chimw.RealIP(h)
		return chimw.RequestID(h)
	}
}

func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if h != nil {
		mux.HandleFunc(pattern, h)
	}
}

func pingDependencies(ctx context.Context, redis *redis.Client) error {
	if redis == nil {
		return nil
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
