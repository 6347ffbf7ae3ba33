package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"ai-jeopardy"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`

	Redis      Redis
	Session    Session
	AI         AI
	Generation Generation
	CORS       CORS
}

// Redis is optional; an empty address disables the answer cache and the Redis session store.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Session controls where games live and for how long.
type Session struct {
	Store string        `env:"SESSION_STORE" envDefault:"memory"`
	TTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

// AI configures the language model backend.
type AI struct {
	Provider    string        `env:"AI_PROVIDER" envDefault:"openai"`
	Temperature float64       `env:"AI_TEMPERATURE" envDefault:"0"`
	HTTPTimeout time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"30s"`

	OpenAIAPIKey   string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel    string `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	OpenAIJSONMode bool   `env:"OPENAI_JSON_MODE" envDefault:"false"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY" envDefault:""`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:""`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// Generation tunes board generation.
type Generation struct {
	Concurrency       int           `env:"GENERATION_CONCURRENCY" envDefault:"5"`
	SentinelOnFailure bool          `env:"GENERATION_SENTINEL_ON_FAILURE" envDefault:"true"`
	CacheTTL          time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"10m"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("SESSION_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Generation.Concurrency < 1 {
		return fmt.Errorf("GENERATION_CONCURRENCY must be at least 1")
	}
	return nil
}

// APIKey returns the key of the selected provider.
func (a AI) APIKey() string {
	if a.Provider == "gemini" {
		return a.GeminiAPIKey
	}
	return a.OpenAIAPIKey
}
