package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/halcyon-labs/careerchat/internal/config"
	"github.com/halcyon-labs/careerchat/internal/db"
	dbRedis "github.com/halcyon-labs/careerchat/internal/db/redis"
	"github.com/halcyon-labs/careerchat/internal/domain"
	logpkg "github.com/halcyon-labs/careerchat/internal/logger"
	"github.com/halcyon-labs/careerchat/internal/metrics"
	"github.com/halcyon-labs/careerchat/internal/repository/embcache"
	historyrepo "github.com/halcyon-labs/careerchat/internal/repository/history"
	"github.com/halcyon-labs/careerchat/internal/repository/vecindex"
	chiTransport "github.com/halcyon-labs/careerchat/internal/transport/chi"
	"github.com/halcyon-labs/careerchat/internal/transport/duckduckgo"
	openaiT "github.com/halcyon-labs/careerchat/internal/transport/openai"
	"github.com/halcyon-labs/careerchat/internal/transport/tavily"
	chatuc "github.com/halcyon-labs/careerchat/internal/usecase/chat"
	embeddinguc "github.com/halcyon-labs/careerchat/internal/usecase/embedding"
	expanduc "github.com/halcyon-labs/careerchat/internal/usecase/expand"
	healthuc "github.com/halcyon-labs/careerchat/internal/usecase/health"
	historyuc "github.com/halcyon-labs/careerchat/internal/usecase/history"
	intentuc "github.com/halcyon-labs/careerchat/internal/usecase/intent"
	retrievaluc "github.com/halcyon-labs/careerchat/internal/usecase/retrieval"
	"github.com/halcyon-labs/careerchat/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting careerchat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Database.Addrs),
		zap.String("chat_model", cfg.LLM.ChatModel),
		zap.String("embedding_model", cfg.LLM.EmbeddingModel),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create redis store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to redis")

	histRepo, err := openHistory(cfg.History.SQLitePath)
	if err != nil {
		logger.Fatal("Failed to open history database", zap.Error(err))
	}
	logger.Info("History database ready", zap.String("path", cfg.History.SQLitePath))

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterLLMMetrics()

	base, embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.EmbeddingModel),
		zap.Int("dimensions", cfg.LLM.EmbeddingDimensions),
	)

	completer := openaiT.NewCompleter(&openaiT.CompleterConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.ChatModel,
		Temperature: cfg.LLM.Temperature,
		Provider:    cfg.LLM.Provider,
		Logger:      logger,
	})

	vectorDim := cfg.LLM.EmbeddingDimensions
	if vectorDim == 0 {
		vectorDim = domain.DefaultVectorConfig().Dimensions
	}
	index := vecindex.New(store, embedder, vectorDim, logger)

	if err := index.EnsureSeeded(ctx); err != nil {
		// Non-fatal: retrieval falls back to the in-process default corpus.
		logger.Warn("Failed to seed default corpus", zap.Error(err))
	}

	retriever := retrievaluc.New(index, embedder, metrics.RetrievalFallbackTotal, logger)
	expander := expanduc.New(completer)
	intents := intentuc.New(completer, intentuc.Mode(cfg.Intent.Mode), logger)
	chatSvc := chatuc.New(completer, expander, retriever, cfg.Retrieval.TopK, logger)
	histSvc := historyuc.New(histRepo, cfg.History.Window)
	healthSvc := healthuc.New(store, histRepo, base)
	webSearch := newWebSearcher(cfg.WebSearch, logger)

	server := chiTransport.NewServer(chatSvc, intents, histSvc, index, healthSvc, webSearch, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openHistory opens (and migrates) the SQLite conversation history store.
func openHistory(path string) (*historyrepo.Repo, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return historyrepo.New(gormDB)
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// The base provider is returned separately for health checks.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) (*openaiT.Embedder, *embeddinguc.InstrumentedEmbedder) {
	base := openaiT.NewEmbedder(&openaiT.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.EmbeddingDimensions,
		Provider:   cfg.LLM.Provider,
		Logger:     logger,
	})

	cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)

	return base, embeddinguc.NewInstrumentedEmbedder(
		cached, cfg.LLM.Provider, cfg.LLM.EmbeddingModel, logger,
	)
}

type webSearcher interface {
	Search(ctx context.Context, query string) []domain.WebFinding
}

// newWebSearcher selects the configured search provider. A nil return
// disables search; a tavily selection without an API key degrades to nil.
func newWebSearcher(cfg config.WebSearchConfig, logger *zap.Logger) webSearcher {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	switch cfg.Provider {
	case "tavily":
		if cfg.TavilyAPIKey == "" {
			logger.Warn("Tavily API key is not set, web search disabled")
			return nil
		}
		return tavily.New(cfg.TavilyAPIKey, cfg.TavilyEndpoint, timeout, logger)
	case "none":
		logger.Info("Web search disabled by configuration")
		return nil
	default:
		return duckduckgo.New(timeout, logger)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
