package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
	chatuc "github.com/halcyon-labs/careerchat/internal/usecase/chat"
	healthuc "github.com/halcyon-labs/careerchat/internal/usecase/health"
)

// ErrorCode labels error responses for API clients.
type ErrorCode string

const (
	codeBadRequest       ErrorCode = "bad_request"
	codeValidationFailed ErrorCode = "validation_failed"
	codeUnauthorized     ErrorCode = "unauthorized"
	codeNotFound         ErrorCode = "not_found"
	codeEmbeddingError   ErrorCode = "embedding_provider_error"
	codeLLMError         ErrorCode = "llm_provider_error"
	codeIndexUnavailable ErrorCode = "index_unavailable"
	codeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body for every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// chatService is the consumer interface for the per-intent conversation
// handlers (ISP).
type chatService interface {
	NormalChat(ctx context.Context, history, input string, findings []domain.WebFinding) (chatuc.Reply, error)
	MockInterview(ctx context.Context, history, resumeText string, turnIndex int) (chatuc.Reply, error)
	EvaluateResume(ctx context.Context, resumeText string) (chatuc.Reply, error)
	RecommendJob(ctx context.Context, question string, extra []domain.Document) (chatuc.Reply, error)
}

// intentClassifier is the consumer interface for intent routing (ISP).
type intentClassifier interface {
	Classify(ctx context.Context, text string) domain.Intent
}

// historyService is the consumer interface for conversation history (ISP).
type historyService interface {
	Append(ctx context.Context, msg domain.Message) error
	Recent(ctx context.Context, limit int) ([]domain.Message, error)
	Window(ctx context.Context) (string, error)
	TurnCount(ctx context.Context, intent domain.Intent) (int, error)
}

// indexer is the consumer interface for the vector index (ISP).
type indexer interface {
	AddTexts(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) ([]string, error)
	Delete(ctx context.Context, ids []string)
}

// healthService is the consumer interface for health checks (ISP).
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// webSearcher is the consumer interface for web search (ISP). May be nil.
type webSearcher interface {
	Search(ctx context.Context, query string) []domain.WebFinding
}

// Server exposes the conversation API over HTTP.
type Server struct {
	chat          chatService
	intents       intentClassifier
	history       historyService
	index         indexer
	health        healthService
	websearch     webSearcher
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP server. websearch can be nil; web search
// requests then degrade to no findings.
func NewServer(
	chatSvc chatService,
	intents intentClassifier,
	history historyService,
	index indexer,
	health healthService,
	websearch webSearcher,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:      chatSvc,
		intents:   intents,
		history:   history,
		index:     index,
		health:    health,
		websearch: websearch,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrLLMProvider, http.StatusBadGateway, codeLLMError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/history", s.GetHistory)
	r.Post("/generate", s.Generate)
	r.Post("/jobs", s.IndexJobs)
}

// healthResponse mirrors healthuc.Report on the wire.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck reports component health. Returns 503 when any check fails.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics serves Prometheus metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// historyEntry is one conversation turn on the wire.
type historyEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Intent    string `json:"intent"`
	Timestamp string `json:"timestamp"`
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GetHistory returns recent conversation turns in chronological order.
// limit defaults to 20 and must be in 1..100.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
			return
		}
		limit = v
	}
	if limit < 1 || limit > maxHistoryLimit {
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed,
			fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
		return
	}

	messages, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	entries := make([]historyEntry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, historyEntry{
			Role:      msg.Role,
			Content:   msg.Content,
			Intent:    string(msg.Intent),
			Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// indexJobRequest is the POST /jobs body.
type indexJobRequest struct {
	Text     string            `json:"text"`
	Title    string            `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// indexJobResponse reports what POST /jobs persisted.
type indexJobResponse struct {
	Inserted int      `json:"inserted"`
	IDs      []string `json:"ids"`
}

// IndexJobs chunks a job posting and adds it to the index permanently.
func (s *Server) IndexJobs(w http.ResponseWriter, r *http.Request) {
	var req indexJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "text is required")
		return
	}

	ids, err := s.indexJobText(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, indexJobResponse{
		Inserted: len(ids),
		IDs:      ids,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns an error message safe to expose to clients.
// Only the text of known sentinels leaks out; anything else is masked.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrIndexUnavailable,
		domain.ErrEmbeddingProvider,
		domain.ErrLLMProvider,
		domain.ErrIntentUnrecognized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
