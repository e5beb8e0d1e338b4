package chi

import (
	"context"
	"net/http"

	chi5 "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
	chatuc "github.com/halcyon-labs/careerchat/internal/usecase/chat"
	healthuc "github.com/halcyon-labs/careerchat/internal/usecase/health"
)

// mockChat records which handler fired and with what inputs.
type mockChat struct {
	normalFn    func(ctx context.Context, history, input string, findings []domain.WebFinding) (chatuc.Reply, error)
	interviewFn func(ctx context.Context, history, resumeText string, turnIndex int) (chatuc.Reply, error)
	resumeFn    func(ctx context.Context, resumeText string) (chatuc.Reply, error)
	recommendFn func(ctx context.Context, question string, extra []domain.Document) (chatuc.Reply, error)
}

func (m *mockChat) NormalChat(ctx context.Context, history, input string, findings []domain.WebFinding) (chatuc.Reply, error) {
	return m.normalFn(ctx, history, input, findings)
}

func (m *mockChat) MockInterview(ctx context.Context, history, resumeText string, turnIndex int) (chatuc.Reply, error) {
	return m.interviewFn(ctx, history, resumeText, turnIndex)
}

func (m *mockChat) EvaluateResume(ctx context.Context, resumeText string) (chatuc.Reply, error) {
	return m.resumeFn(ctx, resumeText)
}

func (m *mockChat) RecommendJob(ctx context.Context, question string, extra []domain.Document) (chatuc.Reply, error) {
	return m.recommendFn(ctx, question, extra)
}

type mockIntents struct {
	intent   domain.Intent
	lastText string
}

func (m *mockIntents) Classify(_ context.Context, text string) domain.Intent {
	m.lastText = text
	if m.intent == "" {
		return domain.IntentNormalChat
	}
	return m.intent
}

type mockHistory struct {
	appendFn    func(ctx context.Context, msg domain.Message) error
	recentFn    func(ctx context.Context, limit int) ([]domain.Message, error)
	windowFn    func(ctx context.Context) (string, error)
	turnCountFn func(ctx context.Context, intent domain.Intent) (int, error)

	appended []domain.Message
}

func (m *mockHistory) Append(ctx context.Context, msg domain.Message) error {
	m.appended = append(m.appended, msg)
	if m.appendFn != nil {
		return m.appendFn(ctx, msg)
	}
	return nil
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]domain.Message, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockHistory) Window(ctx context.Context) (string, error) {
	if m.windowFn != nil {
		return m.windowFn(ctx)
	}
	return "", nil
}

func (m *mockHistory) TurnCount(ctx context.Context, intent domain.Intent) (int, error) {
	if m.turnCountFn != nil {
		return m.turnCountFn(ctx, intent)
	}
	return 0, nil
}

type mockIndex struct {
	addFn func(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) ([]string, error)

	addedTexts [][]string
	addedMetas [][]map[string]string
	deleted    [][]string
}

func (m *mockIndex) AddTexts(ctx context.Context, texts []string, metadatas []map[string]string, ids []string) ([]string, error) {
	m.addedTexts = append(m.addedTexts, texts)
	m.addedMetas = append(m.addedMetas, metadatas)
	if m.addFn != nil {
		return m.addFn(ctx, texts, metadatas, ids)
	}
	out := make([]string, len(texts))
	for i := range out {
		out[i] = "id-" + string(rune('a'+i))
	}
	return out, nil
}

func (m *mockIndex) Delete(_ context.Context, ids []string) {
	m.deleted = append(m.deleted, ids)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report {
	return m.report
}

type mockWebSearch struct {
	findings  []domain.WebFinding
	lastQuery string
	calls     int
}

func (m *mockWebSearch) Search(_ context.Context, query string) []domain.WebFinding {
	m.calls++
	m.lastQuery = query
	return m.findings
}

// testDeps bundles all server collaborators for assertions.
type testDeps struct {
	chat      *mockChat
	intents   *mockIntents
	history   *mockHistory
	index     *mockIndex
	health    *mockHealth
	websearch *mockWebSearch
}

func newTestServer(deps testDeps) (http.Handler, testDeps) {
	if deps.chat == nil {
		deps.chat = &mockChat{
			normalFn: func(context.Context, string, string, []domain.WebFinding) (chatuc.Reply, error) {
				return chatuc.Reply{Text: "ok", Tool: "normal_chat"}, nil
			},
		}
	}
	if deps.intents == nil {
		deps.intents = &mockIntents{}
	}
	if deps.history == nil {
		deps.history = &mockHistory{}
	}
	if deps.index == nil {
		deps.index = &mockIndex{}
	}
	if deps.health == nil {
		deps.health = &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"vector_store": healthuc.CheckOK},
		}}
	}

	var searcher webSearcher
	if deps.websearch != nil {
		searcher = deps.websearch
	}

	srv := NewServer(
		deps.chat, deps.intents, deps.history, deps.index, deps.health, searcher,
		zap.NewNop(),
	)
	r := chi5.NewRouter()
	srv.Routes(r)
	return r, deps
}
