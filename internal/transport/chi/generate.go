package chi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
	chatuc "github.com/halcyon-labs/careerchat/internal/usecase/chat"
	"github.com/halcyon-labs/careerchat/internal/textproc"
)

// maxUploadMemory bounds how much of a multipart upload stays in memory.
const maxUploadMemory = 10 << 20

// generateResponse is the POST /generate reply body.
type generateResponse struct {
	Intent    string          `json:"intent"`
	Text      string          `json:"text"`
	Sources   []chatuc.Source `json:"sources"`
	ToolCalls []string        `json:"tool_calls"`
}

// generateInput carries the parsed and derived form fields through the
// generation pipeline.
type generateInput struct {
	userText        string
	combinedInput   string
	documents       []string
	documentsJoined string
	webSearch       bool
	returnStream    bool
	persistDocs     bool
}

// inputText is what intent classification and chat handlers see as the
// user's utterance.
func (g generateInput) inputText() string {
	if g.userText != "" {
		return g.userText
	}
	return g.combinedInput
}

// resumeText is what resume-oriented handlers analyze.
func (g generateInput) resumeText() string {
	if g.documentsJoined != "" {
		return g.documentsJoined
	}
	return g.userText
}

// Generate runs the full conversation pipeline: parse form input, index
// attached documents, classify intent, dispatch the matching chat handler,
// persist the exchange, and reply as JSON or a sentence stream.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, ok := s.parseGenerateForm(w, r)
	if !ok {
		return
	}

	window, err := s.history.Window(ctx)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	turnIndex, err := s.history.TurnCount(ctx, domain.IntentMockInterview)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	intent := s.intents.Classify(ctx, in.inputText())

	var findings []domain.WebFinding
	if in.webSearch && s.websearch != nil {
		if seed := strings.TrimSpace(firstNonEmpty(in.userText, in.documentsJoined)); seed != "" {
			findings = s.websearch.Search(ctx, seed)
		}
	}

	chunkIDs, extra := s.indexAttachedDocuments(ctx, in.documents)
	cleanup := func() {
		if len(chunkIDs) > 0 && !in.persistDocs {
			s.index.Delete(ctx, chunkIDs)
		}
	}

	reply, err := s.dispatch(ctx, intent, in, window, turnIndex, findings, extra)
	if err != nil {
		cleanup()
		s.handleDomainError(w, err)
		return
	}

	s.persistExchange(ctx, intent, in.combinedInput, reply.Text)
	cleanup()

	if in.returnStream {
		streamSentences(w, reply.Text)
		return
	}

	toolCalls := []string{}
	if reply.Tool != "" {
		toolCalls = append(toolCalls, reply.Tool)
	}
	sources := reply.Sources
	if sources == nil {
		sources = []chatuc.Source{}
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Intent:    string(intent),
		Text:      reply.Text,
		Sources:   sources,
		ToolCalls: toolCalls,
	})
}

// parseGenerateForm reads the multipart form, extracts document blocks and
// the optional file upload, and validates that any input exists at all.
// On failure it writes the error response and returns ok=false.
func (s *Server) parseGenerateForm(w http.ResponseWriter, r *http.Request) (generateInput, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid form data: "+err.Error())
		return generateInput{}, false
	}

	input := r.FormValue("input")
	in := generateInput{
		webSearch:    formBool(r, "web_search"),
		returnStream: formBool(r, "return_stream"),
		persistDocs:  formBool(r, "persist_documents"),
	}

	fileText, err := readUploadedFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Failed to read uploaded file: "+err.Error())
		return generateInput{}, false
	}

	if strings.TrimSpace(input) == "" && strings.TrimSpace(fileText) == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, "Input text or file is required.")
		return generateInput{}, false
	}

	in.documents = textproc.ExtractDocuments(input)
	if fileText != "" {
		in.documents = append(in.documents, fileText)
	}
	in.userText = strings.TrimSpace(textproc.StripDocumentTags(input))
	in.documentsJoined = strings.TrimSpace(strings.Join(in.documents, "\n\n"))

	// Rebuild a canonical input: free text first, then each document in tags.
	in.combinedInput = in.userText
	for _, doc := range in.documents {
		doc = strings.TrimSpace(doc)
		if doc == "" {
			continue
		}
		if in.combinedInput != "" {
			in.combinedInput += "\n"
		}
		in.combinedInput += fmt.Sprintf("<document>\n%s\n</document>", doc)
	}

	return in, true
}

// indexAttachedDocuments chunks user documents and adds them to the vector
// index so they can be retrieved within this turn. Indexing failures are
// logged and skipped: the conversation proceeds without the attachment.
// Returns the stored chunk ids (for later cleanup) and the chunks as extra
// lexical candidates.
func (s *Server) indexAttachedDocuments(ctx context.Context, docs []string) ([]string, []domain.Document) {
	var chunks []string
	var metadatas []map[string]string
	now := time.Now().UTC().Format(time.RFC3339)
	for docIdx, doc := range docs {
		for chunkIdx, chunk := range textproc.Chunk(doc, textproc.DefaultChunkSize, textproc.DefaultChunkOverlap) {
			chunks = append(chunks, chunk)
			metadatas = append(metadatas, map[string]string{
				"source":     fmt.Sprintf("user_doc#%d-%d", docIdx, chunkIdx),
				"type":       "document",
				"created_at": now,
			})
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	chunkIDs, err := s.index.AddTexts(ctx, chunks, metadatas, nil)
	if err != nil {
		s.logger.Warn("failed to index attached documents", zap.Error(err))
		return nil, nil
	}

	extra := make([]domain.Document, len(chunks))
	for i, chunk := range chunks {
		extra[i] = domain.Document{
			ID:       metadatas[i]["source"],
			Text:     chunk,
			Metadata: metadatas[i],
		}
	}
	return chunkIDs, extra
}

// dispatch routes the turn to the chat handler matching the intent.
func (s *Server) dispatch(
	ctx context.Context,
	intent domain.Intent,
	in generateInput,
	window string,
	turnIndex int,
	findings []domain.WebFinding,
	extra []domain.Document,
) (chatuc.Reply, error) {
	switch intent {
	case domain.IntentMockInterview:
		return s.chat.MockInterview(ctx, window, in.resumeText(), turnIndex)
	case domain.IntentEvaluateResume:
		return s.chat.EvaluateResume(ctx, firstNonEmpty(in.resumeText(), in.inputText()))
	case domain.IntentRecommendJob:
		return s.chat.RecommendJob(ctx, in.inputText(), extra)
	default:
		return s.chat.NormalChat(ctx, window, in.inputText(), findings)
	}
}

// persistExchange stores the user and assistant turns. A failed write is
// logged but does not fail the request: the reply is already computed.
func (s *Server) persistExchange(ctx context.Context, intent domain.Intent, userContent, assistantContent string) {
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: userContent, Intent: intent},
		{Role: domain.RoleAssistant, Content: assistantContent, Intent: intent},
	}
	for _, msg := range msgs {
		if err := s.history.Append(ctx, msg); err != nil {
			s.logger.Warn("failed to persist history", zap.String("role", msg.Role), zap.Error(err))
		}
	}
}

// streamSentences writes the reply one sentence per line as plain text.
func streamSentences(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for _, sentence := range strings.Split(text, ". ") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		_, _ = io.WriteString(w, sentence+"\n")
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// indexJobText chunks a job posting and persists it with stable metadata.
func (s *Server) indexJobText(ctx context.Context, req indexJobRequest) ([]string, error) {
	base := req.Title
	if base == "" {
		base = "job"
	}
	now := time.Now().UTC().Format(time.RFC3339)

	chunks := textproc.Chunk(req.Text, textproc.DefaultChunkSize, textproc.DefaultChunkOverlap)
	metadatas := make([]map[string]string, len(chunks))
	for i := range chunks {
		meta := map[string]string{
			"source":     fmt.Sprintf("%s#%d", base, i),
			"type":       "job",
			"created_at": now,
		}
		for k, v := range req.Metadata {
			if _, reserved := meta[k]; !reserved {
				meta[k] = v
			}
		}
		metadatas[i] = meta
	}

	return s.index.AddTexts(ctx, chunks, metadatas, nil)
}

func formBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.FormValue(name))
	return err == nil && v
}

// readUploadedFile returns the text content of the optional "file" form
// part. A missing file is not an error.
func readUploadedFile(r *http.Request) (string, error) {
	f, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
