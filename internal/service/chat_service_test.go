package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/docfile"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/chatbot"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/throttle"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	if len(history) > 0 {
		s.lastPrompt = history[len(history)-1].Content
	}
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.reply, s.err
}

type stubPublisher struct {
	payloads [][]byte
	err      error
}

func (s *stubPublisher) Publish(ctx context.Context, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

type chatTestEnv struct {
	svc         IChatService
	sessionRepo contract.SessionRepository
	cache       *memory.SessionCache
	knowledge   IKnowledgeService
	embedder    *stubEmbedder
	llm         *stubLLM
	publisher   *stubPublisher
	cfg         *config.Config
}

func newChatTestEnv(t *testing.T) *chatTestEnv {
	t.Helper()

	cfg := newKnowledgeTestConfig(t)
	cfg.User = config.UserConfig{Name: "User"}
	cfg.Ai.ChatModel = "gemini-2.5-flash"
	cfg.Ai.HistoryLimit = 10

	embedder := newSkyOceanEmbedder()
	knowledge := newKnowledgeTestService(t, cfg, embedder)

	sessionRepo, err := docfile.NewSessionRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create session repository: %v", err)
	}

	provider := &stubLLM{reply: "Stubbed answer."}
	bot, err := chatbot.NewBot(provider, throttle.NewGate(0), cfg.Ai.ChatModel)
	if err != nil {
		t.Fatalf("Failed to create bot: %v", err)
	}

	cache := memory.NewSessionCache()
	publisher := &stubPublisher{}
	svc := NewChatService(sessionRepo, cache, knowledge, bot, publisher, cfg, logger.NewNopLogger())

	return &chatTestEnv{
		svc:         svc,
		sessionRepo: sessionRepo,
		cache:       cache,
		knowledge:   knowledge,
		embedder:    embedder,
		llm:         provider,
		publisher:   publisher,
		cfg:         cfg,
	}
}

func (e *chatTestEnv) seedSession(t *testing.T, id string, messages []entity.Message) {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	err := e.sessionRepo.CreateOrReplace(context.Background(), &entity.Session{
		SessionID: id,
		UserName:  "User",
		Model:     "gemini-2.5-flash",
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  messages,
	})
	if err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
}

func TestChatSendRejectsEmptyMessage(t *testing.T) {
	env := newChatTestEnv(t)

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := env.svc.Send(context.Background(), &dto.SendChatRequest{Message: message})
		assert.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
	// Validation fires before session resolution, so nothing was created.
	summaries, err := env.sessionRepo.ListSummaries(context.Background())
	assert.NoError(t, err)
	assert.Len(t, summaries, 0)
	assert.Equal(t, 0, env.llm.calls)
}

func TestChatSendCreatesSessionImplicitly(t *testing.T) {
	env := newChatTestEnv(t)

	res, err := env.svc.Send(context.Background(), &dto.SendChatRequest{Message: "hello there"})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.SessionID, "session_"))
	assert.Equal(t, "hello there", res.Sent.Content)
	assert.Equal(t, "Stubbed answer.", res.Reply.Content)
	assert.Equal(t, res.SessionID, env.cache.Current())

	session, err := env.sessionRepo.Load(context.Background(), res.SessionID)
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.Len(t, session.Messages, 2)
	assert.Equal(t, "user", session.Messages[0].Role)
	assert.Equal(t, "assistant", session.Messages[1].Role)
}

func TestChatSendUsesExplicitSession(t *testing.T) {
	env := newChatTestEnv(t)
	env.seedSession(t, "existing", nil)

	res, err := env.svc.Send(context.Background(), &dto.SendChatRequest{
		SessionID: "existing",
		Message:   "hello there",
	})
	assert.NoError(t, err)
	assert.Equal(t, "existing", res.SessionID)

	session, err := env.sessionRepo.Load(context.Background(), "existing")
	assert.NoError(t, err)
	assert.Len(t, session.Messages, 2)
}

func TestChatSendMissingExplicitSession(t *testing.T) {
	env := newChatTestEnv(t)

	_, err := env.svc.Send(context.Background(), &dto.SendChatRequest{
		SessionID: "ghost",
		Message:   "hello there",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 0, env.llm.calls)
}

func TestChatSendRecoversWhenActiveSessionVanished(t *testing.T) {
	env := newChatTestEnv(t)
	env.cache.SetCurrent("ghost")

	res, err := env.svc.Send(context.Background(), &dto.SendChatRequest{Message: "hello there"})
	assert.NoError(t, err)
	assert.NotEqual(t, "ghost", res.SessionID)
	assert.True(t, strings.HasPrefix(res.SessionID, "session_"))
}

func TestChatSendIncludesRetrievedContext(t *testing.T) {
	env := newChatTestEnv(t)
	_, err := env.knowledge.AddText(context.Background(), &dto.AddTextRequest{Text: "The sky is blue.", Source: "facts"})
	assert.NoError(t, err)

	_, err = env.svc.Send(context.Background(), &dto.SendChatRequest{Message: "what color is the sky?"})
	assert.NoError(t, err)
	assert.Contains(t, env.llm.lastPrompt, "## Retrieved Context:")
	assert.Contains(t, env.llm.lastPrompt, "The sky is blue.")
	assert.Contains(t, env.llm.lastPrompt, "User's message: what color is the sky?")
}

func TestChatSendWithRAGDisabled(t *testing.T) {
	env := newChatTestEnv(t)
	_, err := env.knowledge.AddText(context.Background(), &dto.AddTextRequest{Text: "The sky is blue.", Source: "facts"})
	assert.NoError(t, err)
	queriesAfterIndex := env.embedder.queryCalls

	useRAG := false
	_, err = env.svc.Send(context.Background(), &dto.SendChatRequest{
		Message: "what color is the sky?",
		UseRAG:  &useRAG,
	})
	assert.NoError(t, err)
	assert.NotContains(t, env.llm.lastPrompt, "## Retrieved Context:")
	// Retrieval was skipped entirely, not just filtered out.
	assert.Equal(t, queriesAfterIndex, env.embedder.queryCalls)
}

func TestChatSendFailureLeavesSessionUntouched(t *testing.T) {
	env := newChatTestEnv(t)
	env.seedSession(t, "fragile", nil)
	env.llm.err = errors.New("model overloaded")

	_, err := env.svc.Send(context.Background(), &dto.SendChatRequest{
		SessionID: "fragile",
		Message:   "hello there",
	})
	assert.Error(t, err)

	session, err := env.sessionRepo.Load(context.Background(), "fragile")
	assert.NoError(t, err)
	assert.Len(t, session.Messages, 0)
}

func TestChatSendHistoryWindow(t *testing.T) {
	env := newChatTestEnv(t)
	env.cfg.Ai.HistoryLimit = 2

	stamp := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	messages := []entity.Message{
		{Role: "user", Content: "first question", Timestamp: stamp},
		{Role: "assistant", Content: "first answer", Timestamp: stamp},
		{Role: "user", Content: "second question", Timestamp: stamp},
		{Role: "assistant", Content: "second answer", Timestamp: stamp},
	}
	env.seedSession(t, "windowed", messages)

	_, err := env.svc.Send(context.Background(), &dto.SendChatRequest{
		SessionID: "windowed",
		Message:   "third question",
	})
	assert.NoError(t, err)
	assert.Contains(t, env.llm.lastPrompt, "second question")
	assert.Contains(t, env.llm.lastPrompt, "second answer")
	assert.NotContains(t, env.llm.lastPrompt, "first question")
	assert.NotContains(t, env.llm.lastPrompt, "first answer")
}

func TestImportDocumentInlineContent(t *testing.T) {
	env := newChatTestEnv(t)
	env.seedSession(t, "importer", nil)

	res, err := env.svc.ImportDocument(context.Background(), &dto.ImportDocumentRequest{
		SessionID: "importer",
		Content:   "héllo wörld ☺",
		Name:      "greeting",
	})
	assert.NoError(t, err)
	assert.Equal(t, "importer", res.SessionID)
	assert.Equal(t, "greeting", res.Source)
	// Characters count runes, not bytes.
	assert.Equal(t, 13, res.Characters)

	session, err := env.sessionRepo.Load(context.Background(), "importer")
	assert.NoError(t, err)
	assert.Len(t, session.Messages, 1)
	assert.Equal(t, "document_context", session.Messages[0].Role)
	assert.Equal(t, "Document: greeting\nhéllo wörld ☺", session.Messages[0].Content)

	// The document event reached the indexing pipeline.
	assert.Len(t, env.publisher.payloads, 1)
	var event dto.DocumentImportedMessage
	assert.NoError(t, json.Unmarshal(env.publisher.payloads[0], &event))
	assert.Equal(t, "importer", event.SessionID)
	assert.Equal(t, "greeting", event.Source)
	assert.Equal(t, "héllo wörld ☺", event.Content)
}

func TestImportDocumentFromFile(t *testing.T) {
	env := newChatTestEnv(t)
	env.seedSession(t, "importer", nil)

	path := filepath.Join(t.TempDir(), "report.txt")
	assert.NoError(t, os.WriteFile(path, []byte("quarterly numbers"), 0o644))

	res, err := env.svc.ImportDocument(context.Background(), &dto.ImportDocumentRequest{
		SessionID: "importer",
		Path:      path,
	})
	assert.NoError(t, err)
	// The source name defaults to the file's base name.
	assert.Equal(t, "report.txt", res.Source)
	assert.Equal(t, len("quarterly numbers"), res.Characters)
}

func TestImportDocumentValidation(t *testing.T) {
	env := newChatTestEnv(t)

	_, err := env.svc.ImportDocument(context.Background(), &dto.ImportDocumentRequest{})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = env.svc.ImportDocument(context.Background(), &dto.ImportDocumentRequest{
		Path:    "/tmp/somewhere.txt",
		Content: "inline too",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestImportDocumentMissingFile(t *testing.T) {
	env := newChatTestEnv(t)

	_, err := env.svc.ImportDocument(context.Background(), &dto.ImportDocumentRequest{
		Path: "/nonexistent/report.txt",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestImportDocumentPublishFailureIsSwallowed(t *testing.T) {
	env := newChatTestEnv(t)
	env.seedSession(t, "importer", nil)
	env.publisher.err = errors.New("broker gone")

	res, err := env.svc.ImportDocument(context.Background(), &dto.ImportDocumentRequest{
		SessionID: "importer",
		Content:   "still works",
	})
	assert.NoError(t, err)
	assert.Equal(t, "document", res.Source)

	session, err := env.sessionRepo.Load(context.Background(), "importer")
	assert.NoError(t, err)
	assert.Len(t, session.Messages, 1)
}
