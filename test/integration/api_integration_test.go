package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/internal/bootstrap"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/server"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/chatbot"
	"ai-assistant-be/pkg/database"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/textsplitter"
	"ai-assistant-be/pkg/throttle"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// fakeLLM answers every generation with a fixed reply and remembers the last
// prompt so tests can check what reached the model.
type fakeLLM struct {
	reply      string
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.reply, nil
}

// fakeEmbedder puts texts mentioning "sky" on one axis and everything else on
// another, enough for retrieval to behave deterministically.
type fakeEmbedder struct{}

func (fakeEmbedder) vector(text string) []float32 {
	if strings.Contains(text, "sky") {
		return []float32{1, 0}
	}
	return []float32{0, 1}
}

func (f fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.vector(text), nil
}

func (f fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = f.vector(text)
	}
	return vectors, nil
}

func (fakeEmbedder) ModelName() string {
	return "fake-embed"
}

type testApp struct {
	app *fiber.App
	llm *fakeLLM
}

// newTestApp wires the full REST surface over sqlite with fake AI providers,
// mirroring what bootstrap.NewContainer does in production.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Port: "0", CorsAllowedOrigins: "*"},
		Database: config.DatabaseConfig{
			Driver: database.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "assistant.db"),
		},
		Memory: config.MemoryConfig{Backend: "db"},
		Vector: config.VectorConfig{Backend: "embedded", Collection: "assistant_test"},
		User:   config.UserConfig{Name: "User"},
		Ai: config.AIConfig{
			ChatModel:          "gemini-2.5-flash",
			EmbeddingModel:     "models/embedding-001",
			HistoryLimit:       10,
			RetrievalTopK:      3,
			RetrievalThreshold: 0.5,
		},
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := bootstrap.Migrate(db, cfg); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	provider := &fakeLLM{reply: "Stubbed answer."}
	bot, err := chatbot.NewBot(provider, throttle.NewGate(0), cfg.Ai.ChatModel)
	if err != nil {
		t.Fatalf("Failed to create bot: %v", err)
	}

	log := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	sessionRepo := implementation.NewSessionRepository(db)
	chunkRepo := implementation.NewKnowledgeChunkRepository(db)
	cache := memory.NewSessionCache()
	splitter := textsplitter.NewRecursiveSplitter(constant.DefaultChunkSize, constant.DefaultChunkOverlap)

	hub := websocket.NewHub(log)
	go hub.Run()

	publisherService := service.NewPublisherService(pubSub, events.TopicDocumentImported, log)
	knowledgeService := service.NewKnowledgeService(chunkRepo, splitter, fakeEmbedder{}, hub, cfg, log)
	sessionService := service.NewSessionService(sessionRepo, cache, cfg, log)
	chatService := service.NewChatService(sessionRepo, cache, knowledgeService, bot, publisherService, cfg, log)
	modelService := service.NewModelService(bot, fakeEmbedder{}, cfg, log)
	consumerService := service.NewConsumerService(pubSub, events.TopicDocumentImported, knowledgeService, hub, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := consumerService.Consume(ctx); err != nil {
		t.Fatalf("Failed to start consumer: %v", err)
	}

	container := &bootstrap.Container{
		SessionController:   controller.NewSessionController(sessionService, chatService),
		ChatController:      controller.NewChatController(chatService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ModelController:     controller.NewModelController(modelService),
		ConsumerService:     consumerService,
		EventsHandler:       handler.NewEventsHandler(hub, log),
		WebSocketHub:        hub,
	}

	srv := server.New(cfg, container)
	return &testApp{app: srv.GetApp(), llm: provider}
}

func (ta *testApp) request(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	return resp.StatusCode, raw
}

func decodeData[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var envelope serverutils.BaseResponse[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("Failed to decode response %s: %v", raw, err)
	}
	if !envelope.Success {
		t.Fatalf("Expected success envelope, got: %s", raw)
	}
	return envelope.Data
}

func TestSessionLifecycleOverREST(t *testing.T) {
	ta := newTestApp(t)

	status, raw := ta.request(t, "POST", "/api/session/v1", dto.CreateSessionRequest{SessionID: "itest"})
	assert.Equal(t, 200, status)
	created := decodeData[dto.SessionResponse](t, raw)
	assert.Equal(t, "itest", created.SessionID)
	assert.Equal(t, "gemini-2.5-flash", created.Model)

	status, raw = ta.request(t, "GET", "/api/session/v1/current", nil)
	assert.Equal(t, 200, status)
	current := decodeData[dto.SessionResponse](t, raw)
	assert.Equal(t, "itest", current.SessionID)

	status, raw = ta.request(t, "POST", "/api/session/v1/itest/messages", dto.AppendMessageRequest{
		Role:    "user",
		Content: "remember this",
	})
	assert.Equal(t, 200, status)

	status, raw = ta.request(t, "GET", "/api/session/v1/itest/history?limit=5", nil)
	assert.Equal(t, 200, status)
	history := decodeData[[]dto.HistoryEntryResponse](t, raw)
	assert.Len(t, history, 1)
	assert.Equal(t, "remember this", history[0].Content)

	status, raw = ta.request(t, "GET", "/api/session/v1/itest/context", nil)
	assert.Equal(t, 200, status)
	contextRes := decodeData[dto.ContextStringResponse](t, raw)
	assert.Contains(t, contextRes.Context, "User: remember this")

	status, raw = ta.request(t, "PUT", "/api/session/v1/itest/rename", dto.RenameSessionRequest{NewSessionID: "renamed"})
	assert.Equal(t, 200, status)

	status, _ = ta.request(t, "GET", "/api/session/v1/itest", nil)
	assert.Equal(t, 404, status)
	status, raw = ta.request(t, "GET", "/api/session/v1/renamed", nil)
	assert.Equal(t, 200, status)

	status, raw = ta.request(t, "GET", "/api/session/v1", nil)
	assert.Equal(t, 200, status)
	list := decodeData[[]dto.SessionSummaryResponse](t, raw)
	assert.Len(t, list, 1)
	assert.True(t, list[0].Current)

	status, _ = ta.request(t, "DELETE", "/api/session/v1/renamed", nil)
	assert.Equal(t, 200, status)
	status, _ = ta.request(t, "GET", "/api/session/v1/renamed", nil)
	assert.Equal(t, 404, status)
}

func TestKnowledgeLifecycleOverREST(t *testing.T) {
	ta := newTestApp(t)

	status, raw := ta.request(t, "POST", "/api/knowledge/v1/text", dto.AddTextRequest{
		Text:   "The sky is blue.",
		Source: "facts",
	})
	assert.Equal(t, 200, status)
	added := decodeData[dto.AddDocumentsResponse](t, raw)
	assert.Equal(t, 1, added.ChunksAdded)

	status, raw = ta.request(t, "POST", "/api/knowledge/v1/query", dto.QueryRequest{Query: "sky color"})
	assert.Equal(t, 200, status)
	results := decodeData[[]dto.QueryResultResponse](t, raw)
	assert.Len(t, results, 1)
	assert.Equal(t, "The sky is blue.", results[0].Content)

	status, raw = ta.request(t, "POST", "/api/knowledge/v1/query/context", dto.QueryRequest{Query: "sky color"})
	assert.Equal(t, 200, status)
	contextRes := decodeData[dto.QueryContextResponse](t, raw)
	assert.Contains(t, contextRes.Context, "## Retrieved Context:")
	assert.Contains(t, contextRes.Context, "The sky is blue.")

	status, raw = ta.request(t, "GET", "/api/knowledge/v1/info", nil)
	assert.Equal(t, 200, status)
	info := decodeData[dto.CollectionInfoResponse](t, raw)
	assert.Equal(t, "assistant_test", info.Name)
	assert.EqualValues(t, 1, info.Count)

	status, raw = ta.request(t, "GET", "/api/knowledge/v1/export", nil)
	assert.Equal(t, 200, status)
	var export map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &export))
	assert.Equal(t, "assistant_test", export["collection"])
	assert.EqualValues(t, 1, export["count"])

	status, _ = ta.request(t, "DELETE", "/api/knowledge/v1", nil)
	assert.Equal(t, 200, status)
	status, raw = ta.request(t, "GET", "/api/knowledge/v1/info", nil)
	assert.Equal(t, 200, status)
	info = decodeData[dto.CollectionInfoResponse](t, raw)
	assert.EqualValues(t, 0, info.Count)
}

func TestChatTurnOverREST(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.request(t, "POST", "/api/knowledge/v1/text", dto.AddTextRequest{
		Text:   "The sky is blue.",
		Source: "facts",
	})
	assert.Equal(t, 200, status)

	status, raw := ta.request(t, "POST", "/api/chat/v1/send", dto.SendChatRequest{Message: "what color is the sky?"})
	assert.Equal(t, 200, status)
	sent := decodeData[dto.SendChatResponse](t, raw)
	assert.True(t, strings.HasPrefix(sent.SessionID, "session_"))
	assert.Equal(t, "what color is the sky?", sent.Sent.Content)
	assert.Equal(t, "Stubbed answer.", sent.Reply.Content)

	// Retrieval reached the prompt.
	assert.Contains(t, ta.llm.lastPrompt, "## Retrieved Context:")
	assert.Contains(t, ta.llm.lastPrompt, "The sky is blue.")

	// The turn is persisted on the session.
	status, raw = ta.request(t, "GET", "/api/session/v1/"+sent.SessionID+"/history", nil)
	assert.Equal(t, 200, status)
	history := decodeData[[]dto.HistoryEntryResponse](t, raw)
	assert.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestChatValidationOverREST(t *testing.T) {
	ta := newTestApp(t)

	status, raw := ta.request(t, "POST", "/api/chat/v1/send", dto.SendChatRequest{Message: "   "})
	assert.Equal(t, 400, status)

	var body serverutils.ErrorBody
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "validation", body.Kind)
}

func TestDocumentImportFlowsToKnowledgeIndex(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.request(t, "POST", "/api/session/v1", dto.CreateSessionRequest{SessionID: "importer"})
	assert.Equal(t, 200, status)

	status, raw := ta.request(t, "POST", "/api/session/v1/importer/import", dto.ImportDocumentRequest{
		Content: "The sky is blue on clear days.",
		Name:    "weather.txt",
	})
	assert.Equal(t, 200, status)
	imported := decodeData[dto.ImportDocumentResponse](t, raw)
	assert.Equal(t, "importer", imported.SessionID)
	assert.Equal(t, "weather.txt", imported.Source)
	assert.Equal(t, 30, imported.Characters)

	// The transcript carries the document context message.
	status, raw = ta.request(t, "GET", "/api/session/v1/importer", nil)
	assert.Equal(t, 200, status)
	session := decodeData[dto.SessionResponse](t, raw)
	assert.Len(t, session.Messages, 1)
	assert.Equal(t, "document_context", session.Messages[0].Role)
	assert.True(t, strings.HasPrefix(session.Messages[0].Content, "Document: weather.txt\n"))

	// The background consumer picks the document up and indexes it.
	assert.Eventually(t, func() bool {
		_, raw := ta.request(t, "GET", "/api/knowledge/v1/info", nil)
		info := decodeData[dto.CollectionInfoResponse](t, raw)
		return info.Count == 1
	}, 3*time.Second, 20*time.Millisecond)

	status, raw = ta.request(t, "POST", "/api/knowledge/v1/query", dto.QueryRequest{Query: "sky weather"})
	assert.Equal(t, 200, status)
	results := decodeData[[]dto.QueryResultResponse](t, raw)
	assert.Len(t, results, 1)
	assert.Equal(t, "chat_import", results[0].Metadata["type"])
	assert.Equal(t, "importer", results[0].Metadata["session_id"])
}

func TestModelEndpointsOverREST(t *testing.T) {
	ta := newTestApp(t)

	status, raw := ta.request(t, "GET", "/api/model/v1/chat", nil)
	assert.Equal(t, 200, status)
	models := decodeData[dto.ListModelsResponse](t, raw)
	assert.NotEmpty(t, models.Chat)
	foundCurrent := false
	for _, m := range models.Chat {
		if m.Current {
			foundCurrent = true
			assert.Equal(t, "gemini-2.5-flash", m.Name)
		}
	}
	assert.True(t, foundCurrent)

	status, raw = ta.request(t, "PUT", "/api/model/v1/chat", dto.SetChatModelRequest{Model: "gemini-2.5-pro"})
	assert.Equal(t, 200, status)
	current := decodeData[dto.CurrentModelsResponse](t, raw)
	assert.Equal(t, "gemini-2.5-pro", current.Chat)

	status, raw = ta.request(t, "GET", "/api/model/v1/current", nil)
	assert.Equal(t, 200, status)
	current = decodeData[dto.CurrentModelsResponse](t, raw)
	assert.Equal(t, "gemini-2.5-pro", current.Chat)
	assert.Equal(t, "fake-embed", current.Embedding)
}

func TestUnknownSessionIs404OverREST(t *testing.T) {
	ta := newTestApp(t)

	status, raw := ta.request(t, "GET", "/api/session/v1/ghost", nil)
	assert.Equal(t, 404, status)

	var body serverutils.ErrorBody
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "not_found", body.Kind)
}
