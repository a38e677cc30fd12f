package bootstrap

import (
	"log"
	"time"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/docfile"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/chatbot"
	"ai-assistant-be/pkg/embedding"
	embeddingFactory "ai-assistant-be/pkg/embedding/factory"
	"ai-assistant-be/pkg/events"
	llmFactory "ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/textsplitter"
	"ai-assistant-be/pkg/throttle"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController   controller.ISessionController
	ChatController      controller.IChatController
	KnowledgeController controller.IKnowledgeController
	ModelController     controller.IModelController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// The embedding provider may legitimately be absent (no key, no local
	// server); the assistant still chats, retrieval just returns nothing.
	embedModel := cfg.Ai.EmbeddingModel
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedModel = cfg.Ai.OllamaEmbedModel
	}
	var embeddingProvider embedding.Provider
	if provider, err := embeddingFactory.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		embedModel,
		cfg.Ai.GoogleAPIKey,
		cfg.Ai.OllamaBaseURL,
	); err != nil {
		log.Printf("[WARN] Embedding provider unavailable: %v. Retrieval is disabled.", err)
	} else {
		embeddingProvider = provider
		log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, embedModel)
	}

	chatModel := cfg.Ai.ChatModel
	apiKey := cfg.Ai.GoogleAPIKey
	switch cfg.Ai.LLMProvider {
	case "ollama":
		chatModel = cfg.Ai.OllamaChatModel
	case "huggingface":
		chatModel = cfg.Ai.HuggingFaceModel
		apiKey = cfg.Ai.HuggingFaceAPIKey
	}
	llmProvider, err := llmFactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		chatModel,
		apiKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, chatModel)

	gate := throttle.NewGate(time.Duration(cfg.Ai.RateLimitSeconds) * time.Second)
	bot, err := chatbot.NewBot(llmProvider, gate, chatModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize chatbot: %v", err)
	}

	// 4. Persistence
	var sessionRepo contract.SessionRepository
	if cfg.Memory.Backend == "file" {
		sessionRepo, err = docfile.NewSessionRepository(cfg.Memory.Path)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize file session store: %v", err)
		}
		log.Printf("[INFO] Using Memory Backend: FILE (%s)", cfg.Memory.Path)
	} else {
		sessionRepo = implementation.NewSessionRepository(db)
		log.Printf("[INFO] Using Memory Backend: DB")
	}

	var chunkRepo contract.ChunkRepository
	if cfg.Vector.Backend == "pgvector" {
		chunkRepo = implementation.NewKnowledgeChunkVectorRepository(db)
		log.Printf("[INFO] Using Vector Backend: PGVECTOR")
	} else {
		chunkRepo = implementation.NewKnowledgeChunkRepository(db)
		log.Printf("[INFO] Using Vector Backend: EMBEDDED")
	}

	sessionCache := memory.NewSessionCache()
	splitter := textsplitter.NewRecursiveSplitter(constant.DefaultChunkSize, constant.DefaultChunkOverlap)

	// 5. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, events.TopicDocumentImported, sysLogger)
	knowledgeService := service.NewKnowledgeService(chunkRepo, splitter, embeddingProvider, wsHub, cfg, sysLogger)
	sessionService := service.NewSessionService(sessionRepo, sessionCache, cfg, sysLogger)
	chatService := service.NewChatService(sessionRepo, sessionCache, knowledgeService, bot, publisherService, cfg, sysLogger)
	modelService := service.NewModelService(bot, embeddingProvider, cfg, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		events.TopicDocumentImported,
		knowledgeService,
		wsHub, // Hub implements EventDelivery
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		SessionController:   controller.NewSessionController(sessionService, chatService),
		ChatController:      controller.NewChatController(chatService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ModelController:     controller.NewModelController(modelService),

		ConsumerService: consumerService,

		EventsHandler: handler.NewEventsHandler(wsHub, wsLogger),
		WebSocketHub:  wsHub,
	}
}
