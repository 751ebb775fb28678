package bootstrap

import (
	"log"
	"os"

	"ai-legalcouncil-be/internal/config"
	"ai-legalcouncil-be/internal/controller"
	"ai-legalcouncil-be/internal/pkg/logger"
	"ai-legalcouncil-be/internal/repository/memory"
	"ai-legalcouncil-be/internal/repository/unitofwork"
	"ai-legalcouncil-be/internal/service"
	"ai-legalcouncil-be/pkg/embedding"
	"ai-legalcouncil-be/pkg/llm/factory"
	"ai-legalcouncil-be/pkg/rag/search"
	"ai-legalcouncil-be/pkg/workflow"
	"ai-legalcouncil-be/pkg/workflow/stage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AnalysisController controller.IAnalysisController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// SysLogger is exposed so main can flush buffered entries on shutdown.
	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "deepseek" {
		llmBaseURL = cfg.Ai.DeepSeekBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.DeepSeekAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Retrieval + Indexing
	retriever := search.NewOrchestrator(embeddingProvider, uowFactory, stdLogger)

	publisherService := service.NewPublisherService(cfg.App.IndexTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IndexTopicName,
		uowFactory,
		embeddingProvider,
	)
	indexerService := service.NewIndexerService(publisherService)

	// 5. Workflow Engine
	engine := workflow.NewEngine(workflow.Nodes{
		Validate:  stage.NewValidateNode(llmProvider, stdLogger),
		Index:     stage.NewIndexNode(indexerService, stdLogger),
		Discover:  stage.NewDiscoverNode(llmProvider, stdLogger),
		Analyze:   stage.NewAnalyzeNode(llmProvider, stdLogger),
		Translate: stage.NewTranslateNode(llmProvider, stdLogger),
		Converse:  stage.NewConverseNode(llmProvider, retriever, stdLogger),
	}, stdLogger)

	// 6. Session Checkpoints
	checkpoints := memory.NewCheckpointRepository()

	// 7. Services
	analysisService := service.NewAnalysisService(engine, checkpoints, sysLogger)
	chatService := service.NewChatService(engine, checkpoints, uowFactory, sysLogger)

	// 8. Controllers
	return &Container{
		AnalysisController: controller.NewAnalysisController(analysisService),
		ChatController:     controller.NewChatController(chatService),

		ConsumerService: consumerService,
		SysLogger:       sysLogger,
	}
}
