package bootstrap

import (
	"context"
	stdlog "log"

	"ig-engagement-be/internal/config"
	"ig-engagement-be/internal/controller"
	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/repository/implementation"
	"ig-engagement-be/internal/repository/memory"
	"ig-engagement-be/internal/service"
	"ig-engagement-be/pkg/embedding"
	"ig-engagement-be/pkg/instagram"
	"ig-engagement-be/pkg/llm/factory"
	pktNats "ig-engagement-be/pkg/nats"
	"ig-engagement-be/pkg/reply"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController   controller.IWebhookController
	RuleController      controller.IRuleController
	KnowledgeController controller.IKnowledgeController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	runLogger := logger.NewIsolatedLogger("logs/automation.log")

	ruleRepo := implementation.NewAutomationRuleRepository(db)
	runRepo := implementation.NewAutomationRunRepository(db)
	documentRepo := implementation.NewKnowledgeDocumentRepository(db)
	embeddingRepo := implementation.NewKnowledgeEmbeddingRepository(db)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		stdlog.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		stdlog.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		stdlog.Printf("[WARN] Failed to connect to Redis: %v. Dedup falls back to local cache", err)
		rdb = nil
	}

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		stdlog.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		stdlog.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		stdlog.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	stdlog.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	batchGen := embedding.NewBatchGenerator(embeddingProvider, embedding.DefaultBatchOptions())

	// 4. Platform transport
	transport := instagram.NewGraphClient(cfg.Instagram.GraphBaseURL, cfg.Instagram.AccessToken)

	var followOracle instagram.FollowOracle
	if cfg.Instagram.SimulateFollows {
		followOracle = instagram.NewSimulatedFollowOracle(nil, true)
	} else {
		followOracle = instagram.NewSimulatedFollowOracle(nil, false)
	}

	// 5. In-memory stores
	conversations := memory.NewConversationRepository()
	dedupStore := memory.NewDedupStore(rdb)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		documentRepo,
		embeddingRepo,
		batchGen,
		sysLogger,
	)

	contextService := service.NewContextService(
		cfg.Ai.RetrievalMode,
		cfg.Ai.RetrievalTopK,
		documentRepo,
		embeddingRepo,
		embeddingProvider,
		sysLogger,
	)

	generator := reply.NewGenerator(llmProvider, stdlog.Default())

	automationService := service.NewAutomationService(
		ruleRepo,
		runRepo,
		dedupStore,
		transport,
		followOracle,
		natsPub,
		cfg.Instagram.FollowPrompt,
		cfg.Instagram.ConfirmReply,
		sysLogger,
		runLogger,
	)

	dmService := service.NewDmService(
		contextService,
		generator,
		conversations,
		dedupStore,
		transport,
		natsPub,
		sysLogger,
	)

	webhookService := service.NewWebhookService(
		cfg.Instagram.VerifyToken,
		automationService,
		dmService,
		sysLogger,
	)

	ruleService := service.NewRuleService(ruleRepo)
	knowledgeService := service.NewKnowledgeService(
		documentRepo,
		embeddingRepo,
		runRepo,
		publisherService,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		WebhookController:   controller.NewWebhookController(webhookService, sysLogger),
		RuleController:      controller.NewRuleController(ruleService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}
