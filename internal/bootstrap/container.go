package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-editor-be/internal/config"
	"ai-editor-be/internal/controller"
	"ai-editor-be/internal/handler"
	"ai-editor-be/internal/pkg/logger"
	"ai-editor-be/internal/pkg/mailer"
	"ai-editor-be/internal/repository/implementation"
	"ai-editor-be/internal/repository/memory"
	"ai-editor-be/internal/repository/unitofwork"
	"ai-editor-be/internal/service"
	"ai-editor-be/internal/websocket"
	"ai-editor-be/pkg/completion/factory"
	"ai-editor-be/pkg/embedding"
	"ai-editor-be/pkg/embedding/jina"

	pkgNats "ai-editor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	UserController     controller.IUserController
	FolderController   controller.IFolderController
	DocumentController controller.IDocumentController
	EditorController   controller.IEditorController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus (in-process queue for the indexing pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	completionProvider, err := factory.NewProvider(
		cfg.Ai.CompletionProvider,
		cfg.Ai.CompletionBaseURL,
		cfg.Ai.CompletionAPIKey,
		cfg.Ai.CompletionModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize completion provider: %v", err)
	}
	log.Printf("[INFO] Using Completion Provider: %s (%s)", cfg.Ai.CompletionProvider, cfg.Ai.CompletionModel)

	// In-memory editor sessions; eviction cancels in-flight assist runs.
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Ai.IndexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.IndexTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, cfg)
	oauthService := service.NewOAuthService(uowFactory, cfg)
	userService := service.NewUserService(uowFactory, cfg)

	folderService := service.NewFolderService(uowFactory)
	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		embeddingProvider,
	)

	editorService := service.NewEditorService(
		uowFactory,
		sessionRepo,
		completionProvider,
		publisherService,
		natsPub,
		wsHub,
		cfg,
	)

	chatService := service.NewChatService(
		uowFactory,
		completionProvider,
		sessionRepo,
	)

	// 4.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements RealtimeDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		OAuthController:     controller.NewOAuthController(oauthService, cfg),
		UserController:      controller.NewUserController(userService),
		FolderController:    controller.NewFolderController(folderService),
		DocumentController:  controller.NewDocumentController(documentService),
		EditorController:    controller.NewEditorController(editorService),
		ChatController:      controller.NewChatController(chatService),

		ConsumerService: consumerService,
	}
}
