package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"document-qa-be/internal/config"
	"document-qa-be/internal/controller"
	"document-qa-be/internal/handler"
	"document-qa-be/internal/metrics"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/internal/repository/memory"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/internal/service"
	"document-qa-be/internal/websocket"
	"document-qa-be/pkg/cache"
	"document-qa-be/pkg/database"
	"document-qa-be/pkg/embedding"
	embeddingFactory "document-qa-be/pkg/embedding/factory"
	"document-qa-be/pkg/extraction"
	llmFactory "document-qa-be/pkg/llm/factory"
	pktNats "document-qa-be/pkg/nats"
	"document-qa-be/pkg/rag/chunker"
	"document-qa-be/pkg/rag/search"
	"document-qa-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const queryCacheTTL = time.Hour

type Container struct {
	Config  *config.Config
	Logger  logger.ILogger
	Metrics *metrics.Metrics
	DB      *gorm.DB // nil with STORE_DRIVER=memory
	Blobs   *storage.FileStorage

	// Services
	IngestionService service.IIngestionService
	RetrievalService service.IRetrievalService
	DocumentService  service.IDocumentService

	// Controllers
	DocumentController controller.IDocumentController
	QueryController    controller.IQueryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	DocumentEventsHandler *handler.DocumentEventsHandler
	WebSocketHub          *websocket.Hub

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	isProd := cfg.App.Environment == "production"
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, isProd)
	c := &Container{
		Config:  cfg,
		Logger:  sysLogger,
		Metrics: metrics.New(),
	}

	// 1. Stores
	uowFactory, err := c.newRepositoryFactory(isProd)
	if err != nil {
		return nil, err
	}

	blobs, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.App.BaseURL+"/uploads")
	if err != nil {
		return nil, err
	}
	c.Blobs = blobs

	rdb, err := c.newRedisClient()
	if err != nil {
		return nil, err
	}

	queryCache, err := c.newCache(rdb)
	if err != nil {
		return nil, err
	}

	// 2. AI Providers
	embeddingProvider, err := embeddingFactory.NewEmbeddingProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	embedder := embedding.NewClient(
		embeddingProvider,
		cfg.Ai.EmbeddingDimension,
		embedding.WithTimeout(time.Duration(cfg.Ai.RequestTimeoutSec)*time.Second),
		embedding.WithQueryCache(queryCache, queryCacheTTL),
		embedding.WithLogger(sysLogger),
	)

	extractor, err := extraction.NewExtractor(cfg)
	if err != nil {
		return nil, fmt.Errorf("extraction provider: %w", err)
	}

	llmProvider, err := llmFactory.NewLLMProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	textChunker, err := chunker.New(chunker.Options{Size: cfg.Rag.ChunkSize, Overlap: cfg.Rag.ChunkOverlap})
	if err != nil {
		return nil, err
	}

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })
	publisherService := service.NewPublisherService(pubSub, cfg.App.EventsTopic)

	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	sinks := map[string]service.EventSink{
		"websocket": c.WebSocketHub.Broadcast,
	}
	if cfg.App.NatsURL != "" {
		natsPublisher, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, events stay local", map[string]interface{}{"error": err.Error()})
		} else {
			sinks["nats"] = natsPublisher.Publish
			c.closers = append(c.closers, natsPublisher.Close)
		}
	}
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventsTopic, sinks, sysLogger)

	// 4. Services
	c.IngestionService = service.NewIngestionService(
		uowFactory, blobs, extractor, embedder, textChunker, publisherService, c.Metrics, sysLogger,
	)
	c.RetrievalService = service.NewRetrievalService(
		uowFactory,
		search.NewOrchestrator(embedder, sysLogger),
		llmProvider,
		search.ConfigFromRag(cfg.Rag),
		c.Metrics,
		sysLogger,
	)
	c.DocumentService = service.NewDocumentService(uowFactory, blobs, publisherService, sysLogger)

	// 5. Controllers
	c.DocumentController = controller.NewDocumentController(c.IngestionService, c.DocumentService)
	c.QueryController = controller.NewQueryController(c.RetrievalService)
	c.DocumentEventsHandler = handler.NewDocumentEventsHandler(c.WebSocketHub, sysLogger)

	sysLogger.Info("BOOTSTRAP", "Container ready", map[string]interface{}{
		"store":     cfg.Database.Driver,
		"embedding": embeddingProvider.Name(),
		"extractor": extractor.Name(),
		"llm":       cfg.Ai.LLMProvider,
		"cache":     cfg.App.CacheDriver,
	})

	return c, nil
}

// Start launches the websocket hub and the event consumer.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.ConsumerService.Consume(ctx)
}

// Ping reports whether the metadata store is reachable.
func (c *Container) Ping(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// MetricsHandler exposes the prometheus registry.
func (c *Container) MetricsHandler() http.Handler {
	return c.Metrics.Handler()
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func (c *Container) newRepositoryFactory(isProd bool) (unitofwork.RepositoryFactory, error) {
	switch c.Config.Database.Driver {
	case "memory":
		return memory.NewRepositoryFactory(memory.NewStore()), nil
	case "postgres":
		db, err := database.NewGormDBFromDSN(c.Config.Database.Connection, isProd)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		c.DB = db
		c.closers = append(c.closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		return unitofwork.NewRepositoryFactory(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", c.Config.Database.Driver)
	}
}

func (c *Container) newRedisClient() (*redis.Client, error) {
	if c.Config.App.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(c.Config.App.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	c.closers = append(c.closers, func() { rdb.Close() })
	return rdb, nil
}

func (c *Container) newCache(rdb *redis.Client) (cache.Cache, error) {
	if c.Config.App.CacheDriver == "redis" && rdb != nil {
		return cache.NewRedisCache(rdb), nil
	}
	return cache.New(c.Config.App.CacheDriver, c.Config.App.RedisURL)
}
