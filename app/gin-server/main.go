package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/config"
	"github.com/chainchat/backend/internal/api/handlers"
	"github.com/chainchat/backend/internal/api/middleware"
	"github.com/chainchat/backend/internal/api/routes"
	"github.com/chainchat/backend/internal/cache"
	"github.com/chainchat/backend/internal/convex"
	"github.com/chainchat/backend/internal/logger"
	"github.com/chainchat/backend/internal/providers/crawler"
	"github.com/chainchat/backend/internal/providers/embedding"
	"github.com/chainchat/backend/internal/providers/llm"
	"github.com/chainchat/backend/internal/providers/market"
	"github.com/chainchat/backend/internal/repositories"
	convexrepo "github.com/chainchat/backend/internal/repositories/convex"
	mongorepo "github.com/chainchat/backend/internal/repositories/mongo"
	pgrepo "github.com/chainchat/backend/internal/repositories/postgres"
	"github.com/chainchat/backend/internal/search"
	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/storage"
	"github.com/chainchat/backend/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadSettings()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends := services.Backends{Fallback: fallbackStore(ctx, cfg, log)}
	if cfg.AlternateBackendEnabled() {
		client, err := convex.New(convex.Config{URL: cfg.ResolvedConvexURL(), DeployKey: cfg.ConvexDeployKey})
		if err != nil {
			log.Fatalf("convex: %v", err)
		}
		backends.Primary = convexrepo.NewSet(client)
	}
	log.WithFields(logrus.Fields{
		"primary":  setName(backends.Primary),
		"fallback": setName(backends.Fallback),
	}).Info("stores selected")

	var rdb *redis.Client
	var marketCache cache.Cache
	if config.RedisConfigured() {
		if err := config.InitRedis(); err != nil {
			log.Fatalf("Redis init error: %v", err)
		}
		rdb = config.RedisClient
		marketCache = cache.NewRedisCache(rdb, "chainchat:market:")
		log.Info("Redis connected")
	}

	var embedder services.Embedder
	if cfg.GeminiAPIKey != "" {
		e, err := embedding.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
		if err != nil {
			log.Fatalf("embedding: %v", err)
		}
		defer e.Close()
		embedder = e
	}

	users := services.NewUserService(backends, log)
	chats := services.NewChatService(backends, log)
	knowledge := services.NewKnowledgeService(backends, embedder, log)
	tokens := services.NewTokenService(backends, log)
	savedTokens := services.NewSavedTokenService(backends, log)

	var enqueue handlers.EnqueueFunc
	if rdb != nil && embedder != nil {
		startIngestWorkers(ctx, cfg, log, rdb, knowledge, embedder)
		enqueue = func(ctx context.Context, job workers.IngestJob) (string, error) {
			return workers.EnqueueIngest(ctx, rdb, job)
		}
	}

	privyKey, err := middleware.ParsePrivyKey(cfg.PrivyKey)
	if err != nil {
		log.WithError(err).Warn("privy key unavailable, authenticated routes will fail")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		Images: handlers.NewImageHandler(objectStore(ctx, cfg, log)),
		Search: handlers.NewSearchHandler(search.New(cfg.MeiliHost, cfg.MeiliAPIKey), tokens),
		Tokens: handlers.NewTokenHandler(tokens),
		Market: handlers.NewMarketHandler(
			market.NewBirdeye(market.BirdeyeConfig{APIKey: cfg.BirdeyeAPIKey}),
			market.NewJupiter(cfg.JupiterBaseURL, nil),
			marketCache,
			cfg.MarketCacheTTL,
		),
		Users: handlers.NewUserHandler(users, storage.ImageURLs{
			BaseURL:         cfg.ImagesBaseURL,
			AzureAccountURL: cfg.AzureAccountURL,
			AzureSAS:        cfg.AzureSAS,
		}),
		Chats:         handlers.NewChatHandler(chats),
		SavedTokens:   handlers.NewSavedTokenHandler(savedTokens),
		Knowledge:     handlers.NewKnowledgeHandler(knowledge, enqueue),
		CrawlAuthCode: cfg.CrawlAuthCode,
		Auth:          middleware.PrivyAuth(cfg.PrivyAppID, privyKey),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func fallbackStore(ctx context.Context, cfg *config.Settings, log *logrus.Logger) *repositories.Set {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		if err := config.InitMongo(); err != nil {
			log.Fatalf("MongoDB init error: %v", err)
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("mongo indexes")
		}
		if err := config.EnsureVectorSearchIndex(ctx); err != nil {
			log.WithError(err).Warn("mongo vector search index")
		}
		log.Info("MongoDB connected")
		return mongorepo.NewSet(config.MongoDatabase())

	case config.BackendPostgres:
		if err := config.InitPostgres(); err != nil {
			log.Fatalf("PostgreSQL init error: %v", err)
		}
		if err := config.MigratePostgres(); err != nil {
			log.Fatalf("PostgreSQL migrate error: %v", err)
		}
		log.Info("PostgreSQL connected")
		return pgrepo.NewSet(config.PostgresDB)
	}
	return nil
}

func objectStore(ctx context.Context, cfg *config.Settings, log *logrus.Logger) storage.ObjectStore {
	switch cfg.StorageProvider {
	case "gcs":
		s, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("gcs: %v", err)
		}
		return s
	case "minio":
		s, err := storage.NewMinIOStore(storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			Secure:    cfg.MinIOSecure,
			Region:    cfg.MinIORegion,
			PublicURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			log.Fatalf("minio: %v", err)
		}
		return s
	}
	log.Warn("STORAGE_PROVIDER not set, image uploads disabled")
	return nil
}

func startIngestWorkers(ctx context.Context, cfg *config.Settings, log *logrus.Logger, rdb *redis.Client, knowledge services.KnowledgeService, embedder services.Embedder) {
	pool := &workers.IngestWorkerPool{
		Redis:     rdb,
		Knowledge: knowledge,
		Scraper: crawler.New(crawler.Config{
			APIKey:      cfg.FirecrawlAPIKey,
			AllowDirect: cfg.CrawlDirect,
		}),
		Embedder:       embedder,
		NumWorkers:     cfg.IngestWorkers,
		Logger:         log,
		ConsumerPrefix: "api",
	}
	if cfg.VertexProject != "" {
		summarizer, err := llm.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			log.WithError(err).Warn("vertex unavailable, summaries fall back to page descriptions")
		} else {
			pool.Summarizer = summarizer
			go func() {
				<-ctx.Done()
				summarizer.Close()
			}()
		}
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("ingest workers: %v", err)
	}
}

func setName(s *repositories.Set) string {
	if s == nil {
		return "none"
	}
	return s.Name
}
