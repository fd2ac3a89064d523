package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"docbrief-backend/internal/documents"
	"docbrief-backend/internal/llm"
	"docbrief-backend/internal/llm/embcache"
	openai "docbrief-backend/internal/llm/openai"
	"docbrief-backend/internal/shared/config"
	"docbrief-backend/internal/shared/server"
	"docbrief-backend/internal/shared/storage/db"
	"docbrief-backend/internal/shared/storage/object"
	localstore "docbrief-backend/internal/shared/storage/object/local"
	s3store "docbrief-backend/internal/shared/storage/object/s3"
	"docbrief-backend/internal/shared/telemetry"
	"docbrief-backend/internal/summaries"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Redis            *redis.Client
	DocumentsRepo    documents.DocumentsRepo
	DocumentsService *documents.Service
	SummariesService *summaries.Service
	DocumentsHandler *documents.Handler
	SummariesHandler *summaries.Handler
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.Init(cfg.Env)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient := buildRedis(ctx, cfg)

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Redis:  redisClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		SummariesHandler: app.SummariesHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildRedis returns nil when Redis is absent or unreachable; the embedding
// cache is an optimization, not a dependency.
func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("bootstrap: redis unreachable at %s; embedding cache disabled: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil
	}

	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}

	summarizer := llm.Summarizer(llm.PlaceholderSummarizer{})
	embedder := llm.Embedder(llm.PlaceholderEmbedder{})
	if app.Config.LLMProvider == "openai" {
		apiKey := os.Getenv("OPENAI_API_KEY")

		client, err := openai.NewClient(apiKey, app.Config.LLMModel)
		if err != nil {
			return err
		}
		summarizer = client

		emb, err := openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  apiKey,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   app.Config.EmbeddingModel,
		})
		if err != nil {
			return err
		}
		embedder = emb
	}

	if app.Redis != nil {
		embedder = embcache.New(embedder, embcache.NewRedisStore(app.Redis, 0))
	}

	summariesSvc := &summaries.Service{
		Docs:       docSvc,
		Repo:       docRepo,
		Store:      app.Store,
		Summarizer: summarizer,
		Embedder:   embedder,
	}

	app.DocumentsRepo = docRepo
	app.DocumentsService = docSvc
	app.SummariesService = summariesSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.SummariesHandler = summaries.NewHandler(summariesSvc)

	return nil
}
