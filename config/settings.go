package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Port     string `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	UseConvex       bool          `env:"USE_CONVEX"`
	ConvexURL       string        `env:"CONVEX_URL"`
	PublicConvexURL string        `env:"NEXT_PUBLIC_CONVEX_URL"`
	ConvexDeployKey string        `env:"CONVEX_DEPLOY_KEY"`
	StoreBackend    string        `env:"STORE_BACKEND,default=mongo"`
	MeiliHost       string        `env:"MEILI_HOST"`
	MeiliAPIKey     string        `env:"MEILI_API_KEY"`
	CrawlAuthCode   string        `env:"CRAWL_AUTH_CODE"`
	StorageProvider string        `env:"STORAGE_PROVIDER"`
	GCSBucket       string        `env:"GCS_BUCKET"`
	MinIOEndpoint   string        `env:"MINIO_ENDPOINT"`
	MinIOAccessKey  string        `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey  string        `env:"MINIO_SECRET_KEY"`
	MinIOBucket     string        `env:"MINIO_BUCKET,default=chainchat"`
	MinIOSecure     bool          `env:"MINIO_SECURE,default=true"`
	MinIORegion     string        `env:"MINIO_REGION"`
	MinIOPublicURL  string        `env:"MINIO_PUBLIC_URL"`
	ImagesBaseURL   string        `env:"IMAGES_BASE_URL"`
	AzureAccountURL string        `env:"AZURE_STORAGE_ACCOUNT_URL"`
	AzureSAS        string        `env:"AZURE_STORAGE_SAS_STRING"`
	PrivyAppID      string        `env:"PRIVY_APP_ID"`
	PrivyKey        string        `env:"PRIVY_VERIFICATION_KEY"`
	FirecrawlAPIKey string        `env:"FIRECRAWL_API_KEY"`
	CrawlDirect     bool          `env:"CRAWL_DIRECT_FETCH"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	EmbeddingModel  string        `env:"EMBEDDING_MODEL,default=text-embedding-004"`
	VertexProject   string        `env:"VERTEX_PROJECT"`
	VertexLocation  string        `env:"VERTEX_LOCATION,default=us-central1"`
	VertexModel     string        `env:"VERTEX_MODEL,default=gemini-1.5-flash"`
	BirdeyeAPIKey   string        `env:"BIRDEYE_API_KEY"`
	JupiterBaseURL  string        `env:"JUPITER_BASE_URL"`
	MarketCacheTTL  time.Duration `env:"MARKET_CACHE_TTL,default=60s"`
	IngestWorkers   int           `env:"INGEST_WORKERS,default=2"`
}

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// LoadSettings decodes the environment. Call godotenv.Load first to pick
// up a .env file.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, err
	}
	s.StoreBackend = strings.ToLower(strings.TrimSpace(s.StoreBackend))
	if s.StoreBackend == "" {
		s.StoreBackend = BackendMongo
	}
	switch s.StoreBackend {
	case BackendMongo, BackendPostgres, BackendNone:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be mongo, postgres or none, got %q", s.StoreBackend)
	}
	return &s, nil
}

// ResolvedConvexURL prefers CONVEX_URL over the frontend variable.
func (s *Settings) ResolvedConvexURL() string {
	if s.ConvexURL != "" {
		return s.ConvexURL
	}
	return s.PublicConvexURL
}

// AlternateBackendEnabled reports whether Convex is the primary store.
// It is read once at startup; flipping it later does not move data.
func (s *Settings) AlternateBackendEnabled() bool {
	return s.UseConvex && s.ResolvedConvexURL() != ""
}
