package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	CacheDriver        string // "memory", "redis" or "none"
	EventsTopic        string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "memory"
	Connection string
}

type StorageConfig struct {
	UploadDir   string
	MaxUploadMB int
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	OpenAI       string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider  string // "jina", "gemini", "ollama" or "openai"
	EmbeddingModel     string
	EmbeddingDimension int
	LLMProvider        string // "ollama", "openai" or "huggingface"
	LLMModel           string
	ExtractionProvider string // "local" or "gemini"
	ExtractionModel    string
	OllamaBaseURL      string
	RequestTimeoutSec  int
}

// Model used when LLM_MODEL is unset, per LLM_PROVIDER.
var defaultLLMModels = map[string]string{
	"ollama":      "llama3",
	"openai":      "gpt-4o-mini",
	"huggingface": "meta-llama/Llama-3.1-8B-Instruct",
}

const defaultOpenAIEmbeddingModel = "text-embedding-3-small"

// OpenAI embedding models have a fixed output size; the langchaingo client
// cannot request a shorter vector.
var openAIEmbeddingDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// RagConfig carries every retrieval and chunking knob.
type RagConfig struct {
	ChunkSize           int
	ChunkOverlap        int
	SimilarityThreshold float64
	NumCandidates       int
	SearchLimit         int
	TopK                int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	embeddingProvider := getEnv("EMBEDDING_PROVIDER", "jina")
	embeddingModel := getEnv("EMBEDDING_MODEL", "")
	llmProvider := getEnv("LLM_PROVIDER", "ollama")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			CacheDriver:        getEnv("CACHE_DRIVER", "memory"),
			EventsTopic:        getEnv("DOCUMENT_EVENTS_TOPIC", "DOCUMENT_EVENTS"),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
		},
		Database: DatabaseConfig{
			Driver:     getEnv("STORE_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 10),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  embeddingProvider,
			EmbeddingModel:     embeddingModel,
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", defaultEmbeddingDimension(embeddingProvider, embeddingModel)),
			LLMProvider:        llmProvider,
			LLMModel:           getEnv("LLM_MODEL", defaultLLMModels[llmProvider]),
			ExtractionProvider: getEnv("EXTRACTION_PROVIDER", "local"),
			ExtractionModel:    getEnv("EXTRACTION_MODEL", "gemini-2.0-flash"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			RequestTimeoutSec:  getEnvAsInt("AI_REQUEST_TIMEOUT_SEC", 120),
		},
		Rag: RagConfig{
			ChunkSize:           getEnvAsInt("RAG_CHUNK_SIZE", 1000),
			ChunkOverlap:        getEnvAsInt("RAG_CHUNK_OVERLAP", 200),
			SimilarityThreshold: getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0.65),
			NumCandidates:       getEnvAsInt("RAG_NUM_CANDIDATES", 100),
			SearchLimit:         getEnvAsInt("RAG_SEARCH_LIMIT", 10),
			TopK:                getEnvAsInt("RAG_TOP_K", 5),
		},
	}
}

// DefaultRagConfig mirrors the fallbacks used by Load.
func DefaultRagConfig() RagConfig {
	return RagConfig{
		ChunkSize:           1000,
		ChunkOverlap:        200,
		SimilarityThreshold: 0.65,
		NumCandidates:       100,
		SearchLimit:         10,
		TopK:                5,
	}
}

func defaultEmbeddingDimension(provider, model string) int {
	if provider == "openai" {
		if model == "" {
			model = defaultOpenAIEmbeddingModel
		}
		if dim, ok := openAIEmbeddingDimensions[model]; ok {
			return dim
		}
	}
	return 1024
}

func (c *Config) Validate() error {
	if err := c.Ai.Validate(); err != nil {
		return err
	}
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.Storage.MaxUploadMB)
	}
	if c.Database.Driver == "postgres" && c.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required when STORE_DRIVER=postgres")
	}
	return c.Rag.Validate()
}

func (a AIConfig) Validate() error {
	if a.EmbeddingDimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", a.EmbeddingDimension)
	}
	if _, ok := defaultLLMModels[a.LLMProvider]; !ok {
		return fmt.Errorf("LLM_PROVIDER %q is not supported", a.LLMProvider)
	}
	if a.EmbeddingProvider == "openai" {
		model := a.EmbeddingModel
		if model == "" {
			model = defaultOpenAIEmbeddingModel
		}
		if want, ok := openAIEmbeddingDimensions[model]; ok && want != a.EmbeddingDimension {
			return fmt.Errorf("EMBEDDING_DIMENSION %d does not match %s, which returns %d-dimensional vectors",
				a.EmbeddingDimension, model, want)
		}
	}
	return nil
}

func (r RagConfig) Validate() error {
	if r.ChunkSize <= 0 {
		return fmt.Errorf("RAG_CHUNK_SIZE must be positive, got %d", r.ChunkSize)
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return fmt.Errorf("RAG_CHUNK_OVERLAP must be in [0, %d), got %d", r.ChunkSize, r.ChunkOverlap)
	}
	if r.SimilarityThreshold < 0 || r.SimilarityThreshold > 1 {
		return fmt.Errorf("RAG_SIMILARITY_THRESHOLD must be in [0, 1], got %v", r.SimilarityThreshold)
	}
	if r.TopK <= 0 || r.SearchLimit < r.TopK {
		return fmt.Errorf("RAG_TOP_K (%d) must be positive and not exceed RAG_SEARCH_LIMIT (%d)", r.TopK, r.SearchLimit)
	}
	if r.NumCandidates < r.SearchLimit {
		return fmt.Errorf("RAG_NUM_CANDIDATES (%d) must be >= RAG_SEARCH_LIMIT (%d)", r.NumCandidates, r.SearchLimit)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
