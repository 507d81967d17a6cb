package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	CacheTTLs CacheTTLConfig  `mapstructure:"cache_ttls"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Grading   GradingConfig   `mapstructure:"grading"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	// URL takes precedence over the discrete fields when set.
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimitMB  int           `mapstructure:"body_limit_mb"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig selects the persistence driver: "postgres" or "memory".
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	ServerURL string `mapstructure:"server_url"`
	Model     string `mapstructure:"model"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	OpenAI      OpenAIConfig  `mapstructure:"openai"`
	Ollama      OllamaConfig  `mapstructure:"ollama"`
}

type EmbeddingConfig struct {
	Source     string       `mapstructure:"source"`
	Dimensions int          `mapstructure:"dimensions"`
	OpenAI     OpenAIConfig `mapstructure:"openai"`
	Ollama     OllamaConfig `mapstructure:"ollama"`
}

// CacheTTLConfig holds TTLs as duration strings such as "168h".
type CacheTTLConfig struct {
	Embedding string `mapstructure:"embedding"`
	Topics    string `mapstructure:"topics"`
}

type ChunkingConfig struct {
	MaxChars int `mapstructure:"max_chars"`
}

type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

type QuizConfig struct {
	MaxContextTokens int      `mapstructure:"max_context_tokens"`
	TokenEncoding    string   `mapstructure:"token_encoding"`
	PassagePhrases   []string `mapstructure:"passage_phrases"`
	Temperature      float64  `mapstructure:"temperature"`
}

type GradingConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type IngestConfig struct {
	WatchExtensions []string `mapstructure:"watch_extensions"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.body_limit_mb", 10)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "tutor")
	v.SetDefault("db.url", "")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.ollama.server_url", "http://localhost:11434")
	v.SetDefault("llm.ollama.model", "qwen3:4b")

	v.SetDefault("embedding.source", "openai")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("embedding.openai.api_key", "")
	v.SetDefault("embedding.openai.model", "text-embedding-3-small")
	v.SetDefault("embedding.openai.base_url", "")
	v.SetDefault("embedding.ollama.server_url", "http://localhost:11434")
	v.SetDefault("embedding.ollama.model", "nomic-embed-text")

	v.SetDefault("cache_ttls.embedding", "168h")
	v.SetDefault("cache_ttls.topics", "10m")

	v.SetDefault("chunking.max_chars", 900)
	v.SetDefault("retrieval.top_k", 6)

	v.SetDefault("quiz.max_context_tokens", 3000)
	v.SetDefault("quiz.token_encoding", "cl100k_base")
	v.SetDefault("quiz.temperature", 0.4)
	v.SetDefault("quiz.passage_phrases", []string{})

	v.SetDefault("grading.concurrency", 4)
	v.SetDefault("ingest.watch_extensions", []string{".txt", ".md"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads config.yaml (optional), .env (optional) and the environment.
// Nested keys map to upper-case env vars with "_" separators, e.g. LLM_OPENAI_API_KEY.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// OPENAI_API_KEY fills any provider key left unset.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.LLM.OpenAI.APIKey == "" {
			cfg.LLM.OpenAI.APIKey = key
		}
		if cfg.Embedding.OpenAI.APIKey == "" {
			cfg.Embedding.OpenAI.APIKey = key
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DB.URL = dbURL
	}

	return &cfg, nil
}

// GetDSN returns a postgres connection URL.
func (c *Config) GetDSN() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}
	sslMode := c.DB.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		sslMode,
	)
}

// ParseTTLStringOrDefault parses a duration string, falling back to defaultTTL
// when the string is empty or invalid.
func (c *Config) ParseTTLStringOrDefault(ttlString string, defaultTTL time.Duration) time.Duration {
	if ttlString == "" {
		return defaultTTL
	}
	duration, err := time.ParseDuration(ttlString)
	if err != nil {
		return defaultTTL
	}
	return duration
}
