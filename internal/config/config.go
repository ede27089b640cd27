package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	Database  Database  `yaml:"database"`
	Redis     Redis     `yaml:"redis"`
	Auth      Auth      `yaml:"auth"`
	LLM       LLM       `yaml:"llm"`
	Scraper   Scraper   `yaml:"scraper"`
	Scheduler Scheduler `yaml:"scheduler"`
	Scoring   Scoring   `yaml:"scoring"`
	S3        S3        `yaml:"s3"`
}

// S3 holds S3/MinIO storage configuration
type S3 struct {
	Enabled         bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"exports"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/exports"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"45s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Log holds logger configuration
type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SlogLevel converts the configured level name
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Database holds database configuration
type Database struct {
	// PostgreSQL
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`

	// Apply embedded migrations on startup
	Migrate bool `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

// Redis holds cache configuration
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	StyleTTL time.Duration `yaml:"style_ttl" env:"REDIS_STYLE_TTL" env-default:"24h"`
}

// Auth holds session configuration
type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"change-me"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"720h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// LLM holds text-generation API configuration
type LLM struct {
	BaseURL string        `yaml:"base_url" env:"ANTHROPIC_BASE_URL" env-default:"https://api.anthropic.com"`
	APIKey  string        `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model   string        `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-5"`
	Timeout time.Duration `yaml:"timeout" env:"ANTHROPIC_TIMEOUT" env-default:"30s"`

	// Circuit breaker
	BreakerFailures uint          `yaml:"breaker_failures" env:"LLM_BREAKER_FAILURES" env-default:"5"`
	BreakerWindow   uint          `yaml:"breaker_window" env:"LLM_BREAKER_WINDOW" env-default:"10"`
	BreakerDelay    time.Duration `yaml:"breaker_delay" env:"LLM_BREAKER_DELAY" env-default:"30s"`
}

// Scraper holds public timeline scraping configuration
type Scraper struct {
	Instances []string      `yaml:"instances" env:"NITTER_INSTANCES" env-separator:"," env-default:"https://nitter.net,https://nitter.poast.org,https://nitter.privacydev.net,https://nitter.1d4.us,https://nitter.kavin.rocks"`
	Timeout   time.Duration `yaml:"timeout" env:"NITTER_TIMEOUT" env-default:"10s"`
}

// Scheduler holds scheduler configuration
type Scheduler struct {
	Enabled bool   `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"false"`
	Spec    string `yaml:"spec" env:"SCHEDULER_SPEC" env-default:"@every 1m"`
	Batch   int    `yaml:"batch" env:"SCHEDULER_BATCH" env-default:"50"`
}

// Scoring holds engine configuration
type Scoring struct {
	Timezone    string `yaml:"timezone" env:"SCORING_TIMEZONE" env-default:"Europe/Istanbul"`
	LexiconPath string `yaml:"lexicon_path" env:"SCORING_LEXICON_PATH"`
}

// Location resolves the scoring timezone, falling back to UTC
func (s Scoring) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
