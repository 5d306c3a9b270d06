package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// Config holds all application configuration.
type Config struct {
	Port    string
	GoEnv   string
	GinMode string

	LogLevel string

	DBDriver    string
	DatabaseURL string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL   string
	RabbitMQQueue string

	ImageStorage       string
	UploadDir          string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	CORSAllowOrigins []string
	RateLimitRPS     float64
	RateLimitBurst   int

	OutboxInterval    time.Duration
	OutboxMaxAttempts int // 0 = retry until the history store accepts the row
}

// Load membaca .env.<GO_ENV> lalu .env, kemudian environment variable.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			utils.InfoLogger.Println("No .env file found, using system environment variables")
		}
	} else {
		utils.InfoLogger.Printf("Loaded configuration from %s", envFile)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GoEnv:   getEnv("GO_ENV", "development"),
		GinMode: getEnv("GIN_MODE", "debug"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "restaurante"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue: getEnv("RABBITMQ_QUEUE", "restaurante.eventos"),

		ImageStorage:       strings.ToLower(getEnv("IMAGE_STORAGE", "local")),
		UploadDir:          getEnv("UPLOAD_DIR", "public/uploads"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 100),

		OutboxInterval:    getEnvDuration("OUTBOX_INTERVAL", 2*time.Second),
		OutboxMaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 0),
	}
}

// Validate checks that the required configuration values are consistent.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", c.DBDriver)
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (postgres, mysql, sqlite)", c.DBDriver)
	}

	switch c.ImageStorage {
	case "local":
	case "s3":
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required for IMAGE_STORAGE=s3")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORAGE %q (local, s3)", c.ImageStorage)
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if c.OutboxMaxAttempts < 0 {
		return fmt.Errorf("OUTBOX_MAX_ATTEMPTS must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
