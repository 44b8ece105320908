package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Renderer RendererConfig
}

type ServerConfig struct {
	Port string
	Env  string
	// AllowOrigins is the comma-separated CORS origin list.
	AllowOrigins string
}

// GeminiConfig holds model settings only. API keys are supplied per session
// and never read from the environment.
type GeminiConfig struct {
	Model   string
	BaseURL string
	// Temperature is nil when GEMINI_TEMPERATURE is unset or invalid.
	Temperature *float32
}

type StorageConfig struct {
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency           int
	QueueSize             int
	GenerationParallelism int
}

type RendererConfig struct {
	Enabled     bool
	Timeout     time.Duration
	TailwindURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}
	return FromEnv()
}

// FromEnv builds the config from the current process environment.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("ENV", "development"),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Gemini: GeminiConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:     getEnv("GEMINI_BASE_URL", ""),
			Temperature: getEnvAsFloat32Ptr("GEMINI_TEMPERATURE"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:           getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:             getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			GenerationParallelism: getEnvAsInt("GENERATION_PARALLELISM", 3),
		},
		Renderer: RendererConfig{
			Enabled:     getEnvAsBool("RENDERER_ENABLED", true),
			Timeout:     getEnvAsDuration("RENDERER_TIMEOUT", "30s"),
			TailwindURL: getEnv("TAILWIND_CDN_URL", "https://cdn.tailwindcss.com"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32Ptr(key string) *float32 {
	valueStr := getEnv(key, "")
	value, err := strconv.ParseFloat(valueStr, 32)
	if err != nil {
		return nil
	}
	f := float32(value)
	return &f
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
