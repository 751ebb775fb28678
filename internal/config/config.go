package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	IndexTopicName     string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "deepseek"
	LLMModel          string // e.g. "llama3", "qwen2.5", "deepseek-chat"
	OllamaBaseURL     string
	DeepSeekAPIKey    string
	DeepSeekBaseURL   string
	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingModel    string
	GoogleGeminiKey   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			IndexTopicName:     getEnv("INDEX_DOCUMENT_TOPIC_NAME", "INDEX_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			DeepSeekAPIKey:    getEnv("DEEPSEEK_API_KEY", ""),
			DeepSeekBaseURL:   getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			GoogleGeminiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
