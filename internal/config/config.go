package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Instagram InstagramConfig
	Ai        AIConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// InstagramConfig carries everything the webhook and transport need. There is
// no module-level token state; components receive this at construction.
type InstagramConfig struct {
	VerifyToken   string
	AccessToken   string
	GraphBaseURL  string
	FollowPrompt  string // public reply when a gated commenter does not follow
	ConfirmReply  string // public reply after a confirmed DM dispatch
	SimulateFollows bool // answer follow checks positively when no sync data exists
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string
	RetrievalMode     string // "vector" or "lexical"
	RetrievalTopK     int
}

type APIKeys struct {
	GoogleGemini string
	EmbedTopic   string // watermill topic for the embedding pipeline
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Instagram: InstagramConfig{
			VerifyToken:  getEnv("IG_VERIFY_TOKEN", ""),
			AccessToken:  getEnv("IG_ACCESS_TOKEN", ""),
			GraphBaseURL: getEnv("IG_GRAPH_BASE_URL", ""),
			FollowPrompt: getEnv("IG_FOLLOW_PROMPT",
				"Please follow our account so we can send you the details via DM! 💌"),
			ConfirmReply: getEnv("IG_CONFIRM_REPLY",
				"Just sent you the details, check your DMs! ✅"),
			SimulateFollows: getEnvAsBool("IG_SIMULATE_FOLLOWS", true),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
			RetrievalMode:     getEnv("RETRIEVAL_MODE", "vector"),
			RetrievalTopK:     getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_KNOWLEDGE_TOPIC_NAME", "EMBED_KNOWLEDGE_DOCUMENT"),
		},
	}
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
