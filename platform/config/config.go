// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SMTPConfig provides settings for SMTP email sending.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// WhatsAppConfig provides settings for the UltraMsg WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppBaseURL() string
	GetWhatsAppInstanceID() string
	GetWhatsAppToken() string
	GetWhatsAppSenderPhone() string
	IsWhatsAppEnabled() bool
}

// CalendarConfig provides settings for calendar invite delivery.
type CalendarConfig interface {
	GetCalendarSenderEmail() string
	GetCalendarEventDuration() time.Duration
	IsCalendarEnabled() bool
}

// LLMConfig provides settings for the chat completion service.
type LLMConfig interface {
	GetLLMBaseURL() string
	GetLLMAPIKey() string
	GetLLMModel() string
	GetLLMTimeout() time.Duration
	IsLLMEnabled() bool
}

// QdrantConfig provides settings for the Qdrant vector database.
type QdrantConfig interface {
	GetQdrantURL() string
	GetQdrantAPIKey() string
	GetQdrantCollection() string
	IsQdrantEnabled() bool
}

// EmbeddingConfig provides settings for the embedding API service.
type EmbeddingConfig interface {
	GetEmbeddingAPIURL() string
	GetEmbeddingAPIKey() string
	GetEmbeddingDimensions() int
	IsEmbeddingEnabled() bool
}

// RedisConfig provides settings for Redis (conversation store, task queue).
type RedisConfig interface {
	GetRedisURL() string
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetReminderLeadTime() time.Duration
}

// ConversationConfig provides settings for chat conversation history.
type ConversationConfig interface {
	GetConversationTTL() time.Duration
	GetConversationMaxTurns() int
}

// DispatchConfig provides settings for the notification dispatcher.
type DispatchConfig interface {
	GetDispatchMode() string
	GetDispatchQueueSize() int
	GetDispatchTimeout() time.Duration
}

// RAGConfig provides retrieval tuning settings.
type RAGConfig interface {
	GetRAGTopK() int
	GetRAGChunkSize() int
}

// UploadConfig provides settings for document uploads.
type UploadConfig interface {
	GetUploadMaxBytes() int64
	GetUploadDir() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	RedisURL             string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	EmailEnabled         bool
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
	WhatsAppEnabled      bool
	WhatsAppBaseURL      string
	WhatsAppInstanceID   string
	WhatsAppToken        string
	WhatsAppSenderPhone  string
	CalendarEnabled      bool
	CalendarSenderEmail  string
	CalendarEventLength  time.Duration
	LLMBaseURL           string
	LLMAPIKey            string
	LLMModel             string
	LLMTimeout           time.Duration
	QdrantURL            string
	QdrantAPIKey         string
	QdrantCollection     string
	EmbeddingAPIURL      string
	EmbeddingAPIKey      string
	EmbeddingDimensions  int
	AsynqQueueName       string
	AsynqConcurrency     int
	ReminderLeadTime     time.Duration
	ConversationTTL      time.Duration
	ConversationMaxTurns int
	DispatchMode         string
	DispatchQueueSize    int
	DispatchTimeout      time.Duration
	RAGTopK              int
	RAGChunkSize         int
	UploadMaxBytes       int64
	UploadDir            string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.EmailEnabled }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppBaseURL() string     { return c.WhatsAppBaseURL }
func (c *Config) GetWhatsAppInstanceID() string  { return c.WhatsAppInstanceID }
func (c *Config) GetWhatsAppToken() string       { return c.WhatsAppToken }
func (c *Config) GetWhatsAppSenderPhone() string { return c.WhatsAppSenderPhone }
func (c *Config) IsWhatsAppEnabled() bool {
	return c.WhatsAppEnabled && c.WhatsAppBaseURL != "" && c.WhatsAppToken != ""
}

// CalendarConfig implementation
func (c *Config) GetCalendarSenderEmail() string        { return c.CalendarSenderEmail }
func (c *Config) GetCalendarEventDuration() time.Duration { return c.CalendarEventLength }
func (c *Config) IsCalendarEnabled() bool               { return c.CalendarEnabled }

// LLMConfig implementation
func (c *Config) GetLLMBaseURL() string        { return c.LLMBaseURL }
func (c *Config) GetLLMAPIKey() string         { return c.LLMAPIKey }
func (c *Config) GetLLMModel() string          { return c.LLMModel }
func (c *Config) GetLLMTimeout() time.Duration { return c.LLMTimeout }
func (c *Config) IsLLMEnabled() bool           { return c.LLMBaseURL != "" }

// QdrantConfig implementation
func (c *Config) GetQdrantURL() string        { return c.QdrantURL }
func (c *Config) GetQdrantAPIKey() string     { return c.QdrantAPIKey }
func (c *Config) GetQdrantCollection() string { return c.QdrantCollection }
func (c *Config) IsQdrantEnabled() bool {
	return c.QdrantURL != "" && c.QdrantCollection != ""
}

// EmbeddingConfig implementation
func (c *Config) GetEmbeddingAPIURL() string    { return c.EmbeddingAPIURL }
func (c *Config) GetEmbeddingAPIKey() string    { return c.EmbeddingAPIKey }
func (c *Config) GetEmbeddingDimensions() int   { return c.EmbeddingDimensions }
func (c *Config) IsEmbeddingEnabled() bool      { return c.EmbeddingAPIURL != "" }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string           { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int            { return c.AsynqConcurrency }
func (c *Config) GetReminderLeadTime() time.Duration  { return c.ReminderLeadTime }

// ConversationConfig implementation
func (c *Config) GetConversationTTL() time.Duration { return c.ConversationTTL }
func (c *Config) GetConversationMaxTurns() int      { return c.ConversationMaxTurns }

// DispatchConfig implementation
func (c *Config) GetDispatchMode() string           { return c.DispatchMode }
func (c *Config) GetDispatchQueueSize() int         { return c.DispatchQueueSize }
func (c *Config) GetDispatchTimeout() time.Duration { return c.DispatchTimeout }

// RAGConfig implementation
func (c *Config) GetRAGTopK() int      { return c.RAGTopK }
func (c *Config) GetRAGChunkSize() int { return c.RAGChunkSize }

// UploadConfig implementation
func (c *Config) GetUploadMaxBytes() int64 { return c.UploadMaxBytes }
func (c *Config) GetUploadDir() string     { return c.UploadDir }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	dispatchMode := strings.ToLower(getEnv("DISPATCH_MODE", "sync"))

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		EmailEnabled:         strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "BizGenie"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
		WhatsAppEnabled:      strings.EqualFold(getEnv("WHATSAPP_ENABLED", "false"), "true"),
		WhatsAppBaseURL:      getEnv("WHATSAPP_BASE_URL", ""),
		WhatsAppInstanceID:   getEnv("WHATSAPP_INSTANCE_ID", ""),
		WhatsAppToken:        getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppSenderPhone:  getEnv("WHATSAPP_SENDER_PHONE", ""),
		CalendarEnabled:      strings.EqualFold(getEnv("CALENDAR_ENABLED", "false"), "true"),
		CalendarSenderEmail:  getEnv("CALENDAR_SENDER_EMAIL", ""),
		CalendarEventLength:  mustDuration(getEnv("CALENDAR_EVENT_DURATION", "1h")),
		LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMModel:             getEnv("LLM_MODEL", "llama3"),
		LLMTimeout:           mustDuration(getEnv("LLM_TIMEOUT", "90s")),
		QdrantURL:            getEnv("QDRANT_URL", ""),
		QdrantAPIKey:         getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:     getEnv("QDRANT_COLLECTION", "business_docs"),
		EmbeddingAPIURL:      getEnv("EMBEDDING_API_URL", ""),
		EmbeddingAPIKey:      getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingDimensions:  mustInt(getEnv("EMBEDDING_DIMENSIONS", "384")),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ReminderLeadTime:     mustDuration(getEnv("REMINDER_LEAD_TIME", "24h")),
		ConversationTTL:      mustDuration(getEnv("CONVERSATION_TTL", "72h")),
		ConversationMaxTurns: mustInt(getEnv("CONVERSATION_MAX_TURNS", "20")),
		DispatchMode:         dispatchMode,
		DispatchQueueSize:    mustInt(getEnv("DISPATCH_QUEUE_SIZE", "64")),
		DispatchTimeout:      mustDuration(getEnv("DISPATCH_TIMEOUT", "15s")),
		RAGTopK:              mustInt(getEnv("RAG_TOP_K", "4")),
		RAGChunkSize:         mustInt(getEnv("RAG_CHUNK_SIZE", "1200")),
		UploadMaxBytes:       mustInt64(getEnv("UPLOAD_MAX_BYTES", "20971520")),
		UploadDir:            getEnv("UPLOAD_DIR", "data/uploads"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && cfg.SMTPHost != "" && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP is configured")
	}
	if cfg.CalendarEnabled && cfg.CalendarSenderEmail == "" {
		return nil, fmt.Errorf("CALENDAR_SENDER_EMAIL is required when CALENDAR_ENABLED is true")
	}
	if dispatchMode != "sync" && dispatchMode != "async" {
		return nil, fmt.Errorf("DISPATCH_MODE must be sync or async, got %q", dispatchMode)
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
