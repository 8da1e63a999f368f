// Package profile holds the process-wide runtime configuration.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Profile is the configuration the server and its plugins consume.
// Every field is backed by an environment variable; defaults match the
// documented deployment profile.
type Profile struct {
	// Mode is "production" or "dev".
	Mode string
	// Addr is the bind address. Empty means all interfaces.
	Addr string
	// Port is the HTTP listen port.
	Port int
	// Data is the directory for persisted plugin state (vector index).
	Data string
	// Version is the API version reported by the health endpoint.
	Version string

	// OpenAIAPIKey authenticates against the chat-completion endpoint.
	OpenAIAPIKey string
	// OpenAIBaseURL overrides the API endpoint, e.g. for OpenRouter.
	OpenAIBaseURL string
	// OpenAIModel is the chat model identifier.
	OpenAIModel string
	// OpenAIMaxTokens bounds each generated reply.
	OpenAIMaxTokens int
	// OpenAITemperature is the sampling temperature.
	OpenAITemperature float64

	// SessionTimeout is how long a session may stay idle before the
	// cleanup runner evicts it.
	SessionTimeout time.Duration
	// HistoryWindow is the number of recent messages kept per session
	// and handed to the model as context.
	HistoryWindow int
	// SweepInterval is how often the cleanup runner sweeps.
	SweepInterval time.Duration
	// MaxConcurrentSessions caps active sessions; new chats beyond the
	// cap are rejected with 429.
	MaxConcurrentSessions int
	// RequestTimeout bounds each upstream generation call.
	RequestTimeout time.Duration

	// AllowedOrigins is the CORS allow-list.
	AllowedOrigins []string
}

// GetProfile loads configuration from the environment.
func GetProfile() *Profile {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("ARALIYA_ADDR", "")
	v.SetDefault("ARALIYA_PORT", 7860)
	v.SetDefault("ARALIYA_DATA", ".araliya")
	v.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	v.SetDefault("OPENAI_MAX_TOKENS", 1000)
	v.SetDefault("OPENAI_TEMPERATURE", 0.7)
	v.SetDefault("SESSION_TIMEOUT_MINUTES", 60)
	v.SetDefault("MAX_CONVERSATION_HISTORY", 20)
	v.SetDefault("SESSION_CLEANUP_INTERVAL", 30)
	v.SetDefault("MAX_CONCURRENT_SESSIONS", 10)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("ALLOWED_ORIGINS", "*")

	return &Profile{
		Mode:                  v.GetString("ENVIRONMENT"),
		Addr:                  v.GetString("ARALIYA_ADDR"),
		Port:                  v.GetInt("ARALIYA_PORT"),
		Data:                  v.GetString("ARALIYA_DATA"),
		Version:               "1.0.0",
		OpenAIAPIKey:          v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:         v.GetString("OPENAI_BASE_URL"),
		OpenAIModel:           v.GetString("OPENAI_MODEL"),
		OpenAIMaxTokens:       v.GetInt("OPENAI_MAX_TOKENS"),
		OpenAITemperature:     v.GetFloat64("OPENAI_TEMPERATURE"),
		SessionTimeout:        time.Duration(v.GetInt("SESSION_TIMEOUT_MINUTES")) * time.Minute,
		HistoryWindow:         v.GetInt("MAX_CONVERSATION_HISTORY"),
		SweepInterval:         time.Duration(v.GetInt("SESSION_CLEANUP_INTERVAL")) * time.Minute,
		MaxConcurrentSessions: v.GetInt("MAX_CONCURRENT_SESSIONS"),
		RequestTimeout:        time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		AllowedOrigins:        splitOrigins(v.GetString("ALLOWED_ORIGINS")),
	}
}

// Validate rejects configurations that cannot serve chat requests.
func (p *Profile) Validate() error {
	if p.OpenAIAPIKey == "" || p.OpenAIAPIKey == "your-api-key-here" {
		return fmt.Errorf("OPENAI_API_KEY is not configured")
	}
	if p.HistoryWindow <= 0 {
		return fmt.Errorf("MAX_CONVERSATION_HISTORY must be positive, got %d", p.HistoryWindow)
	}
	if p.MaxConcurrentSessions <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_SESSIONS must be positive, got %d", p.MaxConcurrentSessions)
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
