package config

import "time"

// AIConfig holds the tutor's OpenAI-compatible endpoint settings
type AIConfig struct {
	APIKey  string `json:"-"` // Never serialize
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`

	// MaxHistory caps how many earlier messages are sent with each turn
	MaxHistory int `json:"maxHistory"`
	TimeoutMS  int `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration, disabled until a key is set
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o-mini",
		MaxHistory: 20,
		TimeoutMS:  30000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c != nil && c.APIKey != ""
}

func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
