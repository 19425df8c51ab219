package model

import "time"

// ----------------------------------------------------
// ================ Config ================

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Format     string `envconfig:"LOG_FORMAT" default:"console" yaml:"format"` // console | json
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout" yaml:"output"`  // stdout | stderr | file
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/gpttransit.log" yaml:"file_path"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339" yaml:"time_format"`
}

// ConversationConfig controls chat memory.
type ConversationConfig struct {
	RedisURL string        `envconfig:"REDIS_URL"`
	TTL      time.Duration `envconfig:"CONVERSATION_TTL" default:"1h"`
	MaxTurns int           `envconfig:"CONVERSATION_MAX_TURNS" default:"20"`
}

// SecretsConfig holds credentials, all read from the environment.
type SecretsConfig struct {
	OpenAIAPIKey   string   `envconfig:"OPENAI_API_KEY"`
	DeepSeekAPIKey string   `envconfig:"DEEPSEEK_API_KEY"`
	ArkAPIKey      string   `envconfig:"ARK_API_KEY"`
	LTAAPIKey      string   `envconfig:"LTA_API_KEY"`
	OneMapAPIKey   string   `envconfig:"ONEMAP_API_KEY"`
	DatabaseURL    string   `envconfig:"DATABASE_URL"`
	AgentAPIKeys   []string `envconfig:"AGENT_API_KEYS"`
	LLMProvider    string   `envconfig:"LLM_PROVIDER"`
}
