package config

import (
	"errors"
	"fmt"
	"gpttransit/src"
	"gpttransit/src/model"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of config.yaml
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Agent    AgentConfig    `yaml:"agent"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Routing  RoutingConfig  `yaml:"routing"`
	Crowd    CrowdConfig    `yaml:"crowd"`
	Data     DataConfig     `yaml:"data"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// ModelConfig selects one chat model. APIKey is filled from the environment.
type ModelConfig struct {
	Provider    string  `yaml:"provider" validate:"required,oneof=openai deepseek ark ollama"`
	Model       string  `yaml:"model" validate:"required"`
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=0"`
	APIKey      string  `yaml:"-"`
}

type AgentConfig struct {
	Chat       ModelConfig `yaml:"chat"`
	Summarizer ModelConfig `yaml:"summarizer"`
	// Summarize replaces the history with a single summary before each turn.
	Summarize bool `yaml:"summarize"`
	MaxSteps  int  `yaml:"max_steps" validate:"gte=2"`
}

type UpstreamConfig struct {
	LTABaseURL       string        `yaml:"lta_base_url" validate:"required,url"`
	OneMapBaseURL    string        `yaml:"onemap_base_url" validate:"required,url"`
	WeatherBaseURL   string        `yaml:"weather_base_url" validate:"required,url"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	GeocodeCacheSize int           `yaml:"geocode_cache_size" validate:"gte=1"`
	GeocodeCacheTTL  time.Duration `yaml:"geocode_cache_ttl" validate:"gt=0"`
}

type RoutingConfig struct {
	Mode            string `yaml:"mode" validate:"required"`
	MaxWalkDistance int    `yaml:"max_walk_distance" validate:"gte=0"`
	NumItineraries  int    `yaml:"num_itineraries" validate:"gte=1,lte=10"`
}

// Thresholds bucket a count into LOW (< Lower), HIGH (> Upper) or MODERATE.
type Thresholds struct {
	Upper int `yaml:"upper" validate:"gtfield=Lower"`
	Lower int `yaml:"lower" validate:"gte=0"`
}

type CrowdConfig struct {
	Passenger Thresholds `yaml:"passenger"`
	Trip      Thresholds `yaml:"trip"`
}

type DataConfig struct {
	StationsPath   string `yaml:"stations" validate:"required"`
	TaxiStandsPath string `yaml:"taxi_stands" validate:"required"`
	VolumePath     string `yaml:"volume" validate:"required"`
	// Optional origin-destination dataset; check_trip_volume is only offered when set.
	ODPath string `yaml:"origin_destination"`
}

// Config merges config.yaml with the environment.
type Config struct {
	App          YAMLConfig
	Log          model.LogConfig
	Conversation model.ConversationConfig
	Secrets      model.SecretsConfig
}

// Default returns the built-in tunables.
func Default() YAMLConfig {
	return YAMLConfig{
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Agent: AgentConfig{
			Chat:       ModelConfig{Provider: "openai", Model: "gpt-4o-mini", Temperature: 0},
			Summarizer: ModelConfig{Provider: "openai", Model: "gpt-4o-mini", Temperature: 0.01},
			Summarize:  true,
			MaxSteps:   12,
		},
		Upstream: UpstreamConfig{
			LTABaseURL:       "http://datamall2.mytransport.sg/ltaodataservice",
			OneMapBaseURL:    "https://www.onemap.gov.sg/api",
			WeatherBaseURL:   "https://api.data.gov.sg/v1/environment",
			Timeout:          15 * time.Second,
			GeocodeCacheSize: 512,
			GeocodeCacheTTL:  24 * time.Hour,
		},
		Routing: RoutingConfig{Mode: "RAIL", MaxWalkDistance: 100, NumItineraries: 3},
		Crowd: CrowdConfig{
			Passenger: Thresholds{Upper: 95000, Lower: 15000},
			Trip:      Thresholds{Upper: 57, Lower: 4},
		},
		Data: DataConfig{
			StationsPath:   "data/mrtlrt_gps.csv",
			TaxiStandsPath: "data/taxi_stands.csv",
			VolumePath:     "data/transport_node_train.csv",
		},
	}
}

// LoadConfig loads .env, config.yaml (when present) and the environment, then validates.
func LoadConfig(filepath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	app := Default()
	if filepath != "" {
		data, err := os.ReadFile(filepath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("error reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &app); err != nil {
				return nil, fmt.Errorf("error parsing YAML: %w", err)
			}
		}
	}

	env, err := src.LoadConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App:          app,
		Log:          env.LogConfig,
		Conversation: env.ConversationConfig,
		Secrets:      env.Secrets,
	}
	cfg.applySecrets()

	if err := validator.New().Struct(cfg.App); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applySecrets() {
	if c.Secrets.LLMProvider != "" {
		c.App.Agent.Chat.Provider = c.Secrets.LLMProvider
		c.App.Agent.Summarizer.Provider = c.Secrets.LLMProvider
	}
	c.App.Agent.Chat.APIKey = c.apiKeyFor(c.App.Agent.Chat.Provider)
	c.App.Agent.Summarizer.APIKey = c.apiKeyFor(c.App.Agent.Summarizer.Provider)
}

func (c *Config) apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return c.Secrets.OpenAIAPIKey
	case "deepseek":
		return c.Secrets.DeepSeekAPIKey
	case "ark":
		return c.Secrets.ArkAPIKey
	}
	return ""
}
