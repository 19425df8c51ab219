package src

import (
	"fmt"
	"gpttransit/src/model"

	"github.com/kelseyhightower/envconfig"
)

// Config is everything read from the process environment.
type Config struct {
	LogConfig          model.LogConfig
	ConversationConfig model.ConversationConfig
	Secrets            model.SecretsConfig
}

func LoadConfig() (*Config, error) {
	var config Config
	// Each section is processed on its own so the envconfig keys stay unprefixed.
	if err := envconfig.Process("", &config.LogConfig); err != nil {
		return nil, fmt.Errorf("error processing log configuration: %w", err)
	}
	if err := envconfig.Process("", &config.ConversationConfig); err != nil {
		return nil, fmt.Errorf("error processing conversation configuration: %w", err)
	}
	if err := envconfig.Process("", &config.Secrets); err != nil {
		return nil, fmt.Errorf("error processing secrets: %w", err)
	}

	return &config, nil
}
