package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int64  `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
	Enrichment struct {
		Enabled        bool   `yaml:"enabled"`
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		ModelName      string `yaml:"model_name"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"enrichment"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Expand environment variables in secret-bearing fields
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Enrichment.APIKey = os.ExpandEnv(config.Enrichment.APIKey)

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = ":8000"
	}
	if config.Auth.TokenTTLMinutes == 0 {
		config.Auth.TokenTTLMinutes = 60
	}
	if config.Enrichment.ModelName == "" {
		config.Enrichment.ModelName = "llama-3.3-70b-versatile"
	}
	if config.Enrichment.TimeoutSeconds == 0 {
		config.Enrichment.TimeoutSeconds = 15
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return config, nil
}
