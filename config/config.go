package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Amadeus  AmadeusConfig  `yaml:"amadeus"`
	Currency CurrencyConfig `yaml:"currency"`
}

type ServerConfig struct {
	Name     string `yaml:"name" env:"MCP_SERVER_NAME" env-default:"amadeus-mcp-server"`
	Version  string `yaml:"version" env:"MCP_SERVER_VERSION" env-default:"1.0.0"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// AmadeusConfig holds connection settings. Credentials are deliberately absent:
// they are read per call through LoadCredentials.
type AmadeusConfig struct {
	BaseURL    string        `yaml:"base_url" env:"AMADEUS_BASE_URL"`
	Production bool          `yaml:"production" env:"AMADEUS_PRODUCTION" env-default:"false"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"AMADEUS_TOKEN_TTL" env-default:"25m"`
	Timeout    time.Duration `yaml:"timeout" env:"AMADEUS_TIMEOUT" env-default:"30s"`
}

type CurrencyConfig struct {
	RatesURL        string        `yaml:"rates_url" env:"EXCHANGE_RATES_URL" env-default:"https://api.exchangerate-api.com/v4/latest/USD"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"EXCHANGE_RATES_REFRESH" env-default:"24h"`
	Timeout         time.Duration `yaml:"timeout" env:"EXCHANGE_RATES_TIMEOUT" env-default:"10s"`
}

// Credentials are the Amadeus client-credentials pair.
type Credentials struct {
	APIKey    string `env:"AMADEUS_API_KEY"`
	APISecret string `env:"AMADEUS_API_SECRET"`
}

// Complete reports whether both halves are set.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path. A missing file is not
// an error; env and defaults are used instead.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}

// LoadCredentials reads AMADEUS_API_KEY and AMADEUS_API_SECRET from the
// environment at call time.
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := cleanenv.ReadEnv(&creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	return creds, nil
}
