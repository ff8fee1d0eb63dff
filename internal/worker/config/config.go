package config

import (
	"stock-sentiment-tracker/pkg/config"
)

// Worker holds worker-loop configuration.
type Worker struct {
	PollInterval string `mapstructure:"poll_interval"`
}

// News holds news source configuration.
type News struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	FetchSnippets       bool   `mapstructure:"fetch_snippets"`
	SnippetMaxLength    int    `mapstructure:"snippet_max_length"`
}

// Config holds the full configuration for the worker service.
type Config struct {
	App          config.App          `mapstructure:"app"`
	Logger       config.Logger       `mapstructure:"logger"`
	Database     config.Database     `mapstructure:"database"`
	Redis        config.Redis        `mapstructure:"redis"`
	Telegram     config.Telegram     `mapstructure:"telegram"`
	Gemini       config.Gemini       `mapstructure:"gemini"`
	YahooFinance config.YahooFinance `mapstructure:"yahoo_finance"`
	Worker       Worker              `mapstructure:"worker"`
	News         News                `mapstructure:"news"`
}

// Load loads the worker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
