package config

import (
	"stock-sentiment-tracker/pkg/config"
)

// Scheduler holds scheduler-specific configuration.
type Scheduler struct {
	DailyUpdateCron  string `mapstructure:"daily_update_cron"`
	DailyPriority    int    `mapstructure:"daily_priority"`
	PriceRefreshCron string `mapstructure:"price_refresh_cron"`
	StaleRequeueCron string `mapstructure:"stale_requeue_cron"`
	StaleTimeout     string `mapstructure:"stale_timeout"`
}

// Config holds the full configuration for the scheduler service.
type Config struct {
	App          config.App          `mapstructure:"app"`
	Logger       config.Logger       `mapstructure:"logger"`
	Database     config.Database     `mapstructure:"database"`
	Redis        config.Redis        `mapstructure:"redis"`
	YahooFinance config.YahooFinance `mapstructure:"yahoo_finance"`
	Scheduler    Scheduler           `mapstructure:"scheduler"`
}

// Load loads the scheduler configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
