package config

import (
	"fmt"
	"time"

	"golang-quant-dashboard/pkg/common"
	"golang-quant-dashboard/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey               string  `mapstructure:"api_key"`
	BaseURL              string  `mapstructure:"base_url"`
	Model                string  `mapstructure:"model"`
	Temperature          float32 `mapstructure:"temperature"`
	TopP                 float32 `mapstructure:"top_p"`
	EducationTemperature float32 `mapstructure:"education_temperature"`
	MaxRequestPerMinute  int     `mapstructure:"max_request_per_minute"`
}

// OpenAI holds the configuration for an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Storage holds configuration for portfolio persistence.
type Storage struct {
	Driver       string `mapstructure:"driver"`
	Directory    string `mapstructure:"directory"`
	PortfolioKey string `mapstructure:"portfolio_key"`
}

// View holds configuration for the view controller.
type View struct {
	StaleInsightPolicy string        `mapstructure:"stale_insight_policy"`
	LoginDelay         time.Duration `mapstructure:"login_delay"`
	Timezone           string        `mapstructure:"timezone"`
}

// Location resolves the configured timezone.
func (v View) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid view timezone %q: %w", v.Timezone, err)
	}
	return loc, nil
}

// Pipeline holds configuration for the training simulation.
type Pipeline struct {
	EpochInterval time.Duration `mapstructure:"epoch_interval"`
}

// Digest holds configuration for the scheduled portfolio digest.
type Digest struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the dashboard service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Gemini   Gemini          `mapstructure:"gemini"`
	OpenAI   OpenAI          `mapstructure:"openai"`
	AI       AI              `mapstructure:"ai"`
	Storage  Storage         `mapstructure:"storage"`
	View     View            `mapstructure:"view"`
	Pipeline Pipeline        `mapstructure:"pipeline"`
	Digest   Digest          `mapstructure:"digest"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the dashboard configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "quant-dashboard"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "json"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.AI.Provider == "" {
		c.AI.Provider = common.AIProviderGemini
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-3-flash-preview"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Gemini.TopP == 0 {
		c.Gemini.TopP = 0.8
	}
	if c.Gemini.EducationTemperature == 0 {
		c.Gemini.EducationTemperature = 0.5
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1/chat/completions"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 90 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = common.StorageDriverFile
	}
	if c.Storage.Directory == "" {
		c.Storage.Directory = "data"
	}
	if c.Storage.PortfolioKey == "" {
		c.Storage.PortfolioKey = common.DefaultPortfolioKey
	}
	if c.View.StaleInsightPolicy == "" {
		c.View.StaleInsightPolicy = "latest_request"
	}
	if c.View.LoginDelay == 0 {
		c.View.LoginDelay = time.Second
	}
	if c.View.Timezone == "" {
		c.View.Timezone = "UTC"
	}
	if c.Pipeline.EpochInterval == 0 {
		c.Pipeline.EpochInterval = 600 * time.Millisecond
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = "0 18 * * 1-5"
	}
}
