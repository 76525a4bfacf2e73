package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Workspace  WorkspaceConfig  `yaml:"workspace"`
	WhatsApp   WhatsAppConfig   `yaml:"whatsapp"`
	Storage    StorageConfig    `yaml:"storage"`
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// WorkspaceConfig holds credentials for the workspace store that keeps
// the due-client records.
type WorkspaceConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIToken       string `yaml:"api_token"`
	DatabaseID     string `yaml:"database_id"`
	APIVersion     string `yaml:"api_version"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// WhatsAppConfig holds credentials for the outbound message provider.
type WhatsAppConfig struct {
	BaseURL        string `yaml:"base_url"`
	AccountSID     string `yaml:"account_sid"`
	AuthToken      string `yaml:"auth_token"`
	FromNumber     string `yaml:"from_number"`
	Currency       string `yaml:"currency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StorageConfig holds the optional dataset and cache backends.
type StorageConfig struct {
	PostgresDSN        string `yaml:"postgres_dsn"`
	RedisAddr          string `yaml:"redis_addr"`
	StrategyTTLMinutes int    `yaml:"strategy_ttl_minutes"`
}

// OptimizerConfig holds the tunables of the optimization pipeline.
type OptimizerConfig struct {
	Seed               int64   `yaml:"seed"`
	SyntheticCustomers int     `yaml:"synthetic_customers"`
	Trees              int     `yaml:"trees"`
	FeatureTarget      int     `yaml:"feature_target"`
	TestFraction       float64 `yaml:"test_fraction"`
	ResponseWeight     float64 `yaml:"response_weight"`
	SatisfactionWeight float64 `yaml:"satisfaction_weight"`
	ComplaintWeight    float64 `yaml:"complaint_weight"`
	DefaultChannel     string  `yaml:"default_channel"`
}

// ExperimentConfig holds the A/B validation parameters.
type ExperimentConfig struct {
	Seed                int64   `yaml:"seed"`
	SampleSize          int     `yaml:"sample_size"`
	ControlResponseRate float64 `yaml:"control_response_rate"`
	ControlSatisfaction float64 `yaml:"control_satisfaction"`
	SatisfactionStdDev  float64 `yaml:"satisfaction_stddev"`
	Alpha               float64 `yaml:"alpha"`
}

// Timeout returns the workspace HTTP timeout as a duration.
func (c WorkspaceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the WhatsApp HTTP timeout as a duration.
func (c WhatsAppConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StrategyTTL returns the cache TTL for computed strategies.
func (c StorageConfig) StrategyTTL() time.Duration {
	return time.Duration(c.StrategyTTLMinutes) * time.Minute
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Workspace.BaseURL == "" {
		cfg.Workspace.BaseURL = "https://api.notion.com/v1"
	}
	if cfg.Workspace.APIVersion == "" {
		cfg.Workspace.APIVersion = "2022-06-28"
	}
	if cfg.Workspace.TimeoutSeconds == 0 {
		cfg.Workspace.TimeoutSeconds = 30
	}
	if cfg.WhatsApp.BaseURL == "" {
		cfg.WhatsApp.BaseURL = "https://api.twilio.com"
	}
	if cfg.WhatsApp.FromNumber == "" {
		// Twilio WhatsApp sandbox number
		cfg.WhatsApp.FromNumber = "+14155238886"
	}
	if cfg.WhatsApp.Currency == "" {
		cfg.WhatsApp.Currency = "MXN"
	}
	if cfg.WhatsApp.TimeoutSeconds == 0 {
		cfg.WhatsApp.TimeoutSeconds = 30
	}
	if cfg.Storage.StrategyTTLMinutes == 0 {
		cfg.Storage.StrategyTTLMinutes = 60
	}
	if cfg.Optimizer.Seed == 0 {
		cfg.Optimizer.Seed = 42
	}
	if cfg.Optimizer.SyntheticCustomers == 0 {
		cfg.Optimizer.SyntheticCustomers = 1000
	}
	if cfg.Optimizer.Trees == 0 {
		cfg.Optimizer.Trees = 100
	}
	if cfg.Optimizer.FeatureTarget == 0 {
		cfg.Optimizer.FeatureTarget = 10
	}
	if cfg.Optimizer.TestFraction == 0 {
		cfg.Optimizer.TestFraction = 0.3
	}
	if cfg.Optimizer.ResponseWeight == 0 {
		cfg.Optimizer.ResponseWeight = 0.6
	}
	if cfg.Optimizer.SatisfactionWeight == 0 {
		cfg.Optimizer.SatisfactionWeight = 0.3
	}
	if cfg.Optimizer.ComplaintWeight == 0 {
		cfg.Optimizer.ComplaintWeight = 0.1
	}
	if cfg.Optimizer.DefaultChannel == "" {
		cfg.Optimizer.DefaultChannel = "whatsapp"
	}
	if cfg.Experiment.Seed == 0 {
		cfg.Experiment.Seed = 42
	}
	if cfg.Experiment.SampleSize == 0 {
		cfg.Experiment.SampleSize = 200
	}
	if cfg.Experiment.ControlResponseRate == 0 {
		cfg.Experiment.ControlResponseRate = 0.25
	}
	if cfg.Experiment.ControlSatisfaction == 0 {
		cfg.Experiment.ControlSatisfaction = 3.2
	}
	if cfg.Experiment.SatisfactionStdDev == 0 {
		cfg.Experiment.SatisfactionStdDev = 0.3
	}
	if cfg.Experiment.Alpha == 0 {
		cfg.Experiment.Alpha = 0.05
	}
}

// LoadFromEnv loads configuration from a YAML file with environment overrides.
// Credentials are taken from the environment when present so they never have
// to live in the config file.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// DefaultFromEnv returns the default configuration with environment
// overrides applied, for runs without a config file.
func DefaultFromEnv() *Config {
	_ = godotenv.Load()
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (cfg *Config) applyEnv() {
	if token := os.Getenv("NOTION_API_TOKEN"); token != "" {
		cfg.Workspace.APIToken = token
	}
	if dbID := os.Getenv("NOTION_DATABASE_ID"); dbID != "" {
		cfg.Workspace.DatabaseID = dbID
	}
	if sid := os.Getenv("TWILIO_ACCOUNT_SID"); sid != "" {
		cfg.WhatsApp.AccountSID = sid
	}
	if token := os.Getenv("TWILIO_AUTH_TOKEN"); token != "" {
		cfg.WhatsApp.AuthToken = token
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Storage.RedisAddr = addr
	}
}

// Default returns a configuration with all defaults applied, for runs
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
