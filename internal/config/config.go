package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"` // current application environment (local, dev, prod etc)
	TelegramAPIToken string  `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB      `mapstructure:"database"`
	LLM              LLM     `mapstructure:"llm"`
	Sheets           Sheets  `mapstructure:"sheets"`
	Trainer          Trainer `mapstructure:"trainer"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// LLM contains model provider configuration.
type LLM struct {
	APIKey  string        `mapstructure:"-"`       // OpenAI API key loaded from environment
	Model   string        `mapstructure:"model"`   // chat completion model name
	Timeout time.Duration `mapstructure:"timeout"` // per-call timeout for generation and verification
}

// Sheets contains Google Sheets access configuration.
type Sheets struct {
	CredentialsPath string `mapstructure:"credentials_path"` // service account JSON file
}

// Trainer contains session engine parameters.
type Trainer struct {
	ActiveSetSize int `mapstructure:"active_set_size"` // size of the rotating learning window
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "25s")
	v.SetDefault("sheets.credentials_path", ".conf/service_account.json")
	v.SetDefault("trainer.active_set_size", 10)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.LLM.APIKey = v.GetString("openai_api_key")
	if cfg.LLM.APIKey == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
