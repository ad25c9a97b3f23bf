// Package config provides YAML-based configuration loading for ASKA,
// with environment variables overriding file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level ASKA configuration, loaded from config.yaml and
// overlaid with environment variables.
type Config struct {
	BotName       string          `yaml:"bot_name"`
	BotHandle     string          `yaml:"bot_handle"`
	PublicBaseURL string          `yaml:"public_base_url"`
	Telegram      TelegramConfig  `yaml:"telegram"`
	Database      DatabaseConfig  `yaml:"database"`
	OpenAI        OpenAIConfig    `yaml:"openai"`
	STT           STTConfig       `yaml:"stt"`
	Dashboard     DashboardConfig `yaml:"dashboard"`
	Web           WebConfig       `yaml:"web"`
	Session       SessionConfig   `yaml:"session"`
}

// TelegramConfig holds the bot token for long polling.
type TelegramConfig struct {
	Token string `yaml:"token"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

// OpenAIConfig holds the LLM settings for QA, counseling replies, and
// teacher-mode grading.
type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"`
	ChatModel string `yaml:"chat_model"`
}

// STTConfig holds the speech-to-text backend settings. The backend speaks
// the OpenAI audio/transcriptions protocol, so any compatible host works.
type STTConfig struct {
	APIKey  string `yaml:"api_key"`
	APIBase string `yaml:"api_base"`
	Model   string `yaml:"model"`
}

// DashboardConfig holds admin dashboard settings. TesterIDs are user ids
// excluded from statistics so staff test chats don't skew the numbers.
type DashboardConfig struct {
	Addr      string   `yaml:"addr"`
	TesterIDs []string `yaml:"tester_ids"`
}

// WebConfig holds web chat API settings.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// SessionConfig holds the timing knobs of the in-memory session store,
// all in seconds.
type SessionConfig struct {
	DedupeWindowSec int `yaml:"dedupe_window_sec"`
	PruneAfterSec   int `yaml:"prune_after_sec"`
	FlowTimeoutSec  int `yaml:"flow_timeout_sec"`
}

// Load reads a YAML config file from path, overlays environment variables,
// and returns a validated Config. A .env file in the working directory is
// loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes, applies the environment overlay, and
// returns a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides file values with environment variables where set.
func (c *Config) applyEnv() {
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASS")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setInt(&c.Database.MaxConns, "DASHBOARD_DB_MAX_CONN")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.STT.APIKey, "ASKA_STT_API_KEY")
	setString(&c.STT.APIBase, "ASKA_STT_API_BASE")
	setString(&c.STT.Model, "OPENAI_STT_MODEL")
	setString(&c.PublicBaseURL, "ASKA_PUBLIC_BASE_URL")

	if v := os.Getenv("DASHBOARD_TESTER_IDS"); v != "" {
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		c.Dashboard.TesterIDs = ids
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.BotName == "" {
		c.BotName = "ASKA"
	}
	if c.BotHandle == "" {
		c.BotHandle = "aska_sdn_bot"
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = "https://aska.sdnsembar01.sch.id"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 8
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.STT.APIKey == "" {
		c.STT.APIKey = c.OpenAI.APIKey
	}
	if c.STT.APIBase == "" {
		c.STT.APIBase = "https://api.openai.com/v1"
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = ":8081"
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
	if c.Session.DedupeWindowSec == 0 {
		c.Session.DedupeWindowSec = 60
	}
	if c.Session.PruneAfterSec == 0 {
		c.Session.PruneAfterSec = 600
	}
	if c.Session.FlowTimeoutSec == 0 {
		c.Session.FlowTimeoutSec = 600
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Database.Name == "" {
		errs = append(errs, "database.name is required")
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Session.DedupeWindowSec < 0 {
		errs = append(errs, "session.dedupe_window_sec must not be negative")
	}
	if c.Session.FlowTimeoutSec < 0 {
		errs = append(errs, "session.flow_timeout_sec must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
