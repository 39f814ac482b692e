package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv      = "MROINTEL_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	redisURLEnv        = "REDIS_URL"
	fredAPIKeyEnv      = "FRED_API_KEY"
	gtaAPIKeyEnv       = "GTA_API_KEY"
	ergoMindAPIKeyEnv  = "ERGOMIND_API_KEY"
	ergoMindUserIDEnv  = "ERGOMIND_USER_ID"
	anthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Cache         CacheConfig        `yaml:"cache"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Sources       SourcesConfig      `yaml:"sources"`
	AI            AIConfig           `yaml:"ai"`
	Report        ReportConfig       `yaml:"report"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details for the run archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// CacheConfig describes the Redis response cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RedisURL string `yaml:"redisUrl"`
	TTLHours int    `yaml:"ttlHours"`
}

// TTL resolves the configured cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 6 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// SchedulerConfig defines when report generation should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourcesConfig groups the three intelligence feeds.
type SourcesConfig struct {
	ErgoMind ErgoMindConfig `yaml:"ergomind"`
	GTA      GTAConfig      `yaml:"gta"`
	FRED     FREDConfig     `yaml:"fred"`
}

// ErgoMindConfig wires the research-forum websocket client.
type ErgoMindConfig struct {
	WebsocketURL   string `yaml:"websocketUrl"`
	APIKey         string `yaml:"apiKey"`
	UserID         string `yaml:"userId"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// GTAConfig wires the trade-intervention database client.
type GTAConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	APIKey   string `yaml:"apiKey"`
	DaysBack int    `yaml:"daysBack"`
}

// FREDConfig wires the economic-series client.
type FREDConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	APIKey   string `yaml:"apiKey"`
	DaysBack int    `yaml:"daysBack"`
}

// AIConfig defines the optional enrichment backend.
type AIConfig struct {
	Enabled        bool    `yaml:"enabled"`
	APIKey         string  `yaml:"apiKey"`
	Model          string  `yaml:"model"`
	MaxTokens      int64   `yaml:"maxTokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	MaxRetries     int     `yaml:"maxRetries"`
}

// Timeout resolves the per-request enrichment deadline.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ReportConfig controls filtering and rendering of the final report.
type ReportConfig struct {
	Title          string  `yaml:"title"`
	OutputDir      string  `yaml:"outputDir"`
	MinRelevance   float64 `yaml:"minRelevance"`
	LookbackMonths int     `yaml:"lookbackMonths"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An explicit path wins over the MROINTEL_CONFIG env var.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(redisURLEnv); v != "" {
		c.Cache.RedisURL = v
	}

	if v := os.Getenv(fredAPIKeyEnv); v != "" {
		c.Sources.FRED.APIKey = v
	}

	if v := os.Getenv(gtaAPIKeyEnv); v != "" {
		c.Sources.GTA.APIKey = v
	}

	if v := os.Getenv(ergoMindAPIKeyEnv); v != "" {
		c.Sources.ErgoMind.APIKey = v
	}

	if v := os.Getenv(ergoMindUserIDEnv); v != "" {
		c.Sources.ErgoMind.UserID = v
	}

	if v := os.Getenv(anthropicAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Cache.RedisURL != "" {
		base.Cache.RedisURL = override.Cache.RedisURL
	}
	if override.Cache.TTLHours > 0 {
		base.Cache.TTLHours = override.Cache.TTLHours
	}
	base.Cache.Enabled = base.Cache.Enabled || override.Cache.Enabled

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Sources.ErgoMind.WebsocketURL != "" {
		base.Sources.ErgoMind.WebsocketURL = override.Sources.ErgoMind.WebsocketURL
	}
	if override.Sources.ErgoMind.APIKey != "" {
		base.Sources.ErgoMind.APIKey = override.Sources.ErgoMind.APIKey
	}
	if override.Sources.ErgoMind.UserID != "" {
		base.Sources.ErgoMind.UserID = override.Sources.ErgoMind.UserID
	}
	if override.Sources.ErgoMind.TimeoutSeconds > 0 {
		base.Sources.ErgoMind.TimeoutSeconds = override.Sources.ErgoMind.TimeoutSeconds
	}

	if override.Sources.GTA.BaseURL != "" {
		base.Sources.GTA.BaseURL = override.Sources.GTA.BaseURL
	}
	if override.Sources.GTA.APIKey != "" {
		base.Sources.GTA.APIKey = override.Sources.GTA.APIKey
	}
	if override.Sources.GTA.DaysBack > 0 {
		base.Sources.GTA.DaysBack = override.Sources.GTA.DaysBack
	}

	if override.Sources.FRED.BaseURL != "" {
		base.Sources.FRED.BaseURL = override.Sources.FRED.BaseURL
	}
	if override.Sources.FRED.APIKey != "" {
		base.Sources.FRED.APIKey = override.Sources.FRED.APIKey
	}
	if override.Sources.FRED.DaysBack > 0 {
		base.Sources.FRED.DaysBack = override.Sources.FRED.DaysBack
	}

	base.AI.Enabled = base.AI.Enabled || override.AI.Enabled
	if override.AI.APIKey != "" {
		base.AI.APIKey = override.AI.APIKey
	}
	if override.AI.Model != "" {
		base.AI.Model = override.AI.Model
	}
	if override.AI.MaxTokens > 0 {
		base.AI.MaxTokens = override.AI.MaxTokens
	}
	if override.AI.Temperature > 0 {
		base.AI.Temperature = override.AI.Temperature
	}
	if override.AI.TimeoutSeconds > 0 {
		base.AI.TimeoutSeconds = override.AI.TimeoutSeconds
	}
	if override.AI.MaxRetries > 0 {
		base.AI.MaxRetries = override.AI.MaxRetries
	}

	if override.Report.Title != "" {
		base.Report.Title = override.Report.Title
	}
	if override.Report.OutputDir != "" {
		base.Report.OutputDir = override.Report.OutputDir
	}
	if override.Report.MinRelevance > 0 {
		base.Report.MinRelevance = override.Report.MinRelevance
	}
	if override.Report.LookbackMonths > 0 {
		base.Report.LookbackMonths = override.Report.LookbackMonths
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Cache: CacheConfig{
			Enabled:  true,
			RedisURL: "redis://localhost:6379/0",
			TTLHours: 6,
		},
		// Biweekly: 08:00 on the 1st and 15th of every month.
		Scheduler: SchedulerConfig{CronExpression: "0 8 1,15 * *", Timezone: defaultTimezone, location: tz},
		Sources: SourcesConfig{
			ErgoMind: ErgoMindConfig{
				WebsocketURL:   "wss://ergomind.example.org/ws",
				TimeoutSeconds: 120,
			},
			GTA: GTAConfig{
				BaseURL:  "https://api.globaltradealert.org/api/v1/data",
				DaysBack: 30,
			},
			FRED: FREDConfig{
				BaseURL:  "https://api.stlouisfed.org/fred",
				DaysBack: 30,
			},
		},
		AI: AIConfig{
			Enabled:        false,
			Model:          "claude-sonnet-4-20250514",
			MaxTokens:      4000,
			Temperature:    0.3,
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		Report: ReportConfig{
			Title:          "MRO Market Intelligence Report",
			OutputDir:      "reports",
			MinRelevance:   0.6,
			LookbackMonths: 3,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
	}
}
