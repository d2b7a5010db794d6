package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	AI         AIConfig         `yaml:"ai"`
	Email      EmailConfig      `yaml:"email"`
	Storage    StorageConfig    `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Schedule   string           `yaml:"schedule" validate:"required"`
}

type YouTubeConfig struct {
	// APIKey authenticates public Data API reads.
	APIKey string `yaml:"api_key" env:"YOUTUBE_API_KEY" validate:"required"`
	// ClientID and ClientSecret are only needed for the owner's scheduled report.
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file" validate:"required"`
	// ChannelID is the owner's channel (id or @handle) covered by the scheduled report.
	ChannelID      string  `yaml:"channel_id"`
	RecentVideos   int     `yaml:"recent_videos" validate:"int|min:1|max:50"`
	AnalyticsRPS   float64 `yaml:"analytics_rps"`
	AnalyticsBurst int     `yaml:"analytics_burst" validate:"int|min:1"`
}

// OwnerEnabled reports whether OAuth client credentials for the channel owner are configured.
func (y YouTubeConfig) OwnerEnabled() bool {
	return y.ClientID != "" && y.ClientSecret != "" && y.ChannelID != ""
}

type AIConfig struct {
	// GeminiAPIKey is optional; without it the assistant answers heuristically.
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model" validate:"required"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether reports can be mailed.
func (e EmailConfig) Enabled() bool {
	return e.Username != "" && e.Password != "" && e.ToEmail != ""
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required|in:file,sqlite,memory"`
	// Path is a directory for the file driver and a database file for sqlite.
	Path string `yaml:"path"`
}

type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	SizeMB     int  `yaml:"size_mb"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"required|int|min:1|max:65535"`
}

type MonitoringConfig struct {
	HealthPort     int  `yaml:"health_port" validate:"required|int|min:1|max:65535"`
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads the file named by CONFIG_FILE (config.yaml by default).
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	return LoadFile(configFile)
}

func LoadFile(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	fill(&c.YouTube.ClientID, "GOOGLE_CLIENT_ID")
	fill(&c.YouTube.ClientSecret, "GOOGLE_CLIENT_SECRET")
	fill(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	fill(&c.Email.Username, "EMAIL_USERNAME")
	fill(&c.Email.Password, "EMAIL_PASSWORD")
}

func (c *Config) applyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.YouTube.RecentVideos == 0 {
		c.YouTube.RecentVideos = 10
	}
	if c.YouTube.AnalyticsRPS == 0 {
		c.YouTube.AnalyticsRPS = 2
	}
	if c.YouTube.AnalyticsBurst == 0 {
		c.YouTube.AnalyticsBurst = 1
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Email.SMTPServer == "" {
		c.Email.SMTPServer = "smtp.gmail.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data"
	}
	if c.Cache.SizeMB == 0 {
		c.Cache.SizeMB = 16
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 9 * * 1" // Mondays at 9 AM
	}
}

func (c *Config) validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return v.Errors
	}

	if c.YouTube.AnalyticsRPS < 0 {
		return fmt.Errorf("youtube.analytics_rps must not be negative")
	}
	if c.Email.Enabled() && !strings.Contains(c.Email.ToEmail, "@") {
		return fmt.Errorf("email.to_email %q is not an address", c.Email.ToEmail)
	}
	if (c.YouTube.ClientID == "") != (c.YouTube.ClientSecret == "") {
		return fmt.Errorf("YouTube OAuth needs both client ID and secret (set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}
	return nil
}
