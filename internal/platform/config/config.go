package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Notification sinks selectable through NOTIFY_SINK.
const (
	SinkLog   = "log"
	SinkSMTP  = "smtp"
	SinkKafka = "kafka"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string `mapstructure:"PGSQL_URL" validate:"required"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH" validate:"required"`
	Port           string `mapstructure:"PORT" validate:"required,numeric"`
	IsProduction   bool   `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck  bool   `mapstructure:"ENABLE_DB_CHECK"`
	LogLevel       string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	JWTSecret      string `mapstructure:"JWT_SECRET" validate:"required"`

	// Rate feed
	FeedHost            string        `mapstructure:"CBR_DAILY_API_HOST" validate:"required,url"`
	FeedHTTPTimeout     time.Duration `mapstructure:"FEED_HTTP_TIMEOUT" validate:"gt=0"`
	HistoryRequestDelay time.Duration `mapstructure:"HISTORY_REQUEST_DELAY" validate:"gte=0"`

	// Latest rates cache; caching is disabled when RedisURL is empty.
	RedisURL      string        `mapstructure:"REDIS_URL"`
	RatesCacheTTL time.Duration `mapstructure:"RATES_CACHE_TTL" validate:"gt=0"`

	// Daily job
	ScheduleTime     string `mapstructure:"SCHEDULE_TIME" validate:"required"`
	ScheduleTimezone string `mapstructure:"SCHEDULE_TIMEZONE" validate:"required"`

	// Notifications
	NotifySink             string   `mapstructure:"NOTIFY_SINK" validate:"oneof=log smtp kafka"`
	NotifyAdvanceOnFailure bool     `mapstructure:"NOTIFY_ADVANCE_ON_FAILURE"`
	SMTPHost               string   `mapstructure:"SMTP_HOST" validate:"required_if=NotifySink smtp"`
	SMTPPort               int      `mapstructure:"SMTP_PORT" validate:"gte=0,lte=65535"`
	SMTPUsername           string   `mapstructure:"SMTP_USERNAME"`
	SMTPPassword           string   `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom               string   `mapstructure:"SMTP_FROM" validate:"required_if=NotifySink smtp"`
	KafkaBrokers           []string `mapstructure:"-"`
	KafkaNotificationTopic string   `mapstructure:"KAFKA_NOTIFICATIONS_TOPIC" validate:"required_if=NotifySink kafka"`

	// HTTP API
	RateLimit          string   `mapstructure:"RATE_LIMIT" validate:"required"`
	CORSAllowedOrigins []string `mapstructure:"-"`
}

// Location resolves ScheduleTimezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ScheduleTimezone)
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("CBR_DAILY_API_HOST", "https://www.cbr-xml-daily.ru")
	v.SetDefault("FEED_HTTP_TIMEOUT", "10s")
	v.SetDefault("HISTORY_REQUEST_DELAY", "100ms")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATES_CACHE_TTL", "10h")
	v.SetDefault("SCHEDULE_TIME", "12:00")
	v.SetDefault("SCHEDULE_TIMEZONE", "Europe/Moscow")
	v.SetDefault("NOTIFY_SINK", SinkLog)
	v.SetDefault("NOTIFY_ADVANCE_ON_FAILURE", false)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_NOTIFICATIONS_TOPIC", "currency.notifications")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

// splitList splits a comma separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// New returns a viper instance with defaults and environment binding applied.
// Callers may bind command line flags to it before calling Load.
func New() *viper.Viper {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.NotifySink == SinkKafka && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("invalid config: KAFKA_BROKERS is required when NOTIFY_SINK is %s", SinkKafka)
	}
	if _, err := time.Parse("15:04", cfg.ScheduleTime); err != nil {
		return nil, fmt.Errorf("invalid config: SCHEDULE_TIME %q must be HH:MM: %w", cfg.ScheduleTime, err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid config: SCHEDULE_TIMEZONE %q: %w", cfg.ScheduleTimezone, err)
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	return cfg, nil
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	return Load(New())
}
