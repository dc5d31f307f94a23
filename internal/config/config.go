package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Slack    SlackConfig
	SMTP     SMTPConfig
	Sites    SitesConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SlackConfig identifies the chat destination for ticket notifications.
type SlackConfig struct {
	BotToken  string
	ChannelID string
}

// Enabled reports whether chat notifications are configured.
func (s SlackConfig) Enabled() bool {
	return s.BotToken != "" && s.ChannelID != ""
}

// SMTPConfig holds the mail transport and recipient for ticket notifications.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// Enabled reports whether email notifications are configured.
func (s SMTPConfig) Enabled() bool {
	return s.Username != "" && s.Password != "" && s.Recipient != ""
}

// SitesConfig maps site names to the single-letter codes used in ticket numbers.
type SitesConfig struct {
	Codes map[string]string
}

// Code returns the letter code for a site and whether the site is known.
func (s SitesConfig) Code(site string) (string, bool) {
	code, ok := s.Codes[site]
	return code, ok
}

// Names returns site names in stable sorted order for form rendering.
func (s SitesConfig) Names() []string {
	names := make([]string, 0, len(s.Codes))
	for name := range s.Codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const defaultSites = "Alkhor:K,Rayyan:R,Mesaimeer:M,Wakra:W"

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	sites, err := ParseSites(getEnv("SITES", defaultSites))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "site-helpdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:      smtpPort,
			Username:  os.Getenv("SMTP_USER"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			From:      getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
			Recipient: os.Getenv("NOTIFICATION_EMAIL"),
		},
		Sites: sites,
	}

	return cfg, nil
}

// ParseSites parses a "Name:C,Name:C" site specification.
func ParseSites(spec string) (SitesConfig, error) {
	codes := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, code, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		code = strings.TrimSpace(code)
		if !ok || name == "" || len(code) != 1 {
			return SitesConfig{}, fmt.Errorf("invalid SITES entry %q: want Name:C", pair)
		}
		codes[name] = code
	}
	if len(codes) == 0 {
		return SitesConfig{}, fmt.Errorf("SITES must define at least one site")
	}
	return SitesConfig{Codes: codes}, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
