package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SCHOLARPREP"

// Config is the server's runtime configuration
type Config struct {
	Addr        string
	MongoURI    string
	MongoDB     string
	RedisURL    string
	JWTSecret   string
	CORSOrigins []string

	RabbitURI      string
	EventsExchange string

	SendGridKey string
	MailFrom    string
	AppName     string
	Language    string

	ExamListTTL time.Duration
	ChatTTL     time.Duration

	AI *AIConfig
}

// AddConnectionFlags registers the store flags shared by every command
func AddConnectionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	f.String("mongo-db", "scholarprep", "MongoDB database name")
	f.String("redis-url", "localhost:6379", "Redis address (redis:// prefix allowed)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

// AddServeFlags registers the flags of the serve command
func AddServeFlags(cmd *cobra.Command) {
	AddConnectionFlags(cmd)
	ai := DefaultAIConfig()
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("jwt-secret", "", "HMAC secret for signing tokens (required)")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.String("rabbitmq-uri", "", "RabbitMQ URI for domain events (empty disables)")
	f.String("events-exchange", "scholarprep.events", "RabbitMQ topic exchange")
	f.String("sendgrid-key", "", "SendGrid API key (empty logs e-mails instead)")
	f.String("mail-from", "noreply@scholarprep.lk", "Sender address for e-mails")
	f.String("app-name", "ScholarPrep", "Application name used in e-mails")
	f.StringP("lang", "l", "en", "Fallback language (en, si, ta)")
	f.Duration("exam-list-ttl", 5*time.Minute, "Exam list cache TTL")
	f.Duration("chat-ttl", 2*time.Hour, "Tutor chat session TTL")
	f.String("openai-key", "", "OpenAI-compatible API key (empty disables the tutor)")
	f.String("openai-url", ai.BaseURL, "OpenAI-compatible API base URL")
	f.String("openai-model", ai.Model, "Tutor model name")
	f.Int("openai-max-history", ai.MaxHistory, "Earlier messages sent with each tutor turn")
	f.Int("openai-timeout-ms", ai.TimeoutMS, "Tutor request timeout in milliseconds")
}

// ForCommand binds a command's flags, the environment, a .env file and an
// optional scholarprep config file to a fresh viper instance
func ForCommand(cmd *cobra.Command) *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error reading .env file", "error", err)
	}

	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("scholarprep")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/scholarprep")
	v.AddConfigPath("/etc/scholarprep")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// SetupLogging installs the default slog logger from log-level and log-format
func SetupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// Load reads the serve configuration from v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:           v.GetString("addr"),
		MongoURI:       v.GetString("mongo-uri"),
		MongoDB:        v.GetString("mongo-db"),
		RedisURL:       v.GetString("redis-url"),
		JWTSecret:      v.GetString("jwt-secret"),
		CORSOrigins:    v.GetStringSlice("cors-origins"),
		RabbitURI:      v.GetString("rabbitmq-uri"),
		EventsExchange: v.GetString("events-exchange"),
		SendGridKey:    v.GetString("sendgrid-key"),
		MailFrom:       v.GetString("mail-from"),
		AppName:        v.GetString("app-name"),
		Language:       v.GetString("lang"),
		ExamListTTL:    v.GetDuration("exam-list-ttl"),
		ChatTTL:        v.GetDuration("chat-ttl"),
		AI: &AIConfig{
			APIKey:     v.GetString("openai-key"),
			BaseURL:    v.GetString("openai-url"),
			Model:      v.GetString("openai-model"),
			MaxHistory: v.GetInt("openai-max-history"),
			TimeoutMS:  v.GetInt("openai-timeout-ms"),
		},
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt-secret is required (flag --jwt-secret or SCHOLARPREP_JWT_SECRET)")
	}
	return cfg, nil
}

// RedisAddr strips a redis:// prefix from the configured Redis URL
func (c *Config) RedisAddr() string {
	return RedisAddr(c.RedisURL)
}

func RedisAddr(url string) string {
	return strings.TrimPrefix(url, "redis://")
}
