package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Store     StoreConfig     `mapstructure:"store"`
	Server    ServerConfig    `mapstructure:"server"`
	Heuristic HeuristicConfig `mapstructure:"heuristic"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
}

// LogConfig controls the global zerolog logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// RemoteConfig points at the external classification service.
// An empty URL disables the remote attempt and every request is scored locally.
type RemoteConfig struct {
	URL            string  `mapstructure:"url"`
	TimeoutSecs    int     `mapstructure:"timeout_secs"` // 0 means no client-side timeout
	Retries        int     `mapstructure:"retries"`      // extra attempts after the first
	RequestsPerSec float64 `mapstructure:"rps"`
}

// Timeout returns the HTTP client timeout
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// StoreConfig selects the history slot backend
type StoreConfig struct {
	Driver      string         `mapstructure:"driver"` // memory, file, sqlite, postgres
	Path        string         `mapstructure:"path"`   // file or sqlite path
	Slot        string         `mapstructure:"slot"`
	DatabaseURL string         `mapstructure:"database_url"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds discrete connection params, used when DatabaseURL is empty
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// HeuristicConfig optionally overrides the fallback heuristic constants
type HeuristicConfig struct {
	Profile string `mapstructure:"profile"` // YAML file path
}

// TelegramConfig configures the chat front end
type TelegramConfig struct {
	Token    string `mapstructure:"token"`
	Endpoint string `mapstructure:"endpoint"` // Bot API URL template: token, then method
	Debug    bool   `mapstructure:"debug"`
}

const envPrefix = "ASTROKIT"

// Load initializes configuration from .env, the environment and an optional
// YAML file. When configFile is empty, astrokit.yaml is looked up in the
// working directory and skipped if absent.
func Load(configFile string) (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("astrokit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.timeout_secs", 0)
	v.SetDefault("remote.retries", 0)
	v.SetDefault("remote.rps", 5)
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "astrokit-history.json")
	v.SetDefault("store.slot", "astrokit_predictions")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.postgres.host", "localhost")
	v.SetDefault("store.postgres.port", "5432")
	v.SetDefault("store.postgres.user", "")
	v.SetDefault("store.postgres.password", "")
	v.SetDefault("store.postgres.dbname", "astrokit")
	v.SetDefault("store.postgres.sslmode", "disable")
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("heuristic.profile", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.endpoint", "https://api.telegram.org/bot%s/%s")
	v.SetDefault("telegram.debug", false)
}

// Validate rejects settings no component can run with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "file", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Remote.Retries < 0 {
		return fmt.Errorf("remote.retries must be >= 0, got %d", c.Remote.Retries)
	}
	if c.Remote.TimeoutSecs < 0 {
		return fmt.Errorf("remote.timeout_secs must be >= 0, got %d", c.Remote.TimeoutSecs)
	}
	if c.Store.Slot == "" {
		return fmt.Errorf("store.slot must not be empty")
	}
	return nil
}

// SetupLogger configures the global zerolog logger
func SetupLogger(lc LogConfig) {
	var out io.Writer = os.Stderr
	if lc.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(lc.Level)
	if err != nil || lc.Level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
