package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	FileStore FileStoreConfig
	Bot       BotConfig
	Notify    NotifyConfig
	Analytics AnalyticsConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the storage backend. Driver "postgres" is the
// production backend; "sqlite3" runs the whole hub from a single file
// (or in-memory) for development.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"` // sqlite3 only
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type FileStoreConfig struct {
	BasePath    string `mapstructure:"base_path"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

// BotConfig drives the Telegram polling loop. PlaceholderToken marks a
// token value that disables polling until an operator configures a real
// one through the settings store.
type BotConfig struct {
	PlaceholderToken string        `mapstructure:"placeholder_token"`
	PollTimeout      int           `mapstructure:"poll_timeout"`
	ErrorBackoff     time.Duration `mapstructure:"error_backoff"`
	IdleBackoff      time.Duration `mapstructure:"idle_backoff"`
}

type NotifyConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// AnalyticsConfig names the status token counted by the event analysis.
type AnalyticsConfig struct {
	EmptyStatus string `mapstructure:"empty_status"`
	RecentLimit int    `mapstructure:"recent_limit"`
}

type AdminConfig struct {
	Password string `mapstructure:"password"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("LUZHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.path", "luzhub.db")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.session_ttl", "24h")

	// FileStore defaults
	viper.SetDefault("filestore.base_path", "./data/fotos")
	viper.SetDefault("filestore.max_file_size", 10*1024*1024) // 10MB

	// Bot defaults
	viper.SetDefault("bot.placeholder_token", "SEU_TOKEN_AQUI")
	viper.SetDefault("bot.poll_timeout", 10)
	viper.SetDefault("bot.error_backoff", "5s")
	viper.SetDefault("bot.idle_backoff", "5s")

	// Notify defaults
	viper.SetDefault("notify.workers", 4)
	viper.SetDefault("notify.queue_size", 256)

	// Analytics defaults
	viper.SetDefault("analytics.empty_status", "vazio")
	viper.SetDefault("analytics.recent_limit", 50)
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite3":
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}
	if config.Admin.Password == "" {
		return fmt.Errorf("admin password is required")
	}
	return nil
}
