package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
)

type DBConfig struct {
	Source string `toml:"source"`

	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn_max_idle_time"`

	// SQLite PRAGMA settings. Zero values leave the SQLite default untouched.
	JournalMode       string `toml:"journal_mode"`
	Synchronous       string `toml:"synchronous"`
	CacheSize         int    `toml:"cache_size"`
	BusyTimeout       int    `toml:"busy_timeout"`
	WALAutocheckpoint int    `toml:"wal_autocheckpoint"`
	TempStore         string `toml:"temp_store"`
}

type ServerConfig struct {
	Port              string        `toml:"port"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout"`
}

type Config struct {
	DB     DBConfig      `toml:"db"`
	Server ServerConfig  `toml:"server"`
	Logger logger.Config `toml:"logger"`
}

const (
	defaultDBFile            = "bookcatalog.db"
	defaultJournalMode       = "WAL"
	defaultBusyTimeout       = 5000
	defaultPort              = "8080"
	defaultReadHeaderTimeout = 3 * time.Second
	defaultLogLevel          = logger.LevelInfo
	defaultLogFormat         = logger.FormatText
	defaultLogOutput         = "stdout"
)

func defaults() *Config {
	return &Config{
		DB: DBConfig{
			Source:      defaultDBFile,
			JournalMode: defaultJournalMode,
			BusyTimeout: defaultBusyTimeout,
		},
		Server: ServerConfig{
			Port:              defaultPort,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
		Logger: logger.Config{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Output: defaultLogOutput,
		},
	}
}

func (c *Config) parseEnv() error {
	if db := os.Getenv("BOOKCATALOG_DB"); db != "" {
		c.DB.Source = db
	}

	if level := os.Getenv("BOOKCATALOG_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("BOOKCATALOG_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("BOOKCATALOG_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}

	if port := os.Getenv("BOOKCATALOG_PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid BOOKCATALOG_PORT %q: %w", port, err)
		}
		c.Server.Port = port
	}

	return nil
}

// Parse builds the configuration from the defaults, the optional TOML file at
// path and finally the BOOKCATALOG_* environment variables.
func Parse(path string) (*Config, error) {
	conf := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, conf); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if err := conf.parseEnv(); err != nil {
		return nil, err
	}

	return conf, nil
}
