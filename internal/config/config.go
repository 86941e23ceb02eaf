package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. KALORIEN_SERVER_PORT=9000.
const EnvPrefix = "KALORIEN"

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type StorageConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

type LogstashConfig struct {
	Enable bool   `mapstructure:"enable"`
	URL    string `mapstructure:"url"`
	Type   string `mapstructure:"type"`
}

type ELKConfig struct {
	Enable bool   `mapstructure:"enable"`
	URL    string `mapstructure:"url"`
	Index  string `mapstructure:"index"`
}

type LogConfig struct {
	Level    string         `mapstructure:"level"`
	File     string         `mapstructure:"file"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	ELK      ELKConfig      `mapstructure:"elk"`
}

type AnalyzerConfig struct {
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MockDelay time.Duration `mapstructure:"mock_delay"`
}

type AppConfig struct {
	// Timezone decides which calendar day "today" is. Empty means local time.
	Timezone string `mapstructure:"timezone"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	App      AppConfig      `mapstructure:"app"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "data/kalorien.db")
	v.SetDefault("storage.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo_database", "kalorien")
	v.SetDefault("storage.mongo_collection", "blobs")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.logstash.enable", false)
	v.SetDefault("log.logstash.url", "127.0.0.1:5000")
	v.SetDefault("log.logstash.type", "kalorien")
	v.SetDefault("log.elk.enable", false)
	v.SetDefault("log.elk.url", "http://127.0.0.1:9200")
	v.SetDefault("log.elk.index", "kalorien")

	v.SetDefault("analyzer.provider", "mock")
	v.SetDefault("analyzer.api_key", "")
	v.SetDefault("analyzer.model", "")
	v.SetDefault("analyzer.endpoint", "")
	v.SetDefault("analyzer.timeout", 30*time.Second)
	v.SetDefault("analyzer.mock_delay", time.Duration(0))

	v.SetDefault("app.timezone", "")
}

// Load reads configuration from path (e.g. "config.yaml"). With an empty
// path, config.yaml in the working directory is used when present and
// defaults otherwise. A .env file is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: out of range: %d", c.Server.Port))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode: unknown mode %q", c.Server.Mode))
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("server.cors_origins: bad origin %q", origin))
		}
	}
	switch c.Storage.Driver {
	case "sqlite", "file", "memory":
		if c.Storage.Driver != "memory" && c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path: required"))
		}
	case "mongo":
		if c.Storage.MongoURI == "" {
			errs = append(errs, errors.New("storage.mongo_uri: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Analyzer.Provider) {
	case "mock", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("analyzer.provider: unknown provider %q", c.Analyzer.Provider))
	}
	if c.Analyzer.Timeout < 0 {
		errs = append(errs, errors.New("analyzer.timeout: must not be negative"))
	}
	if _, err := c.App.Location(); err != nil {
		errs = append(errs, fmt.Errorf("app.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// Location returns the configured time zone.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}
