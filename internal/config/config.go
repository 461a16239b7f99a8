package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
	Data    DataConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int `validate:"min=1,max=65535"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// AllowedOrigins splits the comma separated CORS origins.
func (c HTTPConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOriginsCSV, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GraphConfig describes connectivity to the Neo4j database holding aid
// transactions.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int `validate:"min=1"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `validate:"oneof=debug info warn warning error"`
	Format        string `validate:"oneof=json console text"`
	Colored       bool
	IncludeCaller bool
}

// Transaction sources.
const (
	SourceFile  = "file"
	SourceGraph = "graph"
)

// DataConfig locates the dashboard datasets.
type DataConfig struct {
	// Dir is served under /data and read directly when BaseURL is empty.
	Dir                string `validate:"required"`
	BaseURL            string `validate:"omitempty,url"`
	FetchRetries       int    `validate:"gte=0"`
	FetchTimeout       time.Duration
	TransactionsSource string `validate:"oneof=file graph"`
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "console"
	defaultGraphMaxSessions = 10
	defaultDataDir          = "data"
	defaultFetchRetries     = 3
	defaultFetchTimeout     = 30 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", defaultHost)
	v.SetDefault("SERVER_PORT", defaultPort)
	v.SetDefault("SERVER_READ_TIMEOUT", defaultReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", defaultWriteTimeout)
	v.SetDefault("SERVER_IDLE_TIMEOUT", defaultIdleTimeout)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", defaultLoggingLevel)
	v.SetDefault("LOG_FORMAT", defaultLoggingFormat)
	v.SetDefault("LOG_COLOR", false)
	v.SetDefault("LOG_INCLUDE_CALLER", false)
	v.SetDefault("GRAPH_URI", "")
	v.SetDefault("GRAPH_DATABASE", "")
	v.SetDefault("GRAPH_USERNAME", "")
	v.SetDefault("GRAPH_PASSWORD", "")
	v.SetDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions)
	v.SetDefault("DATA_DIR", defaultDataDir)
	v.SetDefault("DATA_BASE_URL", "")
	v.SetDefault("DATA_FETCH_RETRIES", defaultFetchRetries)
	v.SetDefault("DATA_FETCH_TIMEOUT", defaultFetchTimeout)
	v.SetDefault("AID_TRANSACTIONS_SOURCE", SourceFile)
}

// Load reads configuration from environment variables, applying defaults.
// When path is not empty the file is read first and the environment
// overrides it. Keys in the file use the environment variable names.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              v.GetString("SERVER_HOST"),
			AllowedOriginsCSV: v.GetString("SERVER_ALLOWED_ORIGINS"),
		},
		Logging: LoggingConfig{
			Level:         strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
			Format:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
			Colored:       v.GetBool("LOG_COLOR"),
			IncludeCaller: v.GetBool("LOG_INCLUDE_CALLER"),
		},
		Graph: GraphConfig{
			URI:      v.GetString("GRAPH_URI"),
			Database: v.GetString("GRAPH_DATABASE"),
			Username: v.GetString("GRAPH_USERNAME"),
			Password: v.GetString("GRAPH_PASSWORD"),
		},
		Data: DataConfig{
			Dir:                v.GetString("DATA_DIR"),
			BaseURL:            v.GetString("DATA_BASE_URL"),
			TransactionsSource: strings.ToLower(v.GetString("AID_TRANSACTIONS_SOURCE")),
		},
	}

	var err error
	if cfg.HTTP.Port, err = integer(v, "SERVER_PORT"); err != nil {
		return Config{}, err
	}
	if cfg.Graph.MaxConnections, err = integer(v, "GRAPH_MAX_CONNECTIONS"); err != nil {
		return Config{}, err
	}
	if cfg.Data.FetchRetries, err = integer(v, "DATA_FETCH_RETRIES"); err != nil {
		return Config{}, err
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"DATA_FETCH_TIMEOUT", &cfg.Data.FetchTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = duration(v, d.key); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks value ranges and cross-field requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if c.Data.TransactionsSource == SourceGraph && c.Graph.URI == "" {
		return errors.New("invalid configuration: AID_TRANSACTIONS_SOURCE=graph requires GRAPH_URI")
	}
	return nil
}

func integer(v *viper.Viper, key string) (int, error) {
	switch raw := v.Get(key).(type) {
	case int:
		return raw, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, errors.Wrapf(err, "invalid %s value %q", key, raw)
		}
		return n, nil
	default:
		return v.GetInt(key), nil
	}
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	switch raw := v.Get(key).(type) {
	case time.Duration:
		return raw, nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return 0, errors.Wrapf(err, "invalid %s", key)
		}
		return d, nil
	default:
		return v.GetDuration(key), nil
	}
}
