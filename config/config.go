package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/grabbiel/grabbieldb/database"
	grabbielhttp "github.com/grabbiel/grabbieldb/http"
	"github.com/grabbiel/grabbieldb/objectstore"
	"github.com/grabbiel/grabbieldb/server"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GRABBIELDB"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for grabbieldb.
type Config struct {
	Env         string                  `mapstructure:"env" validate:"omitempty,oneof=dev development prod production"`
	Admin       AdminConfig             `mapstructure:"admin"`
	Media       MediaConfig             `mapstructure:"media"`
	Server      ServerConfig            `mapstructure:"server"`
	Database    DatabaseConfig          `mapstructure:"database"`
	Spool       SpoolConfig             `mapstructure:"spool"`
	ObjectStore ObjectStoreConfig       `mapstructure:"objectstore"`
	CORS        grabbielhttp.CORSConfig `mapstructure:"cors"`
	Log         LogConfig               `mapstructure:"log"`
}

// AdminConfig holds the table browser listener.
type AdminConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	PageSize int    `mapstructure:"page_size" validate:"min=1,max=10000"`
}

// MediaConfig holds the media manager listener and dashboard size.
type MediaConfig struct {
	Addr        string `mapstructure:"addr" validate:"required,hostname_port"`
	RecentLimit int    `mapstructure:"recent_limit" validate:"min=1,max=100"`
}

// ServerConfig holds the socket settings shared by both listeners.
type ServerConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes" validate:"min=0"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes" validate:"min=0"`
	ReadBufferSize int           `mapstructure:"read_buffer_size" validate:"min=0"`
	AllowTruncated bool          `mapstructure:"allow_truncated"`
}

// Listener returns the server settings for addr.
func (c ServerConfig) Listener(addr string) server.Config {
	return server.Config{
		Addr:           addr,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
		MaxHeaderBytes: c.MaxHeaderBytes,
		MaxBodyBytes:   c.MaxBodyBytes,
		ReadBufferSize: c.ReadBufferSize,
		AllowTruncated: c.AllowTruncated,
	}
}

// DatabaseConfig holds the connection settings and whether to migrate on
// startup.
type DatabaseConfig struct {
	database.Config `mapstructure:",squash"`
	AutoMigrate     bool `mapstructure:"auto_migrate"`
}

// SpoolConfig holds the local upload spool.
type SpoolConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	// MaxAge removes spool files older than this at startup. Zero keeps them.
	MaxAge time.Duration `mapstructure:"max_age" validate:"min=0"`
}

// ObjectStoreConfig holds the gsutil invocation and bucket layout.
type ObjectStoreConfig struct {
	Command       []string      `mapstructure:"command" validate:"required,min=1,dive,required"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"min=0"`
	PublicBucket  string        `mapstructure:"public_bucket" validate:"required,startswith=gs://"`
	PrivateBucket string        `mapstructure:"private_bucket" validate:"required,startswith=gs://"`
	PublicURLBase string        `mapstructure:"public_url_base" validate:"required,url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// IsProduction reports whether Env selects production logging.
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":      "database.type",
	"db-dsn":       "database.dsn",
	"auto-migrate": "database.auto_migrate",
	"spool-path":   "spool.path",
	"admin-addr":   "admin.addr",
	"media-addr":   "media.addr",
	"log-level":    "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("admin.addr", "127.0.0.1:8888")
	v.SetDefault("admin.page_size", 100)
	v.SetDefault("media.addr", "127.0.0.1:8889")
	v.SetDefault("media.recent_limit", 10)

	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_header_bytes", 64<<10)
	v.SetDefault("server.max_body_bytes", 512<<20)
	v.SetDefault("server.read_buffer_size", 65536)
	v.SetDefault("server.allow_truncated", false)

	v.SetDefault("database.type", database.TypeSQLite)
	v.SetDefault("database.dsn", "/var/lib/grabbiel-db/content.db")
	v.SetDefault("database.tables.images", "images")
	v.SetDefault("database.tables.videos", "videos")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("spool.path", "/tmp/grabbiel-uploads")
	v.SetDefault("spool.max_age", 24*time.Hour)

	v.SetDefault("objectstore.command", objectstore.DefaultCommand)
	v.SetDefault("objectstore.timeout", objectstore.DefaultTimeout)
	v.SetDefault("objectstore.public_bucket", "gs://grabbiel-media-public")
	v.SetDefault("objectstore.private_bucket", "gs://grabbiel-media")
	v.SetDefault("objectstore.public_url_base", "https://storage.googleapis.com/grabbiel-media-public")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("grabbieldb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/grabbieldb")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
