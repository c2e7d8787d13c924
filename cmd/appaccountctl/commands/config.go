package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	appaccount "github.com/goliatone/go-appaccount"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// envPrefix is stripped from environment variables during config loading
// (e.g. APPACCOUNT_DATABASE__DSN → database.dsn).
const envPrefix = "APPACCOUNT_"

const (
	SecretSourceNone    = "none"
	SecretSourceKey     = "key"
	SecretSourceKeyring = "keyring"
)

const (
	DefaultConfigDriver         = "sqlite3"
	DefaultConfigDSN            = "file:appaccount.db?_foreign_keys=on"
	DefaultConfigPingTimeout    = 5 * time.Second
	DefaultConfigLogLevel       = "info"
	DefaultConfigLogFormat      = "text"
	DefaultConfigCacheTTL       = time.Minute
	DefaultConfigWatchInterval  = 2 * time.Second
	DefaultConfigSecretSource   = SecretSourceNone
	DefaultConfigKeyringService = "go-appaccount"
	DefaultConfigKeyringUser    = "secret-key"
)

type DatabaseConfig struct {
	Driver      string        `koanf:"driver" validate:"required,oneof=sqlite3 postgres"`
	DSN         string        `koanf:"dsn" validate:"required"`
	Debug       bool          `koanf:"debug"`
	PingTimeout time.Duration `koanf:"ping_timeout"`
	AutoMigrate bool          `koanf:"auto_migrate"`
}

func (c DatabaseConfig) GetDebug() bool {
	return c.Debug
}

func (c DatabaseConfig) GetDriver() string {
	return c.Driver
}

func (c DatabaseConfig) GetServer() string {
	return c.DSN
}

func (c DatabaseConfig) GetPingTimeout() time.Duration {
	return c.PingTimeout
}

func (c DatabaseConfig) GetOtelIdentifier() string {
	return "appaccountctl"
}

type SecretsConfig struct {
	Source         string `koanf:"source" validate:"required,oneof=none key keyring"`
	Key            string `koanf:"key"`
	KeyID          string `koanf:"key_id"`
	KeyringService string `koanf:"keyring_service"`
	KeyringUser    string `koanf:"keyring_user"`
	// Retired keys still open values sealed before a rotation until
	// RetiredUntil passes.
	RetiredKeys  []RetiredKeyConfig `koanf:"retired_keys" validate:"dive"`
	RetiredUntil time.Time          `koanf:"retired_until"`
}

type RetiredKeyConfig struct {
	Key     string `koanf:"key" validate:"required"`
	KeyID   string `koanf:"key_id" validate:"required"`
	Version int    `koanf:"version"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// Config is the appaccountctl configuration. Caller is the application id the
// CLI acts as; Privileged apps hold both device permissions.
type Config struct {
	Caller        string            `koanf:"caller" validate:"required,max=1024"`
	Privileged    []string          `koanf:"privileged"`
	LogLevel      string            `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat     string            `koanf:"log_format" validate:"oneof=text json"`
	WatchInterval time.Duration     `koanf:"watch_interval"`
	Database      DatabaseConfig    `koanf:"database"`
	Secrets       SecretsConfig     `koanf:"secrets"`
	Cache         CacheConfig       `koanf:"cache"`
	Service       appaccount.Config `koanf:"service"`
}

func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultConfigLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.WatchInterval == 0 {
		c.WatchInterval = DefaultConfigWatchInterval
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultConfigDriver
	}
	if c.Database.DSN == "" && c.Database.Driver == DefaultConfigDriver {
		c.Database.DSN = DefaultConfigDSN
	}
	if c.Database.PingTimeout == 0 {
		c.Database.PingTimeout = DefaultConfigPingTimeout
	}
	if c.Secrets.Source == "" {
		c.Secrets.Source = DefaultConfigSecretSource
	}
	if c.Secrets.KeyringService == "" {
		c.Secrets.KeyringService = DefaultConfigKeyringService
	}
	if c.Secrets.KeyringUser == "" {
		c.Secrets.KeyringUser = DefaultConfigKeyringUser
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultConfigCacheTTL
	}

	defaults := appaccount.DefaultConfig()
	if c.Service.ServiceName == "" {
		c.Service.ServiceName = "appaccountctl"
	}
	if c.Service.Notifications.MaxBatchSize == 0 {
		c.Service.Notifications.MaxBatchSize = defaults.Notifications.MaxBatchSize
	}
	if c.Service.Locking.WaitTimeoutMS == 0 {
		c.Service.Locking.WaitTimeoutMS = defaults.Locking.WaitTimeoutMS
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Secrets.Source == SecretSourceKey && strings.TrimSpace(c.Secrets.Key) == "" {
		return errors.New("secrets.key required for key secret source")
	}
	if c.WatchInterval < 0 {
		return errors.New("watch_interval must not be negative")
	}
	return c.Service.Validate()
}

// loadConfig loads configuration with precedence:
// config file → environment variables → CLI flags → defaults
func loadConfig(configPath string, cmd *cli.Command, environFunc func() []string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			stripped := strings.TrimPrefix(key, envPrefix)
			nested := strings.ToLower(strings.ReplaceAll(stripped, "__", "."))
			return nested, value
		},
		EnvironFunc: environFunc,
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	if cmd != nil {
		flagValues := extractAndTransformFlags(cmd)
		if err := k.Load(confmap.Provider(flagValues, "."), nil); err != nil {
			return nil, fmt.Errorf("loading CLI flags: %w", err)
		}
	}

	config := &Config{}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// configFlagNames are the flags that map onto Config keys. Command flags
// such as --extra-info are operation arguments and stay out of the config.
var configFlagNames = map[string]struct{}{
	"caller":           {},
	"privileged":       {},
	"log-level":        {},
	"log-format":       {},
	"watch-interval":   {},
	"database--driver": {},
	"database--dsn":    {},
	"database--debug":  {},
	"auto-migrate":     {},
	"secrets--source":  {},
	"cache--ttl":       {},
}

// extractAndTransformFlags maps flag names onto config keys, including
// parent flags: --database--dsn → database.dsn, --log-level → log_level.
func extractAndTransformFlags(cmd *cli.Command) map[string]any {
	values := make(map[string]any)
	for _, name := range cmd.FlagNames() {
		if _, ok := configFlagNames[name]; !ok {
			continue
		}
		if !cmd.IsSet(name) {
			continue
		}
		value := cmd.Value(name)
		if value == nil {
			continue
		}
		key := name
		if name == "auto-migrate" {
			key = "database--auto-migrate"
		}
		key = strings.ReplaceAll(key, "--", ".")
		key = strings.ReplaceAll(key, "-", "_")
		values[key] = value
	}
	return values
}
