// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing library configuration.
// It allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Client() ClientConfig

	// Client Setters
	SetClientMaxRedirects(int)
	SetClientCSRFField(string)
}

// Config holds the full library configuration. Private fields enforce access
// through the Interface's getter methods.
type Config struct {
	logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	client ClientConfig `mapstructure:"client" yaml:"client"`
}

// --- Interface Method Implementations ---

func (c *Config) Logger() LoggerConfig { return c.logger }
func (c *Config) Client() ClientConfig { return c.client }

func (c *Config) SetClientMaxRedirects(n int)    { c.client.MaxRedirects = n }
func (c *Config) SetClientCSRFField(name string) { c.client.CSRFField = name }

// LoggerConfig holds settings for the global zap logger.
type LoggerConfig struct {
	// Minimum level to emit ("debug", "info", "warn", "error").
	Level string `mapstructure:"level" yaml:"level"`
	// Console encoder format: "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`
	// If true, log entries include the calling source location.
	AddSource bool `mapstructure:"add_source" yaml:"add_source"`
	// Name attached to the root logger.
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	// Optional rotating log file. Empty disables file output.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ClientConfig holds settings for the request engine and session layer.
type ClientConfig struct {
	// Maximum number of redirect hops followed for a single navigation before
	// the engine gives up. Guards against handlers that redirect in a loop.
	MaxRedirects int `mapstructure:"max_redirects" yaml:"max_redirects"`
	// Name of the hidden anti-forgery input searched for inside forms.
	CSRFField string `mapstructure:"csrf_field" yaml:"csrf_field"`
	// If true, the engine logs every request/redirect hop at debug level.
	TraceRequests bool `mapstructure:"trace_requests" yaml:"trace_requests"`
}

// NewDefaultConfig creates a configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := unmarshal(v, &cfg); err != nil {
		// Cannot happen with defaults, but fail loudly rather than return junk.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "webprobe")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Client --
	v.SetDefault("client.max_redirects", 5)
	v.SetDefault("client.csrf_field", "_csrf_token")
	v.SetDefault("client.trace_requests", false)
}

// NewConfigFromViper creates a configuration instance from a viper object,
// binding WEBPROBE_* environment variables over file/explicit values.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("WEBPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := unmarshal(v, &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would break the engine.
func (c *Config) Validate() error {
	if c.client.MaxRedirects < 1 {
		return fmt.Errorf("client.max_redirects must be at least 1, got %d", c.client.MaxRedirects)
	}
	if c.client.CSRFField == "" {
		return fmt.Errorf("client.csrf_field must not be empty")
	}
	switch c.logger.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logger.format must be %q or %q, got %q", "console", "json", c.logger.Format)
	}
	return nil
}

// unmarshal decodes into the private fields of Config. Viper cannot set
// unexported fields directly, so decode into a mirror struct first.
func unmarshal(v *viper.Viper, cfg *Config) error {
	var raw struct {
		Logger LoggerConfig `mapstructure:"logger"`
		Client ClientConfig `mapstructure:"client"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return err
	}
	cfg.logger = raw.Logger
	cfg.client = raw.Client
	return nil
}
