// Package config loads the epochd configuration from flags, EPOCHD_*
// environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/state/protocol/aggregator"
)

// EnvPrefix is prepended to every environment variable, e.g. EPOCHD_DATA_DIR.
const EnvPrefix = "EPOCHD"

const (
	DBEngineBadger = "badger"
	DBEnginePebble = "pebble"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config is the configuration of an epochd process.
type Config struct {
	DataDir  string `mapstructure:"data-dir" validate:"required"`
	DBEngine string `mapstructure:"db-engine" validate:"oneof=badger pebble"`
	// CacheSize is the number of epoch records kept in memory.
	CacheSize uint `mapstructure:"cache-size" validate:"gt=0"`

	// Self is the service's own account, which holds administrative authority.
	Self string `mapstructure:"self" validate:"required,account"`
	// Accounts lists the accounts which may be registered as oracles. Empty
	// accepts any well-formed name.
	Accounts         []string `mapstructure:"accounts" validate:"dive,account"`
	DefaultDuration  uint32   `mapstructure:"default-duration" validate:"gt=0"`
	CompletionPolicy string   `mapstructure:"completion-policy" validate:"policy"`

	RestAddr string `mapstructure:"rest-addr" validate:"required,hostname_port"`
	// AdminAddr is the admin command endpoint. Empty disables it.
	AdminAddr string `mapstructure:"admin-addr" validate:"omitempty,hostname_port"`
	// MetricsPort serves /metrics. Zero disables it.
	MetricsPort uint `mapstructure:"metrics-port" validate:"lte=65535"`

	// TracingEndpoint is an OTLP gRPC collector. Empty disables tracing.
	TracingEndpoint    string  `mapstructure:"tracing-endpoint"`
	TracingSensitivity float64 `mapstructure:"tracing-sensitivity" validate:"gte=0,lte=1"`

	LogLevel  string `mapstructure:"log-level" validate:"loglevel"`
	LogFormat string `mapstructure:"log-format" validate:"oneof=json console"`
}

// DefaultConfig returns the configuration used for keys which are not set.
func DefaultConfig() Config {
	return Config{
		DataDir:            "./data",
		DBEngine:           DBEngineBadger,
		CacheSize:          1000,
		Self:               "epoch.drops",
		DefaultDuration:    drops.DefaultDuration,
		CompletionPolicy:   aggregator.DefaultCompletionPolicy.String(),
		RestAddr:           "localhost:8080",
		AdminAddr:          "localhost:9002",
		MetricsPort:        8081,
		TracingSensitivity: 0.01,
		LogLevel:           zerolog.InfoLevel.String(),
		LogFormat:          LogFormatJSON,
	}
}

// BindFlags defines a flag for every configuration key, with the defaults
// of DefaultConfig.
func BindFlags(flags *pflag.FlagSet) {
	d := DefaultConfig()
	flags.String("data-dir", d.DataDir, "directory of the database")
	flags.String("db-engine", d.DBEngine, "storage engine: badger or pebble")
	flags.Uint("cache-size", d.CacheSize, "number of epoch records cached in memory")
	flags.String("self", d.Self, "account of the service, which holds administrative authority")
	flags.StringSlice("accounts", d.Accounts, "accounts which may be registered as oracles (empty accepts any)")
	flags.Uint32("default-duration", d.DefaultDuration, "epoch duration in seconds before one is configured")
	flags.String("completion-policy", d.CompletionPolicy, "when an epoch is complete: reveals-match-commits or reveals-match-snapshot")
	flags.String("rest-addr", d.RestAddr, "address of the REST API")
	flags.String("admin-addr", d.AdminAddr, "address of the admin command endpoint (empty disables it)")
	flags.Uint("metrics-port", d.MetricsPort, "port of the prometheus endpoint (0 disables it)")
	flags.String("tracing-endpoint", d.TracingEndpoint, "OTLP gRPC endpoint spans are exported to (empty disables tracing)")
	flags.Float64("tracing-sensitivity", d.TracingSensitivity, "fraction of traces sampled")
	flags.String("log-level", d.LogLevel, "log level")
	flags.String("log-format", d.LogFormat, "log format: json or console")
}

// Load reads the configuration. Precedence, highest first: explicitly set
// flags, environment, config file, flag defaults.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err := v.BindPFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("could not bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		err = v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", configFile, err)
		}
	}

	cfg := DefaultConfig()
	err = v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("mapstructure")
	})
	_ = v.RegisterValidation("account", func(fl validator.FieldLevel) bool {
		return drops.Name(fl.Field().String()).Validate() == nil
	})
	_ = v.RegisterValidation("policy", func(fl validator.FieldLevel) bool {
		_, err := aggregator.ParseCompletionPolicy(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := zerolog.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every key. The error names each invalid key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("could not validate config: %w", err)
	}
	invalid := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		invalid = append(invalid, fmt.Sprintf("%s (%s)", strings.TrimPrefix(fieldErr.Namespace(), "Config."), fieldErr.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(invalid, ", "))
}

// SelfName returns the service account.
func (c Config) SelfName() drops.Name {
	return drops.Name(c.Self)
}

// AccountNames returns the oracle allow-list.
func (c Config) AccountNames() drops.NameList {
	names := make(drops.NameList, 0, len(c.Accounts))
	for _, account := range c.Accounts {
		names = append(names, drops.Name(account))
	}
	return names
}

// Policy returns the parsed completion policy. Validate must have passed.
func (c Config) Policy() aggregator.CompletionPolicy {
	policy, _ := aggregator.ParseCompletionPolicy(c.CompletionPolicy)
	return policy
}

// Level returns the parsed log level. Validate must have passed.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
