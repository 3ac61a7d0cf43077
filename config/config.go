// Package config loads FROST group parameters and logging settings from
// files, FROST_ environment variables and command line flags.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/moatus/frost"
)

// EnvPrefix is prepended to every environment variable, so threshold is
// read from FROST_THRESHOLD and logging.level from FROST_LOGGING_LEVEL.
const EnvPrefix = "FROST"

// Config holds everything a ceremony binary needs.
type Config struct {
	Ciphersuite  string  `mapstructure:"ciphersuite"`
	Threshold    int     `mapstructure:"threshold"`
	Participants int     `mapstructure:"participants"`
	Logging      Logging `mapstructure:"logging"`
}

// Logging selects the zap configuration.
type Logging struct {
	// Mode is "production" or "development".
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// Group returns the group parameters in the form the frost package
// validates.
func (c *Config) Group() *frost.Configuration {
	return &frost.Configuration{
		Ciphersuite:      c.Ciphersuite,
		Threshold:        c.Threshold,
		ParticipantCount: c.Participants,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ciphersuite", frost.Ed25519SHA512ID)
	v.SetDefault("threshold", 2)
	v.SetDefault("participants", 3)
	v.SetDefault("logging.mode", "production")
	v.SetDefault("logging.level", "info")
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("ciphersuite", frost.Ed25519SHA512ID, "ciphersuite identifier")
	fs.Int("threshold", 2, "number of signers required to sign")
	fs.Int("participants", 3, "number of key holders")
	fs.String("logging.mode", "production", "zap preset: production or development")
	fs.String("logging.level", "info", "minimum log level")
}

// Load reads path (if non-empty), then the environment, then any flags set
// on fs, and validates the result. Later sources win.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Group().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewLogger builds a zap logger from the logging section.
func NewLogger(l Logging) (*zap.Logger, error) {
	var cfg zap.Config
	if l.Mode == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.DisableCaller = true
	}
	if l.Level != "" {
		if err := cfg.Level.UnmarshalText([]byte(l.Level)); err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", l.Level)
		}
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
