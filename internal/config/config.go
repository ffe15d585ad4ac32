// Package config loads caerus settings from defaults, a config file, the
// environment and command-line flags through viper.
package config

import (
	stderrs "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/utils"
	"github.com/go-playground/validator/v10"
	"github.com/kav/caerus/internal/timelapse"
	"github.com/kav/caerus/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CAERUS_LOGGING_CONSOLE_LEVEL.
const EnvPrefix = "CAERUS"

// Config represents the complete caerus configuration
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Timelapse TimelapseConfig `mapstructure:"timelapse"`
}

// LoggingConfig controls the console and file sinks
type LoggingConfig struct {
	// ConsoleLevel is the minimum level printed to stderr (default: info)
	ConsoleLevel string        `mapstructure:"console_level" validate:"required,oneof=debug info warn error critical off"`
	File         FileLogConfig `mapstructure:"file"`
}

// FileLogConfig controls the rotating log file
type FileLogConfig struct {
	// Enabled attaches the file sink at startup (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Path of the active log file (default: <tmp>/<executable>.log)
	Path string `mapstructure:"path" validate:"required_if=Enabled true"`
	// Level is the minimum level written to the file (default: debug)
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error critical off"`
	// MaxBytes is the size at which the file is rotated (default: 10MiB)
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
	// BackupCount is the number of archives kept (default: 5)
	BackupCount int `mapstructure:"backup_count" validate:"gt=0"`
	// Compress gzips archives
	Compress bool `mapstructure:"compress"`
	// MaxAgeDays, when positive, also prunes archives older than this
	MaxAgeDays int `mapstructure:"max_age_days" validate:"gte=0"`
}

// TimelapseConfig controls where and how images are captured
type TimelapseConfig struct {
	// Root is the directory holding one sub-directory per project
	Root string `mapstructure:"root" validate:"required"`
	// Prefix starts every image file name, followed by a zero-padded index
	Prefix string `mapstructure:"prefix" validate:"required"`
	// Command is the still-capture program (default: libcamera-still)
	Command string `mapstructure:"command" validate:"required"`
	// Width and Height of captured images (default: 3280x2464)
	Width  int `mapstructure:"width" validate:"gt=0"`
	Height int `mapstructure:"height" validate:"gt=0"`
	// WarmUp lets the sensor settle before each capture (default: 2s)
	WarmUp time.Duration `mapstructure:"warm_up" validate:"gte=0"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			ConsoleLevel: "info",
			File: FileLogConfig{
				Enabled:     true,
				Path:        DefaultLogPath(),
				Level:       "debug",
				MaxBytes:    logging.DefaultMaxBytes,
				BackupCount: logging.DefaultBackupCount,
			},
		},
		Timelapse: TimelapseConfig{
			Root:    defaultRoot(),
			Prefix:  "image_",
			Command: "libcamera-still",
			Width:   timelapse.DefaultWidth,
			Height:  timelapse.DefaultHeight,
			WarmUp:  timelapse.DefaultWarmUp,
		},
	}
}

// SetDefaults registers Default() with v so every key resolves even without
// a config file.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("logging.console_level", d.Logging.ConsoleLevel)
	v.SetDefault("logging.file.enabled", d.Logging.File.Enabled)
	v.SetDefault("logging.file.path", d.Logging.File.Path)
	v.SetDefault("logging.file.level", d.Logging.File.Level)
	v.SetDefault("logging.file.max_bytes", d.Logging.File.MaxBytes)
	v.SetDefault("logging.file.backup_count", d.Logging.File.BackupCount)
	v.SetDefault("logging.file.compress", d.Logging.File.Compress)
	v.SetDefault("logging.file.max_age_days", d.Logging.File.MaxAgeDays)

	v.SetDefault("timelapse.root", d.Timelapse.Root)
	v.SetDefault("timelapse.prefix", d.Timelapse.Prefix)
	v.SetDefault("timelapse.command", d.Timelapse.Command)
	v.SetDefault("timelapse.width", d.Timelapse.Width)
	v.SetDefault("timelapse.height", d.Timelapse.Height)
	v.SetDefault("timelapse.warm_up", d.Timelapse.WarmUp)
}

// Setup prepares v: defaults, environment overrides and, when present, the
// config file (cfgFile if set, else config.yaml in ConfigDir or ".").
// A missing default config file is not an error.
func Setup(v *viper.Viper, cfgFile string) error {
	const op errors.Op = "config.Setup"
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && stderrs.As(err, &notFound) {
			return nil
		}
		return errors.New(op).Err(err).Msg("Unable to read config file.")
	}
	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	const op errors.Op = "config.Load"
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg("Unable to decode configuration.")
	}

	cfg.Logging.ConsoleLevel = strings.ToLower(cfg.Logging.ConsoleLevel)
	cfg.Logging.File.Level = strings.ToLower(cfg.Logging.File.Level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks every field tag of the configuration
func (c *Config) Validate() error {
	const op errors.Op = "config.Validate"
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		return errors.New(op).Err(err).Msg("Configuration is invalid.")
	}
	return nil
}

// Console returns the parsed console level
func (c LoggingConfig) Console() (logging.Level, error) {
	return logging.ParseLevel(c.ConsoleLevel)
}

// FileSink converts the file settings for logging.Service.AttachFile
func (c FileLogConfig) FileSink() (logging.FileConfig, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return logging.FileConfig{}, err
	}
	return logging.FileConfig{
		Path:        c.Path,
		Level:       level,
		MaxBytes:    c.MaxBytes,
		BackupCount: c.BackupCount,
		Compress:    c.Compress,
		MaxAgeDays:  c.MaxAgeDays,
	}, nil
}

// DefaultLogPath is <tmp>/<executable name>.log
func DefaultLogPath() string {
	name, err := utils.ExecName(true)
	if err != nil || name == "" {
		name = "caerus"
	}
	return filepath.Join(os.TempDir(), name+".log")
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "caerus")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".caerus"
	}
	return filepath.Join(home, ".config", "caerus")
}

func defaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timelapse"
	}
	return filepath.Join(home, "timelapse")
}
