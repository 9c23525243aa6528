package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Supported EXIF readers
const (
	ReaderExiftool = "exiftool"
	ReaderGoexif   = "goexif"
)

// Config represents the application configuration
type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	CacheDir string      `mapstructure:"cache_dir"`
	Exif     ExifConfig  `mapstructure:"exif"`
	Store    StoreConfig `mapstructure:"store"`
}

// ExifConfig selects how metadata is read and written
type ExifConfig struct {
	Reader       string `mapstructure:"reader"`
	ExiftoolPath string `mapstructure:"exiftool_path"`
}

// StoreConfig represents the managed content store backing content:// locators
type StoreConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether a content store is configured
func (s StoreConfig) Enabled() bool {
	return s.Endpoint != ""
}

// Error reports an invalid configuration
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Configuration Error: %s", e.Message)
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "info",
		CacheDir: os.TempDir(),
		Exif: ExifConfig{
			Reader: ReaderExiftool,
		},
		Store: StoreConfig{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// Load reads configuration from path (optional) and MEDIAPICK_* environment
// variables on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := New()

	v := viper.New()
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("cache_dir", cfg.CacheDir)
	v.SetDefault("exif.reader", cfg.Exif.Reader)
	v.SetDefault("exif.exiftool_path", cfg.Exif.ExiftoolPath)
	v.SetDefault("store.endpoint", cfg.Store.Endpoint)
	v.SetDefault("store.region", cfg.Store.Region)
	v.SetDefault("store.bucket", cfg.Store.Bucket)
	v.SetDefault("store.access_key", cfg.Store.AccessKey)
	v.SetDefault("store.secret_key", cfg.Store.SecretKey)
	v.SetDefault("store.use_ssl", cfg.Store.UseSSL)

	v.SetEnvPrefix("MEDIAPICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values that cannot be defaulted
func (c *Config) Validate() error {
	switch strings.ToLower(c.Exif.Reader) {
	case ReaderExiftool, ReaderGoexif:
	default:
		return &Error{Message: fmt.Sprintf("unknown exif reader %q", c.Exif.Reader)}
	}

	if c.Store.Enabled() {
		if c.Store.Bucket == "" {
			return &Error{Message: "store bucket is required when a store endpoint is set"}
		}
		if c.Store.AccessKey == "" || c.Store.SecretKey == "" {
			return &Error{Message: "store access key and secret key are required"}
		}
	}
	return nil
}
