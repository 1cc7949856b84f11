package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DataDir   string          `mapstructure:"data_dir"`
	Log       LogConfig       `mapstructure:"log"`
	Reader    ReaderConfig    `mapstructure:"reader"`
	Direction DirectionConfig `mapstructure:"direction"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Library   LibraryConfig   `mapstructure:"library"`

	DBPath         string `mapstructure:"-"`
	PreferencePath string `mapstructure:"-"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

type ReaderConfig struct {
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type DirectionConfig struct {
	DetectTimeout time.Duration `mapstructure:"detect_timeout"`
}

type BackendConfig struct {
	Binary       string        `mapstructure:"binary"`
	StartTimeout time.Duration `mapstructure:"start_timeout"`
}

type LibraryConfig struct {
	ScanCacheTTL time.Duration `mapstructure:"scan_cache_ttl"`
}

// Load reads configuration from file and env. Env var overrides use prefix SHIORI_.
// An empty dataDir keeps the configured (or default) data directory.
func Load(dataDir string) (Config, error) {
	v := viper.New()

	defaultData, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}
	v.SetDefault("data_dir", defaultData)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("reader.open_timeout", 30*time.Second)
	v.SetDefault("direction.detect_timeout", 3*time.Second)
	v.SetDefault("backend.binary", defaultBackendBinary())
	v.SetDefault("backend.start_timeout", 3*time.Second)
	v.SetDefault("library.scan_cache_ttl", 5*time.Minute)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("SHIORI_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "shiori"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHIORI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	return c.withDerived()
}

// New builds a Config rooted at dataDir with default settings and no file or env lookups.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	c := Config{
		DataDir:   dataDir,
		Log:       LogConfig{Level: "info"},
		Reader:    ReaderConfig{OpenTimeout: 30 * time.Second},
		Direction: DirectionConfig{DetectTimeout: 3 * time.Second},
		Backend:   BackendConfig{Binary: defaultBackendBinary(), StartTimeout: 3 * time.Second},
		Library:   LibraryConfig{ScanCacheTTL: 5 * time.Minute},
	}
	return c.withDerived()
}

func (c Config) withDerived() (Config, error) {
	if strings.TrimSpace(c.DataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	c.DBPath = filepath.Join(c.DataDir, "shiori.db")
	c.PreferencePath = filepath.Join(c.DataDir, "preferences.yaml")
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(c.DataDir, "logs", "shiori.log")
	}
	return c, nil
}

func defaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "shiori"), nil
}

// defaultBackendBinary looks for shiori-backend next to the running executable.
func defaultBackendBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return "shiori-backend"
	}
	return filepath.Join(filepath.Dir(exe), "shiori-backend")
}
