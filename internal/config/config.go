package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DaemonPort  int           `mapstructure:"daemon_port"`
	BufferSize  int           `mapstructure:"buffer_size"`
	Debounce    time.Duration `mapstructure:"debounce"`
	IgnoreList  []string      `mapstructure:"ignore_list"`
	DBPath      string        `mapstructure:"db_path"`
	Delete      bool          `mapstructure:"delete"`
	Depth       string        `mapstructure:"depth"`
	Concurrency int           `mapstructure:"concurrency"`
}

var Default = Config{
	DaemonPort:  9011,
	BufferSize:  100,
	Debounce:    0,
	IgnoreList:  []string{},
	DBPath:      "dirmirror.db",
	Delete:      false,
	Depth:       "unbounded",
	Concurrency: 4,
}

// Dir is where the config file and the database live.
func Dir() (string, error) {
	if dir := os.Getenv("DIRMIRROR_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	return filepath.Join(home, ".dirmirror"), nil
}

func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("daemon_port", Default.DaemonPort)
	v.SetDefault("buffer_size", Default.BufferSize)
	v.SetDefault("debounce", Default.Debounce)
	v.SetDefault("ignore_list", Default.IgnoreList)
	v.SetDefault("db_path", Default.DBPath)
	v.SetDefault("delete", Default.Delete)
	v.SetDefault("depth", Default.Depth)
	v.SetDefault("concurrency", Default.Concurrency)

	v.SetEnvPrefix("DIRMIRROR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !filepath.IsAbs(cfg.DBPath) {
		cfg.DBPath = filepath.Join(configDir, cfg.DBPath)
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = Default.BufferSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	return &cfg, nil
}
