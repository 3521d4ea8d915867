package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config represents the top-level configuration structure.
type Config struct {
	Global     GlobalConfig `yaml:"global"      mapstructure:"global"`
	HostsPath  string       `yaml:"hosts_path"  mapstructure:"hosts_path"`
	PkexecPath string       `yaml:"pkexec_path" mapstructure:"pkexec_path"`
}

// GlobalConfig holds global settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// validLogLevels is the set of supported log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Manager handles configuration loading and validation.
type Manager struct {
	viper      *viper.Viper
	configPath string
	current    *Config
	logger     *zap.Logger
}

// NewManager creates a config Manager, loads and validates the initial
// configuration. A missing config file is not an error: the tool runs on
// its defaults.
func NewManager(configPath string, logger *zap.Logger) (*Manager, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigFile(configPath)

	// Set defaults
	viperInstance.SetDefault("global.log_level", "info")
	viperInstance.SetDefault("hosts_path", "/etc/hosts")
	viperInstance.SetDefault("pkexec_path", "/usr/bin/pkexec")

	manager := &Manager{
		viper:      viperInstance,
		configPath: configPath,
		logger:     logger,
	}

	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	manager.current = cfg

	return manager, nil
}

// Load reads the config file if present, unmarshals it, and validates.
func (m *Manager) Load() (*Config, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		m.logger.Info("config file not found, using defaults",
			zap.String("path", m.configPath),
		)
	}

	var cfg Config
	if err := m.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for correctness.
func Validate(cfg *Config) error {
	if cfg.HostsPath == "" {
		return fmt.Errorf("hosts_path is required")
	}
	if !filepath.IsAbs(cfg.HostsPath) {
		return fmt.Errorf("hosts_path must be an absolute path, got %q", cfg.HostsPath)
	}
	if cfg.PkexecPath == "" {
		return fmt.Errorf("pkexec_path is required")
	}
	if !validLogLevels[cfg.Global.LogLevel] {
		return fmt.Errorf("unsupported log level %q (supported: debug, info, warn, error)", cfg.Global.LogLevel)
	}
	return nil
}

// GetConfig returns the loaded configuration.
func (m *Manager) GetConfig() *Config {
	return m.current
}
