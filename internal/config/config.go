// Package config loads slate configuration from file, environment, and
// defaults, with hot reload on file changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ProviderConfig configures the generative-text service.
type ProviderConfig struct {
	Type           string  `mapstructure:"type" yaml:"type"`
	Model          string  `mapstructure:"model" yaml:"model"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	MaxTokens      int64   `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	RateLimit      int     `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per minute
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxAttempts    int     `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// AnalysisConfig tunes the analysis run.
type AnalysisConfig struct {
	ChunkSize        int `mapstructure:"chunk_size" yaml:"chunk_size"`
	InterCallDelayMS int `mapstructure:"inter_call_delay_ms" yaml:"inter_call_delay_ms"`
	RepairAttempts   int `mapstructure:"repair_attempts" yaml:"repair_attempts"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // yaml or json
}

// Config is the full slate configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:           "openai",
			Model:          "gpt-4o-mini",
			APIKey:         "${OPENAI_API_KEY}",
			MaxTokens:      4096,
			Temperature:    0.2,
			RateLimit:      60,
			TimeoutSeconds: 120,
			MaxAttempts:    3,
		},
		Analysis: AnalysisConfig{
			ChunkSize:        24000,
			InterCallDelayMS: 500,
			RepairAttempts:   2,
		},
		Output: OutputConfig{
			Format: "yaml",
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("provider", defaults.Provider)
	viper.SetDefault("analysis", defaults.Analysis)
	viper.SetDefault("output", defaults.Output)

	// Environment variables with SLATE_ prefix
	viper.SetEnvPrefix("SLATE")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.slate")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Slate configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
