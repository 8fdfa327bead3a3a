// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Groq     GroqConfig     `mapstructure:"groq"`
	Database DatabaseConfig `mapstructure:"database"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GroqConfig contains Groq API configuration. The Groq endpoint speaks the
// OpenAI chat-completion wire format.
type GroqConfig struct {
	APIKey      string  `mapstructure:"apikey"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_seconds"`
}

// DatabaseConfig contains the HR database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ChatConfig contains chat pipeline settings
type ChatConfig struct {
	HistoryWindow     int `mapstructure:"history_window"`
	QueryTimeoutSecs  int `mapstructure:"query_timeout_seconds"`
	DirectRenderRows  int `mapstructure:"direct_render_rows"`
	SummarySampleRows int `mapstructure:"summary_sample_rows"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed for field '%s': %s", e.Field, e.Message)
}

// LoadOptions contains options for configuration loading
type LoadOptions struct {
	ConfigPath       string
	ValidateRequired bool
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over config file values.
func Load(configPath string) (*Config, error) {
	return LoadWithOptions(LoadOptions{
		ConfigPath:       configPath,
		ValidateRequired: true,
	})
}

// LoadWithOptions loads configuration with additional options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := setConfigFile(v, opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to set config file: %w", err)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("HRCHATBOT")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error if env vars are set
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	setEnvironmentMappings(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if opts.ValidateRequired {
		if err := validateConfig(&config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Groq defaults
	v.SetDefault("groq.endpoint", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "moonshotai/kimi-k2-instruct-0905")
	// Low temperature keeps generated SQL deterministic
	v.SetDefault("groq.temperature", 0.1)
	v.SetDefault("groq.timeout_seconds", 30)

	// Database defaults
	v.SetDefault("database.path", "./hrchatbot.db")

	// Chat pipeline defaults
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("chat.query_timeout_seconds", 30)
	v.SetDefault("chat.direct_render_rows", 5)
	v.SetDefault("chat.summary_sample_rows", 15)

	// Server defaults
	v.SetDefault("server.port", "8080")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// setConfigFile sets the configuration file path with fallback logic
func setConfigFile(v *viper.Viper, configPath string) error {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return fmt.Errorf("config file specified by CONFIG_PATH does not exist: %s", envPath)
		}
		v.SetConfigFile(envPath)
		return nil
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			return nil
		}
	}

	// Default fallback locations; absence is tolerated so the service can run
	// on environment variables alone.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	return nil
}

// setEnvironmentMappings sets explicit environment variable mappings
func setEnvironmentMappings(v *viper.Viper) {
	envMappings := map[string]string{
		"GROQ_API_KEY":  "groq.apikey",
		"GROQ_ENDPOINT": "groq.endpoint",
		"GROQ_MODEL":    "groq.model",
		"HR_DB_PATH":    "database.path",
		"LOG_LEVEL":     "logging.level",
		"LOG_FORMAT":    "logging.format",
		"LOG_OUTPUT":    "logging.output",
		"PORT":          "server.port",
	}

	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			v.Set(configKey, value)
		}
	}
}

// validateConfig validates the configuration for required fields and valid values
func validateConfig(config *Config) error {
	var errs []ValidationError

	if config.Groq.APIKey == "" {
		errs = append(errs, ValidationError{
			Field:   "groq.apikey",
			Message: "Groq API key is required. Set via config file or GROQ_API_KEY environment variable",
		})
	}

	if config.Groq.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "groq.model",
			Message: "model name is required",
		})
	}

	if config.Groq.Temperature < 0 || config.Groq.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "groq.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if config.Groq.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "groq.timeout_seconds",
			Message: "timeout_seconds must be greater than 0",
		})
	}

	if config.Database.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "database.path",
			Message: "database path is required",
		})
	}

	if config.Database.Path != "" {
		if err := validateDirectoryExists(filepath.Dir(config.Database.Path)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "database.path",
				Message: fmt.Sprintf("database directory does not exist: %s", filepath.Dir(config.Database.Path)),
			})
		}
	}

	if config.Chat.HistoryWindow < 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.history_window",
			Message: "history_window must be greater than or equal to 0",
		})
	}

	if config.Chat.QueryTimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.query_timeout_seconds",
			Message: "query_timeout_seconds must be greater than 0",
		})
	}

	if config.Chat.DirectRenderRows <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.direct_render_rows",
			Message: "direct_render_rows must be greater than 0",
		})
	}

	if config.Chat.SummarySampleRows <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.summary_sample_rows",
			Message: "summary_sample_rows must be greater than 0",
		})
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, config.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("log level must be one of: %s", strings.Join(validLogLevels, ", ")),
		})
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, config.Logging.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("log format must be one of: %s", strings.Join(validLogFormats, ", ")),
		})
	}

	if len(errs) > 0 {
		var errorMessages []string
		for _, err := range errs {
			errorMessages = append(errorMessages, err.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errorMessages, "\n"))
	}

	return nil
}

// MaskSensitiveValues returns a copy of the config with sensitive values masked
func (c *Config) MaskSensitiveValues() *Config {
	masked := *c

	if masked.Groq.APIKey != "" {
		masked.Groq.APIKey = maskValue(masked.Groq.APIKey)
	}

	return &masked
}

// maskValue masks sensitive values, showing only the first 8 characters
func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:8] + strings.Repeat("*", len(value)-8)
}

// contains checks if a slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateDirectoryExists checks if a directory exists
func validateDirectoryExists(path string) error {
	if path == "" || path == "." {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// WatchConfig enables configuration hot-reloading for development
func WatchConfig(configPath string, callback func(*Config)) error {
	v := viper.New()

	if err := setConfigFile(v, configPath); err != nil {
		return err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Printf("Config file changed: %s\n", e.Name)

		config, err := LoadWithOptions(LoadOptions{
			ConfigPath:       configPath,
			ValidateRequired: true,
		})
		if err != nil {
			fmt.Printf("Failed to reload config: %v\n", err)
			return
		}

		callback(config)
	})

	return nil
}
