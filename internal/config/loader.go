package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/simulor-project/simulor/internal/longbridge"
)

// GetDefaultConfigPath returns the OS-appropriate default config file path.
// Accepts userConfigDir for dependency injection (testability).
// Ensures the app-specific config directory exists.
func GetDefaultConfigPath(userConfigDir func() (string, error)) (string, error) {
	configDir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, "simulor")
	if err := os.MkdirAll(appConfigDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(appConfigDir, "config.yaml"), nil
}

// Load loads the configuration from the specified path or default location.
// If configPath is empty, it uses the OS-appropriate default path.
// If the config file doesn't exist, it returns a default configuration.
// Accepts userConfigDir for dependency injection (testability).
func Load(configPath string, userConfigDir func() (string, error)) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath(userConfigDir)
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is not an error; run on defaults.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures Viper default values matching NewDefaultConfig.
func setDefaults(v *viper.Viper) {
	v.SetDefault("global.output", "table")
	v.SetDefault("global.concurrency", 4)
	v.SetDefault("trading.capital", "100000")
	v.SetDefault("trading.reserve_pct", 0.05)
	v.SetDefault("trading.max_position", 0.25)
}

// Credentials merges Longbridge credentials from the config file with the
// LONGPORT_* environment variables; the environment wins per part. getenv
// is injected for testability.
func (c *Config) Credentials(getenv func(string) string) longbridge.Credentials {
	creds := longbridge.Credentials{
		AppKey:      c.Longbridge.AppKey,
		AppSecret:   c.Longbridge.AppSecret,
		AccessToken: c.Longbridge.AccessToken,
		BaseURL:     c.Longbridge.BaseURL,
	}
	env := longbridge.CredentialsFromEnv(getenv)
	if env.AppKey != "" {
		creds.AppKey = env.AppKey
	}
	if env.AppSecret != "" {
		creds.AppSecret = env.AppSecret
	}
	if env.AccessToken != "" {
		creds.AccessToken = env.AccessToken
	}
	return creds
}
