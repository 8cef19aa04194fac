// Package config loads application configuration from file and
// environment. This is operator configuration; user preferences live in
// the store as settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/omnimedia/omnihub/internal/catalog"
)

// Config holds all application configuration
type Config struct {
	Data    DataConfig          `mapstructure:"data"`
	Seed    catalog.SeedSources `mapstructure:"seed"`
	UI      UIConfig            `mapstructure:"ui"`
	Logging LoggingConfig       `mapstructure:"logging"`
}

// DataConfig holds local storage configuration
type DataConfig struct {
	Dir string `mapstructure:"dir"` // directory holding the bolt database
}

// UIConfig holds player UI configuration
type UIConfig struct {
	Theme          string `mapstructure:"theme"`
	ShowVisualizer bool   `mapstructure:"show_visualizer"`
	ShowLyrics     bool   `mapstructure:"show_lyrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: defaultDataPath(),
		},
		Seed: catalog.SeedSources{},
		UI: UIConfig{
			Theme:          "default",
			ShowVisualizer: true,
			ShowLyrics:     true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "omnihub", "omnihub.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "omnihub", "omnihub.log")
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "omnihub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "omnihub")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "omnihub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "omnihub")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("OMNIHUB")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("data.dir", cfg.Data.Dir)

	viper.Set("seed.movies", cfg.Seed.Movies)
	viper.Set("seed.music", cfg.Seed.Music)
	viper.Set("seed.artists", cfg.Seed.Artists)
	viper.Set("seed.playlists", cfg.Seed.Playlists)
	viper.Set("seed.genres", cfg.Seed.Genres)
	viper.Set("seed.trending", cfg.Seed.Trending)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.show_visualizer", cfg.UI.ShowVisualizer)
	viper.Set("ui.show_lyrics", cfg.UI.ShowLyrics)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
