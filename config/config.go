package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SessionSecret string `mapstructure:"session_secret"`
}

// Sync pushes unsynced activity to the remote leaderboard store. An empty
// URL disables it.
type SyncConfig struct {
	URL      string `mapstructure:"url"`
	Interval int    `mapstructure:"interval"` // seconds
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.BindEnv("sync.url", "MINDGRID_SYNC_URL")
	viper.BindEnv("auth.session_secret", "MINDGRID_SESSION_SECRET")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:8080"})

	viper.SetDefault("database.path", "./mindgrid.db")

	viper.SetDefault("auth.session_secret", "your-secret-key-change-this-in-production")

	viper.SetDefault("sync.url", "")
	viper.SetDefault("sync.interval", 300)

	viper.SetDefault("log.level", "info")

	// Allow environment variables
	viper.SetEnvPrefix("MINDGRID")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
