package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort           int           `mapstructure:"APP_PORT"`
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	DatabasePath      string        `mapstructure:"DATABASE_PATH"`
	AccessToken       string        `mapstructure:"OMNIRAG_ACCESS_TOKEN"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SessionsLimit     int           `mapstructure:"SESSIONS_LIMIT"`
	HistoryLimit      int           `mapstructure:"HISTORY_LIMIT"`
	HistoryWindow     int           `mapstructure:"HISTORY_WINDOW"`
	StreamIdleTimeout time.Duration `mapstructure:"STREAM_IDLE_TIMEOUT"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("DATABASE_PATH", "~/.omnirag/console.db")
	viper.SetDefault("OMNIRAG_ACCESS_TOKEN", "")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("SESSIONS_LIMIT", 50)
	viper.SetDefault("HISTORY_LIMIT", 50)
	viper.SetDefault("HISTORY_WINDOW", 5)
	viper.SetDefault("STREAM_IDLE_TIMEOUT", "0s")
	viper.SetDefault("REQUEST_TIMEOUT", "30s")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.omnirag")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	path, err := ExpandHome(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	cfg.DatabasePath = path

	return &cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
