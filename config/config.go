package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Auth          AuthConfig         `mapstructure:"auth"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Quotes        QuotesConfig       `mapstructure:"quotes"`
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
	Password      string `mapstructure:"password"`
	PasswordHash  string `mapstructure:"password_hash"`
}

type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type QuotesConfig struct {
	PackPath string `mapstructure:"pack_path"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:8081", "http://localhost:19006"})

	viper.SetDefault("database.path", "./nindo.db")

	viper.SetDefault("auth.session_secret", "change-this-in-production")
	viper.SetDefault("auth.password", "")
	viper.SetDefault("auth.password_hash", "")

	viper.SetDefault("notifications.enabled", true)

	viper.SetDefault("quotes.pack_path", "./data/quotes.json")

	// Allow environment variables
	viper.SetEnvPrefix("NINDO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
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
