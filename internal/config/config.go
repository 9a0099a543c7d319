// Package config loads service settings from a JSON config file layered
// over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string        `json:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `json:"requestTimeout" mapstructure:"requestTimeout"`
	ShutdownGrace  time.Duration `json:"shutdownGrace" mapstructure:"shutdownGrace"`
}

// DBConfig holds storage backend settings.
type DBConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is
// not an error; the defaults stand.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.requestTimeout", "60s")
	viper.SetDefault("server.shutdownGrace", "10s")

	viper.SetDefault("db.path", "./sidebets.db")

	viper.SetDefault("cors.origins", []string{"*"})

	viper.SetConfigName("sidebets.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetServerConfig returns the HTTP listener settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           viper.GetString("server.addr"),
		RequestTimeout: viper.GetDuration("server.requestTimeout"),
		ShutdownGrace:  viper.GetDuration("server.shutdownGrace"),
	}
}

// GetDBConfig returns the storage backend settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Path: viper.GetString("db.path"),
	}
}

// GetCORSOrigins returns the allowed CORS origins.
func GetCORSOrigins() []string {
	return viper.GetStringSlice("cors.origins")
}
