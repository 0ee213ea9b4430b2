// Package config resolves runtime settings from .wbs.yaml, WBS_* environment
// variables and command-line flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// MCPConfig holds settings for the MCP server.
type MCPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds all runtime configuration for the wbs binary.
type Config struct {
	DBPath      string    `mapstructure:"db_path"`
	Actor       string    `mapstructure:"actor"`
	LogUseCases bool      `mapstructure:"log_use_cases"`
	LogLevel    string    `mapstructure:"log_level"`
	MCP         MCPConfig `mapstructure:"mcp"`
}

// DefaultConfig returns the built-in settings. The database lives under
// ~/.wbs unless the home directory cannot be determined.
func DefaultConfig() Config {
	dbPath := "wbs.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".wbs", "wbs.db")
	}
	actor := os.Getenv("USER")
	if actor == "" {
		actor = "local"
	}
	return Config{
		DBPath:   dbPath,
		Actor:    actor,
		LogLevel: "info",
		MCP:      MCPConfig{Addr: "127.0.0.1:8765"},
	}
}

// Load reads configuration into v and decodes it. When cfgFile is empty,
// .wbs.yaml is looked up in the working directory and then in the home
// directory; a missing file is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	def := DefaultConfig()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("actor", def.Actor)
	v.SetDefault("log_use_cases", def.LogUseCases)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("mcp.addr", def.MCP.Addr)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".wbs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("WBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, fmt.Errorf("db_path must not be empty")
	}
	return cfg, nil
}
