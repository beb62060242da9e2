// Package config loads runtime configuration from flags, environment
// variables (DRIVEDESK_*), an optional .env file and an optional config
// file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/drivedesk/internal/store"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "DRIVEDESK"

// Config is the resolved runtime configuration.
type Config struct {
	DB           string
	ServerAddr   string
	Debug        bool
	RollbarToken string
	Env          string
	Actor        string
}

// Load resolves the configuration. Flags in fs named "db", "addr" and
// "debug" are bound when present; configFile, when non-empty, must exist.
// A .env file in the working directory is loaded if it exists.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("debug", false)
	v.SetDefault("env", "dev")
	v.SetDefault("actor", defaultActor())
	v.SetDefault("db", "")
	v.SetDefault("rollbar_token", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if fs != nil {
		for key, flag := range map[string]string{"db": "db", "server_addr": "addr", "debug": "debug"} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := &Config{
		DB:           v.GetString("db"),
		ServerAddr:   v.GetString("server_addr"),
		Debug:        v.GetBool("debug"),
		RollbarToken: v.GetString("rollbar_token"),
		Env:          v.GetString("env"),
		Actor:        v.GetString("actor"),
	}
	if cfg.DB == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DB = p
	}
	return cfg, nil
}

// loadDotEnv loads path into the process environment, ignoring a missing
// file. Variables already set are not overridden.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "admin"
}
