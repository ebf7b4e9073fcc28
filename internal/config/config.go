package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the app. Values come from
// .roadmap.yaml, ROADMAP_* env vars, and built-in defaults, in that
// order of precedence.
type Config struct {
	// DBPath overrides the default database location. Empty means
	// use the per-user config directory.
	DBPath    string `mapstructure:"db_path"`
	AltScreen bool   `mapstructure:"alt_screen"`
	// Seed controls whether an empty database is populated with the
	// starter roadmap on first launch.
	Seed bool `mapstructure:"seed"`
}

// Load reads configuration, applying defaults for anything not set by
// config file or environment. A missing config file is not an error.
func Load() (Config, error) {
	viper.SetConfigName(".roadmap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}

	viper.SetEnvPrefix("ROADMAP")
	viper.AutomaticEnv()

	viper.SetDefault("db_path", "")
	viper.SetDefault("alt_screen", true)
	viper.SetDefault("seed", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
