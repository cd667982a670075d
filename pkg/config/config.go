// Package config loads client configuration from file, env, and defaults.
package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config carries everything the client side needs to run.
type Config struct {
	Server  string `json:"server"`
	Token   string `json:"token"`
	Account string `json:"account"`
	Path    string `json:"path"`
}

// Load reads .scenemap.yaml (cwd or SCENEMAP_CONFIG_PATH) with SCENEMAP_*
// env overrides. The local store defaults to ~/.scenemap.db.
func Load() (*Config, error) {
	viper.SetDefault("server", "http://localhost:8844")
	viper.SetDefault("account", "guest")
	viper.SetDefault("path", "~/.scenemap.db")
	viper.SetConfigName(".scenemap") // .yaml is implicit
	viper.SetEnvPrefix("SCENEMAP")
	viper.AutomaticEnv()

	if override := os.Getenv("SCENEMAP_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  viper.GetString("server"),
		Token:   viper.GetString("token"),
		Account: viper.GetString("account"),
		Path:    filepath.Clean(path),
	}, nil
}
