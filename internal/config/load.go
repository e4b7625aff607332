package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TODO_BASE_URL.
const EnvPrefix = "TODO"

// Load reads config.json from the config directory, applies TODO_*
// variables from the .env file and then the environment, validates the
// result and stores it in c.Settings. Missing files are not an error.
func (c *Config) Load() error {
	v := viper.New()
	def := DefaultSettings()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("token", def.Token)
	v.SetDefault("timeout", def.Timeout.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := c.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}

	if err := applyEnvFile(v, c.EnvPath()); err != nil {
		return err
	}

	if err := ValidateSettings(v.AllSettings()); err != nil {
		return err
	}

	var s Settings
	hook := viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())
	if err := v.Unmarshal(&s, hook); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	c.Settings = s
	return nil
}

// applyEnvFile sets TODO_* keys from the .env file at path. Variables
// already present in the environment win.
func applyEnvFile(v *viper.Viper, path string) error {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", EnvFile, err)
	}
	for name, value := range vars {
		key, ok := strings.CutPrefix(name, EnvPrefix+"_")
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(strings.ToLower(key), value)
	}
	return nil
}
