package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flags that LoadConfig binds over file and environment values when present in the FlagSet.
const (
	FlagTokenFile = "token-file"
	FlagRoom      = "room"
)

const envPrefix = "ISSUEBOT"

var flagKeys = map[string]string{
	FlagTokenFile: "lookup.token_file",
	FlagRoom:      "telegram.room_id",
}

// LoadConfig reads configuration from:
//  1. Default values
//  2. the YAML file at path (optional; a missing file is not an error)
//  3. ISSUEBOT_* environment variables (e.g. ISSUEBOT_TELEGRAM_TOKEN)
//  4. flags in flags that were explicitly set
//
// The result is not validated; call Validate once interactive input has been merged.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Info("Configuration file not found, using defaults", "path", path)
		} else {
			slog.Debug("Configuration file loaded", "path", v.ConfigFileUsed())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
