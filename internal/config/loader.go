package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory under the user config root.
	GlobalConfigDir = "finale"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// ProjectConfigDir is the per-directory config location.
	ProjectConfigDir = ".finale"
	// ProjectConfigFile is the per-directory config file name.
	ProjectConfigFile = "config.yaml"
)

// LoadConfig resolves the effective configuration. Layers, weakest first:
// Default(), the global file under the user config dir, the project-local
// .finale/config.yaml, and an explicit path from the config key. Values
// already bound to v (flags, FINALE_* env) win over every file. Search-path
// files may be absent; an explicit path must exist.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := Default()

	defaults, err := defaultsAsMap(cfg)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, err
	}

	for _, path := range []string{globalConfigPath(), projectConfigPath()} {
		if path == "" {
			continue
		}
		if err := mergeFile(v, path); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if explicit := v.GetString("config"); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, err
		}
		if err := mergeFile(v, explicit); err != nil {
			return nil, fmt.Errorf("read %s: %w", explicit, err)
		}
	}

	if err := v.Unmarshal(cfg, decodeHook()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// globalConfigPath returns the global config file path, or "" when there is
// no such file. On Linux this is ~/.config/finale/config.yaml.
func globalConfigPath() string {
	root, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(root, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// projectConfigPath returns the config file path relative to the working
// directory, or "" when there is no such file.
func projectConfigPath() string {
	path := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// mergeFile layers one YAML file into v. A missing file is not an error.
func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	file := viper.New()
	file.SetConfigType("yaml")
	if err := file.ReadConfig(bytes.NewReader(data)); err != nil {
		return err
	}
	return v.MergeConfigMap(file.AllSettings())
}

// decodeHook parses "250ms"-style durations and comma-separated lists on
// the way out of viper.
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// defaultsAsMap flattens Default() into the map shape MergeConfigMap wants.
// Durations are rendered as strings so they round-trip through the same
// parser as file values.
func defaultsAsMap(cfg *Config) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &result,
		DecodeHook: durationsAsStrings(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	return result, nil
}

func durationsAsStrings() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if from != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		return data.(time.Duration).String(), nil
	}
}
