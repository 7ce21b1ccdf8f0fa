package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/blindcard/pkg/errors"
)

// Validator is implemented by configuration types that can check themselves.
type Validator interface {
	Validate() error
}

// Load reads the file at path over [Default] and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := Decode(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDefaults loads path when it exists and the defaults otherwise.
func LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Load("")
	}
	return Load(path)
}

// Decode reads path into target with environment variable expansion. The
// extension selects TOML (.toml) or YAML (.yaml, .yml). When target
// implements [Validator] it is validated afterwards.
func Decode[T any](path string, target *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	expanded := os.ExpandEnv(string(data))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(expanded, target); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config file %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config file %s", path)
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidConfig, "unsupported config extension %q (want .toml, .yaml or .yml)", ext)
	}

	if v, ok := any(target).(Validator); ok {
		return v.Validate()
	}
	return nil
}
