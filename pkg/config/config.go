// Package config loads the optional project-level defaults file
// (.jackc.yaml) that seeds the driver's flags before CLI options are
// applied on top of them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const FileName = ".jackc.yaml"

// Config mirrors the driver's tunable flags. Zero values mean "not set in
// the file"; the driver only overwrites a flag from here when the CLI
// option for it was not itself supplied.
type Config struct {
	StdlibHints bool `yaml:"stdlibHints"`
	EmitXML     bool `yaml:"emitXML"`
	EmitSymbols bool `yaml:"emitSymbols"`
	NoColor     bool `yaml:"noColor"`
	Jobs        int  `yaml:"jobs"`
}

// Load looks for .jackc.yaml first in dir, then in the current working
// directory, returning a zero Config (no error) if neither exists.
func Load(dir string) (Config, error) {
	for _, candidate := range []string{filepath.Join(dir, FileName), FileName} {
		cfg, ok, err := tryLoad(candidate)
		if err != nil {
			return Config{}, err
		}
		if ok {
			return cfg, nil
		}
	}
	return Config{}, nil
}

// LoadFile parses path directly, failing if it does not exist — used when
// the caller named a specific config file explicitly (e.g. --config).
func LoadFile(path string) (Config, error) {
	cfg, ok, err := tryLoad(path)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Config{}, fmt.Errorf("config file %s does not exist", path)
	}
	return cfg, nil
}

func tryLoad(path string) (Config, bool, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, true, nil
}
