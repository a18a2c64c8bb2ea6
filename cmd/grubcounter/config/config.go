// Package config loads the grubcounter CLI's optional settings file.
//
// Nothing in this package is part of the grubcounter core's contract:
// it exists purely so the CLI collaborator has somewhere to keep the
// process name, poll interval, save directory, and overlay output path
// between invocations.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the CLI's on-disk settings, loaded from YAML.
type Config struct {
	// ProcessName is the target image name, e.g. "monkeyisland103.exe".
	ProcessName string `yaml:"process_name"`

	// SaveDir is the directory scanned for "*.save" files in decode
	// directory mode.
	SaveDir string `yaml:"save_dir"`

	// OutputPath is where watch mode writes the current counter value
	// for a streaming overlay to read.
	OutputPath string `yaml:"output_path"`

	// PollIntervalSeconds is how often watch mode polls the locator.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// Default returns the CLI's built-in defaults, used when no config file
// is present and no flag overrides a field.
func Default() Config {
	return Config{
		ProcessName:         "monkeyisland103.exe",
		SaveDir:             ".",
		OutputPath:          "grubcounter.txt",
		PollIntervalSeconds: 1,
	}
}

// Load reads and parses the YAML config file at path, starting from
// [Default] so an absent or partial file still yields usable values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
