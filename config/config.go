// Package config loads the user preferences of modtool. The built in
// defaults can be overridden by a config.yml in the modtool directory of the
// user configuration directory.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type (
	Config struct {
		Indent          string
		ScientificPitch bool
		OutputFormat    string
		Save            SaveConfig
		MIDI            MIDIConfig `yaml:"midi"`

		// YmlError is the error met when reading the user override, if any.
		// The defaults (and whatever parsed before the error) stay in effect.
		YmlError error `yaml:"-"`
	}

	SaveConfig struct {
		Prefix        string
		UseSampleName bool
		WAV           bool `yaml:"wav"`
	}

	MIDIConfig struct {
		BPM         float64 `yaml:"bpm"`
		TicksPerRow uint16
		Velocity    uint8
	}
)

const (
	appDir   = "modtool"
	fileName = "config.yml"
)

//go:embed config.yml
var defaultConfigYaml []byte

// Default returns the built in configuration.
func Default() Config {
	var c Config
	if err := yaml.UnmarshalStrict(defaultConfigYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// Path returns where the user override is looked for.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDir, fileName), nil
}

// ReadFile applies the settings of a yml file on top of target. A missing
// file is not an error; exists tells whether the file was found.
func ReadFile(path string, target *Config) (exists bool, err error) {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := yaml.UnmarshalStrict(bytes, target); err != nil {
		return true, fmt.Errorf("could not parse %v: %w", path, err)
	}
	return true, nil
}

// Load returns the defaults with the user override applied.
func Load() Config {
	c := Default()
	path, err := Path()
	if err != nil {
		return c
	}
	if _, err := ReadFile(path, &c); err != nil {
		c.YmlError = err
	}
	return c
}
