// Package config reads and writes the app's yaml parameter file.
package config

import (
	"os"
	"path/filepath"

	"github.com/chemkit/sucos/pkg/sucos"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	fileMode       = 0600
)

// Config holds the tunable scoring parameters. A missing file is
// created with defaults so users have something to edit.
type Config struct {
	Params           sucos.Params `yaml:"params"`
	ClusterThreshold float64      `yaml:"cluster_threshold"`
}

func getDefaultConfig() *Config {
	return &Config{
		Params:           sucos.DefaultParams(),
		ClusterThreshold: 0.8,
	}
}

// Save writes the config to dirPath/config.yaml.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}

// ReadOrCreate reads the app config from dirPath, writing a default
// one first when none exists.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	path := filepath.Join(dirPath, configFileName)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c := getDefaultConfig()
		if err := Save(dirPath, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file: %s", path)
	}

	c := &Config{}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file: %s", path)
	}
	fillDefaults(c)
	return c, nil
}

// fillDefaults replaces unset or invalid parameters one by one so a
// partial config keeps the values the user did set.
func fillDefaults(c *Config) {
	d := sucos.DefaultParams()
	if c.Params.FeatRadius <= 0 {
		c.Params.FeatRadius = d.FeatRadius
	}
	if c.Params.FeatWidth <= 0 {
		c.Params.FeatWidth = d.FeatWidth
	}
	if c.Params.GridSpacing <= 0 {
		c.Params.GridSpacing = d.GridSpacing
	}
	if c.Params.GridMargin <= 0 {
		c.Params.GridMargin = d.GridMargin
	}
	if c.Params.VdwScale <= 0 {
		c.Params.VdwScale = d.VdwScale
	}
	if c.ClusterThreshold <= 0 {
		c.ClusterThreshold = 0.8
	}
}
