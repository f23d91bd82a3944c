// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"fmt"
	"os"
)

// Source yields a validated configuration.
type Source interface {
	Load() (*Config, error)
}

// File is a [Source] backed by a JSON or YAML file. The format is chosen by
// extension: .yaml and .yml are YAML, anything else is JSON.
//
// Values present in the file override [Default]; absent values keep the default.
type File string

// Load reads, parses and validates the file.
func (f File) Load() (*Config, error) {
	path := string(f)
	if path == "" {
		return nil, ErrNoSource
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := unmarshalConfig(data, config, detectConfigFormat(path)); err != nil {
		return nil, err
	}
	config.normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

type static struct{ c *Config }

// Static returns a [Source] for an in-memory configuration.
// A nil configuration behaves like a missing source.
func Static(c *Config) Source { return static{c: c} }

func (s static) Load() (*Config, error) {
	if s.c == nil {
		return nil, ErrNoSource
	}
	c := s.c.Clone()
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve picks a configuration source for command-line use.
//
// Configuration Priority:
//  1. path, when non-empty
//  2. the file named by the PKI_TOOLKIT_CONFIG environment variable
//  3. the built-in [Default] configuration
func Resolve(path string) Source {
	if path != "" {
		return File(path)
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return File(env)
	}
	return Static(Default())
}
