package types

import (
	"fmt"
	"strings"
)

// Config holds the session settings loaded from config.yaml: playback rate,
// log verbosity, and the record types to register at startup.
type Config struct {
	FPS      uint16       `mapstructure:"fps" yaml:"fps"`
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	Types    []TypeConfig `mapstructure:"types" yaml:"types"`
}

// TypeConfig declares a record type and its initial schema.
type TypeConfig struct {
	Name   string        `mapstructure:"name" yaml:"name"`
	Fields []FieldConfig `mapstructure:"fields" yaml:"fields"`
}

// FieldConfig declares one field; Type is a data type name such as "F32".
type FieldConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Type string `mapstructure:"type" yaml:"type"`
}

// Defaults applied when config.yaml leaves a key unset.
const (
	DefaultFPS      = 60
	DefaultLogLevel = "info"
)

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. Type names must be
// non-empty and unique, and within each type field names must be non-empty
// and unique with a known data type. Errors wrap the sentinels of this
// package.
func (c Config) Validate() error {
	if c.FPS == 0 {
		return ErrInvalidFPS
	}
	if c.LogLevel != "" && !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	seen := make(map[string]bool, len(c.Types))
	for _, tc := range c.Types {
		if tc.Name == "" {
			return fmt.Errorf("type: %w", ErrInvalidName)
		}
		if seen[tc.Name] {
			return fmt.Errorf("type %q: %w", tc.Name, ErrDuplicateName)
		}
		seen[tc.Name] = true
		if _, err := tc.Schema(); err != nil {
			return fmt.Errorf("type %q: %w", tc.Name, err)
		}
	}
	return nil
}

// Schema converts the declared fields into field descriptors, in order.
func (tc TypeConfig) Schema() ([]Field, error) {
	fields := make([]Field, 0, len(tc.Fields))
	names := make(map[string]bool, len(tc.Fields))
	for _, fc := range tc.Fields {
		if fc.Name == "" {
			return nil, fmt.Errorf("field: %w", ErrInvalidName)
		}
		if names[fc.Name] {
			return nil, fmt.Errorf("field %q: %w", fc.Name, ErrDuplicateName)
		}
		names[fc.Name] = true
		dt, err := ParseDataType(fc.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w: %q", fc.Name, err, fc.Type)
		}
		fields = append(fields, NewField(fc.Name, dt))
	}
	return fields, nil
}
