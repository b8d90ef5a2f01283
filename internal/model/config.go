package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContinueConfig controls whether a magnet move carries on around a corner.
type ContinueConfig int

const (
	// ContinueInput continues only while the same input is given.
	ContinueInput ContinueConfig = iota
	// ContinueAlways continues regardless of input.
	ContinueAlways
	// ContinueNever disables continuation.
	ContinueNever
)

// String returns the lowercase config name.
func (c ContinueConfig) String() string {
	switch c {
	case ContinueAlways:
		return "always"
	case ContinueNever:
		return "never"
	default:
		return "input"
	}
}

// ParseContinueConfig maps "input", "always" or "never" to a ContinueConfig.
func ParseContinueConfig(s string) (ContinueConfig, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input":
		return ContinueInput, nil
	case "always":
		return ContinueAlways, nil
	case "never":
		return ContinueNever, nil
	}
	return ContinueInput, fmt.Errorf("model: unknown magnet continue mode %q", s)
}

// MarshalYAML writes the config name.
func (c ContinueConfig) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML reads a config name.
func (c *ContinueConfig) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseContinueConfig(node.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Config holds the rule switches consulted by the simulation.
type Config struct {
	AllowUnstablePlayerSelection bool
	MagnetContinue               ContinueConfig
}

// DefaultConfig returns the rules used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		AllowUnstablePlayerSelection: false,
		MagnetContinue:               ContinueAlways,
	}
}
