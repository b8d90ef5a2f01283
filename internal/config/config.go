// Package config provides YAML-based configuration loading for sideways.
package config

import (
	"time"

	"github.com/vovakirdan/sideways/internal/model"
)

// Config contains all configuration for the game and its tools.
type Config struct {
	Sim     SimConfig     `yaml:"sim"`
	Play    PlayConfig    `yaml:"play"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// SimConfig holds the rule switches handed to the simulation.
type SimConfig struct {
	AllowUnstablePlayerSelection bool                 `yaml:"allow_unstable_player_selection"`
	MagnetContinue               model.ContinueConfig `yaml:"magnet_continue"`
}

// PlayConfig defines the interactive session parameters.
type PlayConfig struct {
	AutoStepMillis int    `yaml:"auto_step_millis"` // delay between auto-advanced turns
	MaxSettleTurns int    `yaml:"max_settle_turns"` // used when checking solutions
	LevelsDir      string `yaml:"levels_dir"`
}

// StorageConfig defines where progress is kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig defines the SSH server parameters.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// SimConfig converts the rule section for the simulation.
func (c Config) SimConfig() model.Config {
	return model.Config{
		AllowUnstablePlayerSelection: c.Sim.AllowUnstablePlayerSelection,
		MagnetContinue:               c.Sim.MagnetContinue,
	}
}

// AutoStep returns the auto-advance delay as a duration.
func (c Config) AutoStep() time.Duration {
	if c.Play.AutoStepMillis <= 0 {
		return time.Duration(Default().Play.AutoStepMillis) * time.Millisecond
	}
	return time.Duration(c.Play.AutoStepMillis) * time.Millisecond
}
