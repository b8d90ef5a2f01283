package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/sideways/internal/model"
)

//go:embed defaults/sideways.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration, used when no file parses.
func Default() Config {
	sim := model.DefaultConfig()
	return Config{
		Sim: SimConfig{
			AllowUnstablePlayerSelection: sim.AllowUnstablePlayerSelection,
			MagnetContinue:               sim.MagnetContinue,
		},
		Play: PlayConfig{
			AutoStepMillis: 120,
			MaxSettleTurns: 64,
			LevelsDir:      "levels",
		},
		Storage: StorageConfig{
			DBPath: "~/.sideways/sideways.db",
		},
		Server: ServerConfig{
			Address:     ":2323",
			HostKeyPath: ".ssh/sideways_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
