package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Effect is the closed set of behaviours a side can carry.
type Effect int

const (
	EffectJump Effect = iota
	EffectSlide
	EffectMagnet
	EffectDisableGravity
	EffectDisableTrigger
)

// AllEffects lists every effect in declaration order.
var AllEffects = []Effect{
	EffectJump,
	EffectSlide,
	EffectMagnet,
	EffectDisableGravity,
	EffectDisableTrigger,
}

// String returns the effect name as used in level files.
func (e Effect) String() string {
	switch e {
	case EffectJump:
		return "Jump"
	case EffectSlide:
		return "Slide"
	case EffectMagnet:
		return "Magnet"
	case EffectDisableGravity:
		return "DisableGravity"
	case EffectDisableTrigger:
		return "DisableTrigger"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// ActivateSelf reports whether the effect fires for the entity carrying it
// when its side touches a trigger.
func (e Effect) ActivateSelf() bool {
	return true
}

// ActivateOther returns the effect handed to the entity on the other side of
// the carrying side. Magnets hold their neighbour up instead of moving it.
func (e Effect) ActivateOther() (Effect, bool) {
	switch e {
	case EffectJump, EffectSlide:
		return e, true
	case EffectMagnet:
		return EffectDisableGravity, true
	default:
		return e, false
	}
}

// AllowTrigger reports whether a side carrying this effect still counts as a
// trigger for neighbours.
func (e Effect) AllowTrigger() bool {
	return e != EffectDisableTrigger
}

// ParseEffect maps an effect name to an Effect. Unknown names are an error.
func ParseEffect(s string) (Effect, error) {
	name := strings.TrimSpace(s)
	for _, e := range AllEffects {
		if e.String() == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("model: unknown effect %q", s)
}

// PowerupSuffix terminates every powerup identifier, e.g. "JumpPower".
const PowerupSuffix = "Power"

// ParsePowerupIdentifier resolves a powerup identifier to its effect.
func ParsePowerupIdentifier(identifier string) (Effect, error) {
	name, ok := strings.CutSuffix(identifier, PowerupSuffix)
	if !ok {
		return 0, fmt.Errorf("model: powerup identifier %q must end in %q", identifier, PowerupSuffix)
	}
	return ParseEffect(name)
}

// MarshalYAML writes the effect as its name.
func (e Effect) MarshalYAML() (any, error) {
	return e.String(), nil
}

// UnmarshalYAML reads an effect name.
func (e *Effect) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseEffect(node.Value)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
