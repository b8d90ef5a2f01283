package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tile is a static grid cell.
type Tile int

const (
	TileNothing Tile = iota
	TileBlock
	TileDisable
	TileCloud
)

// IsTrigger returns true for tiles that activate side effects against them.
func (t Tile) IsTrigger() bool {
	return t == TileBlock || t == TileCloud
}

// IsBlocking returns true for tiles that occupy their cell.
func (t Tile) IsBlocking() bool {
	return t != TileNothing
}

// String returns the tile name as used in level files.
func (t Tile) String() string {
	switch t {
	case TileBlock:
		return "Block"
	case TileDisable:
		return "Disable"
	case TileCloud:
		return "Cloud"
	default:
		return "Nothing"
	}
}

// ParseTile maps a tile name to a Tile. Unknown names are an error.
func ParseTile(s string) (Tile, error) {
	switch strings.TrimSpace(s) {
	case "Nothing", "":
		return TileNothing, nil
	case "Block":
		return TileBlock, nil
	case "Disable":
		return TileDisable, nil
	case "Cloud":
		return TileCloud, nil
	}
	return TileNothing, fmt.Errorf("model: unknown tile %q", s)
}

// MarshalYAML writes the tile as its name.
func (t Tile) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML reads a tile name.
func (t *Tile) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseTile(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
