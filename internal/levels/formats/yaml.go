// Package formats provides the level and save file formats.
package formats

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
)

// YAMLLevel represents the YAML structure of an authored level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Map      string            `yaml:"map"`
	Legend   map[string]string `yaml:"legend,omitempty"`
	Entities []YAMLEntity      `yaml:"entities,omitempty"`
	Powerups []YAMLPowerup     `yaml:"powerups,omitempty"`
	Goals    []geom.Position   `yaml:"goals,omitempty"`
	Solution string            `yaml:"solution,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLEntity is an entity placed explicitly, in addition to the map letters.
type YAMLEntity struct {
	Identifier string            `yaml:"identifier"`
	Cell       geom.Vec          `yaml:"cell"`
	Angle      geom.Angle        `yaml:"angle"`
	Index      *int              `yaml:"index,omitempty"`
	Sides      []*model.Effect   `yaml:"sides,omitempty"`
	Properties *model.Properties `yaml:"properties,omitempty"`
}

// YAMLPowerup is a pickup; the identifier names the effect, e.g. JumpPower.
type YAMLPowerup struct {
	Identifier string     `yaml:"identifier"`
	Cell       geom.Vec   `yaml:"cell"`
	Angle      geom.Angle `yaml:"angle"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Name     string
	Tiles    map[geom.Vec]model.Tile
	Entities []model.Entity
	Powerups []model.Powerup
	Goals    []geom.Position
	Solution string
	Metadata map[string]string
}

// Properties of the entity identifiers levels may use.
var vocabulary = map[string]model.Properties{
	"Player": {Block: true, Trigger: true, Player: true},
	"Box":    {Block: true, Pushable: true},
	"Crate":  {Block: true, Trigger: true, Pushable: true},
	"Wall":   {Block: true, Trigger: true, Static: true},
}

// EntityProperties returns the default properties of an entity identifier.
func EntityProperties(identifier string) (model.Properties, error) {
	p, ok := vocabulary[identifier]
	if !ok {
		return model.Properties{}, fmt.Errorf("unknown entity identifier %q", identifier)
	}
	return p, nil
}

// Map characters that are not tiles.
const (
	mapPlayer = 'P'
	mapBox    = 'B'
	mapGoal   = 'G'
)

var mapTiles = map[rune]model.Tile{
	'.': model.TileNothing,
	' ': model.TileNothing,
	'#': model.TileBlock,
	'x': model.TileDisable,
	'~': model.TileCloud,
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return yl.ToLevel()
}

// ToLevel resolves map characters and identifiers into model values.
// Anything not in the vocabulary is an error.
func (yl YAMLLevel) ToLevel() (Level, error) {
	level := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Tiles:    make(map[geom.Vec]model.Tile),
		Solution: yl.Solution,
		Metadata: yl.Metadata,
	}
	if level.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}

	tiles := make(map[rune]model.Tile, len(mapTiles)+len(yl.Legend))
	for r, t := range mapTiles {
		tiles[r] = t
	}
	for key, name := range yl.Legend {
		runes := []rune(key)
		if len(runes) != 1 {
			return Level{}, fmt.Errorf("legend key %q must be a single character", key)
		}
		t, err := model.ParseTile(name)
		if err != nil {
			return Level{}, fmt.Errorf("legend %q: %w", key, err)
		}
		tiles[runes[0]] = t
	}

	rows := strings.Split(strings.TrimRight(yl.Map, "\n"), "\n")
	for r, row := range rows {
		y := len(rows) - 1 - r
		for x, ch := range []rune(row) {
			cell := geom.V(x, y)
			if t, ok := tiles[ch]; ok {
				if t != model.TileNothing {
					level.Tiles[cell] = t
				}
				continue
			}
			switch ch {
			case mapPlayer:
				level.Entities = append(level.Entities, newEntity("Player", geom.Position{Cell: cell}))
			case mapBox:
				level.Entities = append(level.Entities, newEntity("Box", geom.Position{Cell: cell}))
			case mapGoal:
				level.Goals = append(level.Goals, geom.Position{Cell: cell, Angle: geom.Right})
			default:
				return Level{}, fmt.Errorf("map row %d: unknown character %q", r, ch)
			}
		}
	}

	for i, ye := range yl.Entities {
		e, err := ye.toEntity()
		if err != nil {
			return Level{}, fmt.Errorf("entity %d: %w", i, err)
		}
		level.Entities = append(level.Entities, e)
	}

	for i, yp := range yl.Powerups {
		effect, err := model.ParsePowerupIdentifier(yp.Identifier)
		if err != nil {
			return Level{}, fmt.Errorf("powerup %d: %w", i, err)
		}
		level.Powerups = append(level.Powerups, model.Powerup{
			Pos:    geom.Position{Cell: yp.Cell, Angle: yp.Angle},
			Effect: effect,
		})
	}

	level.Goals = append(level.Goals, yl.Goals...)
	return level, nil
}

func (ye YAMLEntity) toEntity() (model.Entity, error) {
	props, err := EntityProperties(ye.Identifier)
	if err != nil {
		return model.Entity{}, err
	}
	if ye.Properties != nil {
		props = *ye.Properties
	}
	if len(ye.Sides) > model.SideCount {
		return model.Entity{}, fmt.Errorf("%s has %d sides, at most %d allowed", ye.Identifier, len(ye.Sides), model.SideCount)
	}

	e := model.Entity{
		Identifier: ye.Identifier,
		Properties: props,
		Pos:        geom.Position{Cell: ye.Cell, Angle: ye.Angle},
		Index:      ye.Index,
	}
	for i, effect := range ye.Sides {
		if effect != nil {
			e.Sides[i] = model.WithEffect(*effect)
		}
	}
	return e, nil
}

// newEntity builds a vocabulary entity; identifier must be known.
func newEntity(identifier string, pos geom.Position) model.Entity {
	return model.Entity{
		Identifier: identifier,
		Properties: vocabulary[identifier],
		Pos:        pos,
	}
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// NewState builds a fresh game state from the level: tiles, then entities,
// powerups and goals in file order, the first player selected.
func (l *Level) NewState() *model.GameState {
	s := model.NewGameState()
	for cell, t := range l.Tiles {
		s.SetTile(cell, t)
	}
	for _, e := range l.Entities {
		s.AddEntity(*e.Clone())
	}
	for _, p := range l.Powerups {
		s.AddPowerup(p.Pos, p.Effect)
	}
	for _, g := range l.Goals {
		s.AddGoal(g)
	}
	s.EnsureSelection()
	return s
}
