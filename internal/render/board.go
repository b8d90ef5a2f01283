package render

import (
	"unicode"
	"unicode/utf8"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
)

var (
	playerGlyphs = [4]rune{'▶', '▲', '◀', '▼'}
	goalGlyphs   = [4]rune{'→', '↑', '←', '↓'}
)

// effectColors gives every effect its own color on powerups and side lists.
var effectColors = map[model.Effect]Color{
	model.EffectJump:           ColorCyan,
	model.EffectSlide:          ColorBlue,
	model.EffectMagnet:         ColorRed,
	model.EffectDisableGravity: ColorMagenta,
	model.EffectDisableTrigger: ColorGray,
}

// EffectColor returns the color used for an effect.
func EffectColor(e model.Effect) Color {
	return effectColors[e]
}

// TileGlyph returns the glyph and color of a tile.
func TileGlyph(t model.Tile) (rune, Color) {
	switch t {
	case model.TileBlock:
		return '█', ColorWhite
	case model.TileDisable:
		return '▒', ColorGray
	case model.TileCloud:
		return '░', ColorCyan
	default:
		return ' ', ColorDefault
	}
}

// EntityGlyph returns the glyph and color of an entity.
func EntityGlyph(e *model.Entity, selected bool) (rune, Color) {
	switch {
	case e.Properties.Player:
		color := ColorYellow
		if selected {
			color = ColorBrightYellow
		}
		return playerGlyphs[e.Pos.Angle.Normalize().Int()], color
	case e.Properties.Static:
		if t, err := model.ParseTile(e.Identifier); err == nil && t != model.TileNothing {
			return TileGlyph(t)
		}
		return '▓', ColorWhite
	case e.Identifier == "Crate":
		return '▣', ColorOrange
	case e.Identifier == "Box":
		return '□', ColorOrange
	}
	r, _ := utf8.DecodeRuneInString(e.Identifier)
	if r == utf8.RuneError {
		r = '?'
	}
	return unicode.ToUpper(r), ColorOrange
}

// PowerupGlyph returns the glyph and color of a powerup: the lowercase
// initial of its effect.
func PowerupGlyph(p *model.Powerup) (rune, Color) {
	var r rune
	switch p.Effect {
	case model.EffectDisableGravity:
		r = 'g'
	case model.EffectDisableTrigger:
		r = 't'
	default:
		r, _ = utf8.DecodeRuneInString(p.Effect.String())
		r = unicode.ToLower(r)
	}
	return r, EffectColor(p.Effect)
}

// GoalGlyph returns the glyph and color of a goal.
func GoalGlyph(g *model.Goal) (rune, Color) {
	return goalGlyphs[g.Pos.Angle.Normalize().Int()], ColorBrightGreen
}

// Bounds returns the smallest and largest occupied cell of a state.
func Bounds(s *model.GameState) (lo, hi geom.Vec) {
	first := true
	add := func(c geom.Vec) {
		if first {
			lo, hi = c, c
			first = false
			return
		}
		lo = geom.V(min(lo.X, c.X), min(lo.Y, c.Y))
		hi = geom.V(max(hi.X, c.X), max(hi.Y, c.Y))
	}
	for c := range s.Tiles {
		add(c)
	}
	for _, e := range s.Entities {
		add(e.Pos.Cell)
	}
	for _, p := range s.Powerups {
		add(p.Pos.Cell)
	}
	for _, g := range s.Goals {
		add(g.Pos.Cell)
	}
	return lo, hi
}

// Board draws the cells lo..hi of a state, y pointing up, so hi.Y is the
// first row. Entities are drawn over powerups, powerups over goals and goals
// over tiles. Anything outside the bounds is clipped.
func Board(s *model.GameState, lo, hi geom.Vec) *Canvas {
	c := NewCanvas(hi.X-lo.X+1, hi.Y-lo.Y+1)
	put := func(cell geom.Vec, r rune, color Color) {
		c.Set(cell.X-lo.X, hi.Y-cell.Y, r, color)
	}

	for cell, t := range s.Tiles {
		r, color := TileGlyph(t)
		put(cell, r, color)
	}
	for _, id := range s.SortedGoalIDs() {
		g := s.Goals[id]
		r, color := GoalGlyph(g)
		put(g.Pos.Cell, r, color)
	}
	for _, id := range s.SortedPowerupIDs() {
		p := s.Powerups[id]
		r, color := PowerupGlyph(p)
		put(p.Pos.Cell, r, color)
	}
	// Static entities first so a movable entity sharing their cell stays visible.
	for _, static := range []bool{true, false} {
		for _, id := range s.SortedEntityIDs() {
			e := s.Entities[id]
			if e.Properties.Static != static {
				continue
			}
			r, color := EntityGlyph(e, s.IsSelected(id))
			put(e.Pos.Cell, r, color)
		}
	}
	return c
}
