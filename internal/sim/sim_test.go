package sim_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
	"github.com/vovakirdan/sideways/internal/sim"
)

var playerProps = model.Properties{Block: true, Trigger: true, Player: true}

// floor places Block tiles from x0 to x1 inclusive on row y.
func floor(s *model.GameState, x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		s.SetTile(geom.V(x, y), model.TileBlock)
	}
}

func addPlayer(s *model.GameState, pos geom.Position, sides ...model.Side) model.ID {
	e := model.Entity{Identifier: "Player", Properties: playerProps, Pos: pos}
	copy(e.Sides[:], sides)
	id := s.AddEntity(e)
	s.EnsureSelection()
	return id
}

func addBox(s *model.GameState, pos geom.Position) model.ID {
	return s.AddEntity(model.Entity{
		Identifier: "Box",
		Properties: model.Properties{Block: true, Pushable: true},
		Pos:        pos,
	})
}

// sides builds a side array from effects indexed by side.
func sides(effects map[int]model.Effect) []model.Side {
	result := make([]model.Side, model.SideCount)
	for i, e := range effects {
		result[i] = model.WithEffect(e)
	}
	return result
}

func mustMove(t *testing.T, moves *model.Moves, id model.ID) model.EntityMove {
	t.Helper()
	if moves == nil {
		t.Fatalf("expected moves, got nil")
	}
	mv, ok := moves.EntityMoves[id]
	if !ok {
		t.Fatalf("entity %d did not move; moves: %v", id, moves.Sorted())
	}
	return mv
}

func TestWalkRight(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)
	mv := mustMove(t, moves, id)

	if mv.Type.Kind != model.MoveMove {
		t.Errorf("Kind = %v, expected Move", mv.Type.Kind)
	}
	if mv.UsedInput != model.InputRight {
		t.Errorf("UsedInput = %v, expected Right", mv.UsedInput)
	}
	if want := geom.P(1, 0, geom.Down); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
	if got := s.Entity(id).Pos; !got.Equal(geom.P(1, 0, geom.Down)) {
		t.Errorf("Pos = %v, expected (1,0) facing down", got)
	}
	if !s.Stable {
		t.Error("state should be stable after walking onto ground")
	}
}

func TestWalkLeftRotatesCounterClockwise(t *testing.T) {
	s := model.NewGameState()
	floor(s, -1, 0, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right))

	sim.ProcessTurn(s, model.DefaultConfig(), model.InputLeft)

	if got := s.Entity(id).Pos; !got.Equal(geom.P(-1, 0, geom.Up)) {
		t.Errorf("Pos = %v, expected (-1,0) facing up", got)
	}
}

func TestWalkNeedsGround(t *testing.T) {
	s := model.NewGameState()
	id := addPlayer(s, geom.P(0, 5, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)
	mv := mustMove(t, moves, id)

	if mv.Type.Kind != model.MoveGravity {
		t.Errorf("Kind = %v, expected Gravity", mv.Type.Kind)
	}
	if want := geom.P(0, 4, geom.Right); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
	if s.Stable {
		t.Error("falling state should not be stable")
	}
}

func TestWalkIntoWallTurnsInPlace(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	s.SetTile(geom.V(1, 0), model.TileDisable)
	id := addPlayer(s, geom.P(0, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)
	mv := mustMove(t, moves, id)

	if want := geom.P(0, 0, geom.Down); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
}

func TestSkipDoesNothingOnGround(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	addPlayer(s, geom.P(0, 0, geom.Right))

	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("expected nil moves, got %v", moves.Sorted())
	}
	if !s.Stable {
		t.Error("expected stable state")
	}
}

func TestJumpStraightUp(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectJump})...)

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip)
	mv := mustMove(t, moves, id)

	want := model.EntityMoveType{
		Kind:          model.MoveJump,
		From:          geom.Down,
		CellsTraveled: 2,
		JumpForce:     model.JumpForce,
	}
	if mv.Type != want {
		t.Errorf("Type = %v, expected %v", mv.Type, want)
	}
	if want := geom.P(0, 2, geom.Right); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
	if s.Stable {
		t.Error("a player in mid-air should not be stable")
	}
}

func TestJumpBlockedByCeiling(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	s.SetTile(geom.V(0, 2), model.TileBlock)
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectJump})...)

	mv := mustMove(t, sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip), id)

	if !mv.Type.Blocked || mv.Type.BlockedAngle != geom.Up {
		t.Errorf("Type = %v, expected blocked upwards", mv.Type)
	}
	if mv.Type.CellsTraveled != 1 {
		t.Errorf("CellsTraveled = %d, expected 1", mv.Type.CellsTraveled)
	}
	if want := geom.V(0, 1); mv.NewPos.Cell != want {
		t.Errorf("Cell = %v, expected %v", mv.NewPos.Cell, want)
	}
}

func TestJumpCurvesWithInput(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectJump})...)

	mv := mustMove(t, sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight), id)

	if want := geom.P(1, 2, geom.Down); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
	if mv.Type.CellsTraveled != 3 {
		t.Errorf("CellsTraveled = %d, expected 3", mv.Type.CellsTraveled)
	}
	if mv.UsedInput != model.InputRight {
		t.Errorf("UsedInput = %v, expected Right", mv.UsedInput)
	}
}

func TestJumpPadNeverSettles(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectJump})...)
	sim.UpdateStable(s, model.DefaultConfig())

	history, err := sim.Settle(s, model.DefaultConfig(), 10)
	if !errors.Is(err, sim.ErrUnsettled) {
		t.Fatalf("Settle error = %v, expected ErrUnsettled", err)
	}
	if len(history) != 10 {
		t.Errorf("len(history) = %d, expected 10", len(history))
	}
}

func TestEnterGoal(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right))
	goal := s.AddGoal(geom.P(0, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip)
	mv := mustMove(t, moves, id)

	if len(moves.EntityMoves) != 1 {
		t.Errorf("len(EntityMoves) = %d, expected 1", len(moves.EntityMoves))
	}
	if mv.Type != model.EnterGoalType(goal) {
		t.Errorf("Type = %v, expected EnterGoal{%d}", mv.Type, goal)
	}
	if !mv.PrevPos.Equal(mv.NewPos) {
		t.Errorf("EnterGoal should not relocate: %v -> %v", mv.PrevPos, mv.NewPos)
	}
	if s.Entity(id) != nil {
		t.Error("player should be removed")
	}
	if _, ok := s.Goals[goal]; ok {
		t.Error("goal should be removed")
	}
	if !s.Finished() {
		t.Error("level should be finished")
	}
	if s.SelectedPlayer != nil {
		t.Errorf("SelectedPlayer = %v, expected nil", *s.SelectedPlayer)
	}
}

func TestGoalNeedsMatchingAngle(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 0, -1)
	addPlayer(s, geom.P(0, 0, geom.Up))
	s.AddGoal(geom.P(0, 0, geom.Angle(-3))) // Up, denormalized

	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves == nil {
		t.Fatal("expected the goal to be entered")
	}

	s2 := model.NewGameState()
	floor(s2, 0, 0, -1)
	addPlayer(s2, geom.P(0, 0, geom.Left))
	s2.AddGoal(geom.P(0, 0, geom.Right))

	if moves := sim.ProcessTurn(s2, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("wrong orientation should not enter goal, got %v", moves.Sorted())
	}
}

func TestSelectionMovesToRemainingPlayer(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 3, -1)
	first := addPlayer(s, geom.P(0, 0, geom.Right))
	second := addPlayer(s, geom.P(3, 0, geom.Right))
	s.AddGoal(geom.P(0, 0, geom.Right))
	s.AddGoal(geom.P(3, 3, geom.Right))

	sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip)

	if s.Entity(first) != nil {
		t.Fatal("first player should have entered the goal")
	}
	if s.SelectedPlayer == nil || *s.SelectedPlayer != second {
		t.Errorf("SelectedPlayer = %v, expected %d", s.SelectedPlayer, second)
	}
	if s.Finished() {
		t.Error("one goal is left")
	}
}

func TestPushBox(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 2, -1)
	player := addPlayer(s, geom.P(0, 0, geom.Right))
	box := addBox(s, geom.P(1, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)

	pm := mustMove(t, moves, player)
	bm := mustMove(t, moves, box)
	if len(moves.EntityMoves) != 2 {
		t.Errorf("len(EntityMoves) = %d, expected 2", len(moves.EntityMoves))
	}
	if pm.Type.Kind != model.MoveMove || pm.NewPos.Cell != geom.V(1, 0) {
		t.Errorf("player move = %v to %v, expected Move to (1,0)", pm.Type, pm.NewPos)
	}
	if bm.Type.Kind != model.MovePushed || bm.NewPos.Cell != geom.V(2, 0) {
		t.Errorf("box move = %v to %v, expected Pushed to (2,0)", bm.Type, bm.NewPos)
	}
	if bm.UsedInput != model.InputSkip {
		t.Errorf("box UsedInput = %v, expected Skip", bm.UsedInput)
	}
	if bm.NewPos.Angle != geom.Right {
		t.Errorf("box angle = %v, expected unchanged", bm.NewPos.Angle)
	}
}

func TestPushBlocked(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 2, -1)
	s.SetTile(geom.V(2, 0), model.TileBlock)
	player := addPlayer(s, geom.P(0, 0, geom.Right))
	box := addBox(s, geom.P(1, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)

	pm := mustMove(t, moves, player)
	if want := geom.P(0, 0, geom.Down); !pm.NewPos.Equal(want) {
		t.Errorf("player NewPos = %v, expected %v", pm.NewPos, want)
	}
	if moves.Has(box) {
		t.Error("box should not move")
	}
	if got := s.Entity(box).Pos.Cell; got != geom.V(1, 0) {
		t.Errorf("box cell = %v, expected (1,0)", got)
	}
}

func TestPushTwoBoxesIsBlocked(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 3, -1)
	addPlayer(s, geom.P(0, 0, geom.Right))
	a := addBox(s, geom.P(1, 0, geom.Right))
	b := addBox(s, geom.P(2, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)

	if moves.Has(a) || moves.Has(b) {
		t.Errorf("boxes should not move, got %v", moves.Sorted())
	}
}

func TestPushSafety(t *testing.T) {
	tests := []struct {
		name   string
		beyond model.Tile
	}{
		{"free", model.TileNothing},
		{"block beyond", model.TileBlock},
		{"disable beyond", model.TileDisable},
		{"cloud beyond", model.TileCloud},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.NewGameState()
			floor(s, 0, 2, -1)
			s.SetTile(geom.V(2, 0), tt.beyond)
			addPlayer(s, geom.P(0, 0, geom.Right))
			box := addBox(s, geom.P(1, 0, geom.Right))

			sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)

			cell := s.Entity(box).Pos.Cell
			if s.Tile(cell).IsBlocking() {
				t.Errorf("box ended inside blocking tile at %v", cell)
			}
			for _, e := range s.EntitiesAt(cell) {
				if e.ID != box && e.Properties.Block {
					t.Errorf("box shares %v with blocking entity %d", cell, e.ID)
				}
			}
		})
	}
}

func TestStaticEntitiesNeverMove(t *testing.T) {
	s := model.NewGameState()
	wall := s.AddEntity(model.Entity{
		Identifier: "Wall",
		Properties: model.Properties{Block: true, Trigger: true, Static: true},
		Pos:        geom.P(0, 10, geom.Right),
	})

	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("expected nil moves, got %v", moves.Sorted())
	}
	if got := s.Entity(wall).Pos; !got.Equal(geom.P(0, 10, geom.Right)) {
		t.Errorf("wall moved to %v", got)
	}
}

func TestStaticWallIsGround(t *testing.T) {
	s := model.NewGameState()
	s.AddEntity(model.Entity{
		Identifier: "Wall",
		Properties: model.Properties{Block: true, Trigger: true, Static: true},
		Pos:        geom.P(0, -1, geom.Right),
	})
	addPlayer(s, geom.P(0, 0, geom.Right))

	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("expected nil moves, got %v", moves.Sorted())
	}
}

func TestSlide(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 3, -1)
	s.SetTile(geom.V(3, 0), model.TileBlock)
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectSlide})...)
	cfg := model.DefaultConfig()

	mv := mustMove(t, sim.ProcessTurn(s, cfg, model.InputRight), id)
	if mv.Type.Kind != model.MoveSlideStart {
		t.Errorf("Kind = %v, expected SlideStart", mv.Type.Kind)
	}
	if want := geom.P(1, 0, geom.Right); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v (slides keep their angle)", mv.NewPos, want)
	}
	if s.Stable {
		t.Fatal("a sliding entity should not be stable")
	}

	mv = mustMove(t, sim.ProcessTurn(s, cfg, model.InputSkip), id)
	if mv.Type.Kind != model.MoveSlideContinue {
		t.Errorf("Kind = %v, expected SlideContinue", mv.Type.Kind)
	}
	if mv.UsedInput != model.InputRight {
		t.Errorf("UsedInput = %v, expected the slide to keep going right", mv.UsedInput)
	}

	if _, err := sim.Settle(s, cfg, 10); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if got := s.Entity(id).Pos.Cell; got != geom.V(2, 0) {
		t.Errorf("Cell = %v, expected to stop at (2,0)", got)
	}
}

func TestSlideIgnoresSideSurfaces(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	s.SetTile(geom.V(-1, 0), model.TileBlock)
	// Slide on the left side touching a wall, nothing special underneath.
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{2: model.EffectSlide})...)

	mv := mustMove(t, sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight), id)
	if mv.Type.Kind != model.MoveMove {
		t.Errorf("Kind = %v, expected Move", mv.Type.Kind)
	}
}

func TestMagnetHoldsAgainstGravity(t *testing.T) {
	s := model.NewGameState()
	s.SetTile(geom.V(-1, 5), model.TileBlock)
	id := addPlayer(s, geom.P(0, 5, geom.Right), sides(map[int]model.Effect{2: model.EffectMagnet})...)

	effects := sim.ActiveEffects(s, id)
	found := false
	for _, ae := range effects {
		if ae.Effect == model.EffectMagnet && ae.Angle == geom.Left && ae.Self {
			found = true
		}
	}
	if !found {
		t.Fatalf("ActiveEffects = %v, expected a self magnet facing left", effects)
	}

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip)
	if moves != nil {
		for _, mv := range moves.EntityMoves {
			if mv.Type.Kind == model.MoveGravity {
				t.Errorf("magneted entity %d received a Gravity move", mv.EntityID)
			}
		}
	}
	if !s.Stable {
		t.Error("magneted entity should be stable")
	}
}

func TestNeighbourMagnetDisablesGravity(t *testing.T) {
	s := model.NewGameState()
	wall := model.Entity{
		Identifier: "Wall",
		Properties: model.Properties{Block: true, Trigger: true, Static: true},
		Pos:        geom.P(1, 5, geom.Right),
	}
	wall.Sides[2] = model.WithEffect(model.EffectMagnet)
	s.AddEntity(wall)
	id := addPlayer(s, geom.P(0, 5, geom.Right))

	effects := sim.ActiveEffects(s, id)
	want := []sim.ActiveEffect{{Angle: geom.Right, Effect: model.EffectDisableGravity}}
	if !reflect.DeepEqual(effects, want) {
		t.Errorf("ActiveEffects = %v, expected %v", effects, want)
	}

	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("expected nil moves, got %v", moves.Sorted())
	}
}

func TestOnlyFirstNeighbourHandsOverEffects(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	s.AddEntity(model.Entity{
		Identifier: "Marker",
		Properties: model.Properties{Static: true},
		Pos:        geom.P(1, 0, geom.Right),
	})
	wall := model.Entity{
		Identifier: "Wall",
		Properties: model.Properties{Block: true, Trigger: true, Static: true},
		Pos:        geom.P(1, 0, geom.Right),
	}
	wall.Sides[2] = model.WithEffect(model.EffectMagnet)
	s.AddEntity(wall)
	id := addPlayer(s, geom.P(0, 0, geom.Right))

	if effects := sim.ActiveEffects(s, id); len(effects) != 0 {
		t.Errorf("ActiveEffects = %v, expected none past the first neighbour", effects)
	}
}

func TestDisableTriggerSuppressesActivation(t *testing.T) {
	s := model.NewGameState()
	crate := model.Entity{
		Identifier: "Crate",
		Properties: model.Properties{Block: true, Trigger: true, Static: true},
		Pos:        geom.P(0, -1, geom.Right),
	}
	crate.Sides[1] = model.WithEffect(model.EffectDisableTrigger)
	s.AddEntity(crate)
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectJump})...)

	if sim.IsTrigger(s, geom.V(0, -1), geom.Up) {
		t.Error("a DisableTrigger side should not trigger")
	}
	if !sim.IsTrigger(s, geom.V(0, -1), geom.Left) {
		t.Error("the crate's plain sides should trigger")
	}
	if effects := sim.ActiveEffects(s, id); len(effects) != 0 {
		t.Errorf("ActiveEffects = %v, expected none", effects)
	}
}

func TestDisableTileBlocksButDoesNotTrigger(t *testing.T) {
	s := model.NewGameState()
	s.SetTile(geom.V(0, -1), model.TileDisable)
	addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectJump})...)

	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("expected no jump from a Disable tile, got %v", moves.Sorted())
	}
	if !sim.IsBlocked(s, geom.V(0, -1)) {
		t.Error("Disable tile should block")
	}
}

// magnetCorner builds a player hanging from a two-cell wall by a magnet on
// its left side, one crawl away from the wall's bottom corner.
func magnetCorner(cfg model.ContinueConfig) (*model.GameState, model.Config, model.ID) {
	s := model.NewGameState()
	s.SetTile(geom.V(0, 0), model.TileBlock)
	s.SetTile(geom.V(0, 1), model.TileBlock)
	id := addPlayer(s, geom.P(1, 0, geom.Right), sides(map[int]model.Effect{2: model.EffectMagnet})...)
	c := model.DefaultConfig()
	c.MagnetContinue = cfg
	return s, c, id
}

func TestMagnetCrawl(t *testing.T) {
	s, cfg, id := magnetCorner(model.ContinueAlways)

	mv := mustMove(t, sim.ProcessTurn(s, cfg, model.InputRight), id)

	if want := model.MagnetType(geom.Left, geom.V(0, -1)); mv.Type != want {
		t.Errorf("Type = %v, expected %v", mv.Type, want)
	}
	// The crawl rolls like a walk: Right turns the entity clockwise.
	if want := geom.P(1, -1, geom.Down); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
}

func TestMagnetCrawlOnFloorRolls(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{3: model.EffectMagnet})...)

	mv := mustMove(t, sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight), id)

	if want := model.MagnetType(geom.Down, geom.V(1, 0)); mv.Type != want {
		t.Errorf("Type = %v, expected %v", mv.Type, want)
	}
	if want := geom.P(1, 0, geom.Down); !mv.NewPos.Equal(want) {
		t.Errorf("NewPos = %v, expected %v", mv.NewPos, want)
	}
}

func TestMagnetCrawlAlongWallRollsOff(t *testing.T) {
	s := model.NewGameState()
	for y := 0; y <= 2; y++ {
		s.SetTile(geom.V(0, y), model.TileBlock)
	}
	id := addPlayer(s, geom.P(1, 1, geom.Right), sides(map[int]model.Effect{2: model.EffectMagnet})...)
	cfg := model.DefaultConfig()

	sim.ProcessTurn(s, cfg, model.InputRight)
	if e := s.Entity(id); !e.Pos.Equal(geom.P(1, 0, geom.Down)) {
		t.Fatalf("Pos = %v, expected (1,0) facing down", e.Pos)
	}

	// The magnet side now faces away from the wall, so nothing holds it.
	mv := mustMove(t, sim.ProcessTurn(s, cfg, model.InputSkip), id)
	if mv.Type.Kind != model.MoveGravity {
		t.Errorf("Kind = %v, expected Gravity", mv.Type.Kind)
	}
	if !mv.NewPos.Equal(geom.P(1, -1, geom.Down)) {
		t.Errorf("NewPos = %v, expected (1,-1) facing down", mv.NewPos)
	}
}

func TestMagnetContinue(t *testing.T) {
	tests := []struct {
		name     string
		cfg      model.ContinueConfig
		input    model.Input
		wantKind model.MoveKind
		wantPos  geom.Position
	}{
		{"always", model.ContinueAlways, model.InputSkip, model.MoveMagnetContinue, geom.P(0, -1, geom.Down)},
		{"input held", model.ContinueInput, model.InputRight, model.MoveMagnetContinue, geom.P(0, -1, geom.Down)},
		{"input released", model.ContinueInput, model.InputSkip, model.MoveGravity, geom.P(1, -2, geom.Down)},
		{"never", model.ContinueNever, model.InputSkip, model.MoveGravity, geom.P(1, -2, geom.Down)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cfg, id := magnetCorner(tt.cfg)
			sim.ProcessTurn(s, cfg, model.InputRight)

			mv := mustMove(t, sim.ProcessTurn(s, cfg, tt.input), id)
			if mv.Type.Kind != tt.wantKind {
				t.Errorf("Kind = %v, expected %v", mv.Type.Kind, tt.wantKind)
			}
			if !mv.NewPos.Equal(tt.wantPos) {
				t.Errorf("NewPos = %v, expected %v", mv.NewPos, tt.wantPos)
			}
		})
	}
}

func TestMagnetContinueEndsStable(t *testing.T) {
	s, cfg, id := magnetCorner(model.ContinueAlways)
	sim.ProcessTurn(s, cfg, model.InputRight)
	sim.ProcessTurn(s, cfg, model.InputSkip)

	if !s.Stable {
		t.Fatal("entity wrapped around the corner should be stable")
	}
	e := s.Entity(id)
	if got := e.SideAtAngle(geom.Up); !got.HasEffect() || *got.Effect != model.EffectMagnet {
		t.Errorf("magnet should face up towards the wall, sides: %v", e.Sides)
	}
}

func TestMagnetLocked(t *testing.T) {
	s := model.NewGameState()
	// Walled in on all four sides so the magnets still touch after turning.
	for _, c := range []geom.Vec{geom.V(-1, 0), geom.V(1, 0), geom.V(0, 1), geom.V(0, -1)} {
		s.SetTile(c, model.TileBlock)
	}
	id := addPlayer(s, geom.P(0, 0, geom.Right),
		sides(map[int]model.Effect{0: model.EffectMagnet, 2: model.EffectMagnet})...)

	mv := mustMove(t, sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight), id)

	if mv.Type.Kind != model.MoveMagnet || !mv.Type.MoveDir.IsZero() {
		t.Errorf("Type = %v, expected a Magnet move in place", mv.Type)
	}
	if mv.NewPos.Cell != geom.V(0, 0) {
		t.Errorf("Cell = %v, expected (0,0)", mv.NewPos.Cell)
	}
	if !mv.NewPos.Angle.Equal(geom.Down) {
		t.Errorf("Angle = %v, expected down", mv.NewPos.Angle)
	}

	// A rotation in place never continues.
	if moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputSkip); moves != nil {
		t.Errorf("expected nil moves, got %v", moves.Sorted())
	}
}

func TestPowerupPickup(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right))
	pid := s.AddPowerup(geom.P(1, 0, geom.Down), model.EffectSlide)

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)
	if moves == nil || len(moves.CollectedPowerups) != 1 {
		t.Fatalf("expected one collected powerup, got %+v", moves)
	}

	e := s.Entity(id)
	cp := moves.CollectedPowerups[0]
	if cp.Entity != id || cp.Powerup.ID != pid {
		t.Errorf("collected = %+v, expected entity %d powerup %d", cp, id, pid)
	}
	if cp.EntitySide != e.SideIndex(geom.Down) {
		t.Errorf("EntitySide = %d, expected the side facing down (%d)", cp.EntitySide, e.SideIndex(geom.Down))
	}
	if side := e.SideAtAngle(geom.Down); !side.HasEffect() || *side.Effect != model.EffectSlide {
		t.Errorf("side facing down = %v, expected Slide", side)
	}
	if len(s.Powerups) != 0 {
		t.Errorf("len(Powerups) = %d, expected 0", len(s.Powerups))
	}
}

func TestPowerupSkippedWhenSideTaken(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	// After rolling right the player faces down, so side 0 faces down.
	addPlayer(s, geom.P(0, 0, geom.Right), sides(map[int]model.Effect{0: model.EffectJump})...)
	s.AddPowerup(geom.P(1, 0, geom.Down), model.EffectSlide)

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)
	if moves != nil && len(moves.CollectedPowerups) != 0 {
		t.Errorf("CollectedPowerups = %v, expected none", moves.CollectedPowerups)
	}
	if len(s.Powerups) != 1 {
		t.Errorf("len(Powerups) = %d, expected 1", len(s.Powerups))
	}
}

func TestPrevMoveSnapshot(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 1, -1)
	id := addPlayer(s, geom.P(0, 0, geom.Right))
	cfg := model.DefaultConfig()

	sim.ProcessTurn(s, cfg, model.InputRight)
	e := s.Entity(id)
	if e.PrevMove == nil || e.PrevMove.Type.Kind != model.MoveMove {
		t.Fatalf("PrevMove = %v, expected the walk", e.PrevMove)
	}
	if !e.PrevPos.Equal(geom.P(0, 0, geom.Right)) {
		t.Errorf("PrevPos = %v, expected (0,0) facing right", e.PrevPos)
	}

	sim.ProcessTurn(s, cfg, model.InputSkip)
	if e.PrevMove != nil {
		t.Errorf("PrevMove = %v, expected cleared after an idle turn", e.PrevMove)
	}
	if !e.PrevPos.Equal(e.Pos) {
		t.Errorf("PrevPos = %v, expected %v", e.PrevPos, e.Pos)
	}
}

func TestUnselectedEntitiesGetSkip(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 5, -1)
	first := addPlayer(s, geom.P(0, 0, geom.Right))
	second := addPlayer(s, geom.P(4, 0, geom.Right))

	moves := sim.ProcessTurn(s, model.DefaultConfig(), model.InputRight)

	mustMove(t, moves, first)
	if moves.Has(second) {
		t.Error("unselected player should not move")
	}
}

// puzzle builds a state with most rules in play: a walker, a box, a slider,
// a powerup and a goal.
func puzzle() *model.GameState {
	s := model.NewGameState()
	floor(s, -2, 8, -1)
	s.SetTile(geom.V(8, 0), model.TileBlock)
	addPlayer(s, geom.P(0, 0, geom.Right))
	addBox(s, geom.P(2, 0, geom.Right))
	s.AddEntity(model.Entity{
		Identifier: "Box",
		Properties: model.Properties{Block: true, Pushable: true},
		Pos:        geom.P(5, 3, geom.Right),
	})
	s.AddPowerup(geom.P(1, 0, geom.Up), model.EffectJump)
	s.AddGoal(geom.P(6, 0, geom.Up))
	return s
}

func TestDeterminism(t *testing.T) {
	inputs := []model.Input{
		model.InputRight, model.InputSkip, model.InputRight, model.InputLeft,
		model.InputRight, model.InputRight, model.InputSkip, model.InputRight,
	}
	cfg := model.DefaultConfig()

	a, b := puzzle(), puzzle()
	for i, in := range inputs {
		ma := sim.ProcessTurn(a, cfg, in)
		mb := sim.ProcessTurn(b, cfg, in)
		if !reflect.DeepEqual(ma, mb) {
			t.Fatalf("turn %d: moves differ: %v vs %v", i, ma, mb)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("turn %d: states differ", i)
		}
	}
}

func TestStableSkipIsIdempotent(t *testing.T) {
	s := puzzle()
	cfg := model.DefaultConfig()
	if _, err := sim.Settle(s, cfg, 20); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	sim.ProcessTurn(s, cfg, model.InputRight)
	if _, err := sim.Settle(s, cfg, 20); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if !s.Stable {
		t.Fatal("expected a stable state")
	}

	before := s.Clone()
	if moves := sim.ProcessTurn(s, cfg, model.InputSkip); moves != nil {
		t.Fatalf("stable Skip produced moves: %v", moves.Sorted())
	}
	if !s.Stable {
		t.Error("state should stay stable")
	}

	// PrevPos/PrevMove are bookkeeping for the next turn; everything a
	// player can observe must be untouched.
	for id, e := range before.Entities {
		got := s.Entity(id)
		if got == nil {
			t.Fatalf("entity %d vanished", id)
		}
		if !got.Pos.Equal(e.Pos) || !reflect.DeepEqual(got.Sides, e.Sides) {
			t.Errorf("entity %d changed: %v -> %v", id, e.Pos, got.Pos)
		}
	}
	if !reflect.DeepEqual(before.Powerups, s.Powerups) || !reflect.DeepEqual(before.Goals, s.Goals) {
		t.Error("powerups or goals changed")
	}
}

func TestConservation(t *testing.T) {
	s := puzzle()
	cfg := model.DefaultConfig()
	inputs := []model.Input{
		model.InputRight, model.InputRight, model.InputRight, model.InputRight,
		model.InputRight, model.InputRight, model.InputSkip, model.InputSkip,
	}

	for i, in := range inputs {
		before := s.SortedEntityIDs()
		goals := len(s.Goals)
		moves := sim.ProcessTurn(s, cfg, in)

		removed := map[model.ID]bool{}
		if moves != nil {
			for _, mv := range moves.EntityMoves {
				if mv.Type.Kind == model.MoveEnterGoal {
					removed[mv.EntityID] = true
				}
			}
		}
		for _, id := range before {
			if (s.Entity(id) == nil) != removed[id] {
				t.Errorf("turn %d: entity %d presence does not match EnterGoal", i, id)
			}
		}
		if goals-len(s.Goals) != len(removed) {
			t.Errorf("turn %d: %d goals consumed for %d entities", i, goals-len(s.Goals), len(removed))
		}
	}
}

func TestRunSolution(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 3, -1)
	addPlayer(s, geom.P(0, 0, geom.Right))
	// Three right rolls turn the player from Right to Up.
	s.AddGoal(geom.P(3, 0, geom.Up))

	inputs, err := model.ParseInputs("RRRR")
	if err != nil {
		t.Fatalf("ParseInputs failed: %v", err)
	}
	result := sim.RunSolution(s, model.DefaultConfig(), inputs, 10)

	if !result.Finished {
		t.Fatalf("result = %+v, expected finished", result)
	}
	if result.Inputs != 3 {
		t.Errorf("Inputs = %d, expected 3", result.Inputs)
	}
	// Three walks plus the goal entry during settling.
	if result.Turns != 4 {
		t.Errorf("Turns = %d, expected 4", result.Turns)
	}
}

func TestChangePlayerSelectionRefusedWhileUnstable(t *testing.T) {
	s := model.NewGameState()
	floor(s, 0, 3, -1)
	first := addPlayer(s, geom.P(0, 5, geom.Right))
	addPlayer(s, geom.P(3, 0, geom.Right))
	cfg := model.DefaultConfig()

	sim.UpdateStable(s, cfg)
	if s.Stable {
		t.Fatal("falling player should make the state unstable")
	}
	if s.ChangePlayerSelection(cfg, 1) {
		t.Error("selection change should be refused")
	}
	if *s.SelectedPlayer != first {
		t.Errorf("SelectedPlayer = %d, expected %d", *s.SelectedPlayer, first)
	}

	cfg.AllowUnstablePlayerSelection = true
	if !s.ChangePlayerSelection(cfg, 1) {
		t.Error("selection change should be allowed by config")
	}
}
