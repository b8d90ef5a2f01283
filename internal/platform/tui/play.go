package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/history"
	"github.com/vovakirdan/sideways/internal/levels"
	"github.com/vovakirdan/sideways/internal/levels/formats"
	"github.com/vovakirdan/sideways/internal/model"
	"github.com/vovakirdan/sideways/internal/render"
	"github.com/vovakirdan/sideways/internal/sim"
	"github.com/vovakirdan/sideways/internal/storage"
)

// QuickSlot is the save slot used by the save and load keys.
const QuickSlot = "1"

// PlayOptions configures a play session.
type PlayOptions struct {
	Sim      model.Config
	AutoStep time.Duration
	Store    *storage.Store // nil disables saves and completion records
	Logger   *log.Logger
	// Standalone makes the back key quit instead of returning to the picker.
	Standalone bool
}

// mark describes how a history entry was produced.
type mark struct {
	user  bool         // a key press, as opposed to an auto-advanced turn
	input *model.Input // nil for player switches and auto-advance
}

// PlayModel is the Bubble Tea model for playing one level.
type PlayModel struct {
	level    levels.Level
	opts     PlayOptions
	state    *model.GameState
	history  *history.History
	marks    []mark // parallel to the history entries
	keys     PlayKeyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	stepGen  int
	status   string
	recorded bool
	quitting bool
	back     bool
}

// NewPlayModel creates a play session at the start of the level.
func NewPlayModel(level levels.Level, opts PlayOptions) PlayModel {
	if opts.AutoStep <= 0 {
		opts.AutoStep = 120 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := PlayModel{
		level: level,
		opts:  opts,
		keys:  DefaultPlayKeyMap(),
		help:  help.New(),
		theme: DefaultTheme(),
	}
	m.reset(level.NewState())
	return m
}

// reset starts a fresh timeline at s.
func (m *PlayModel) reset(s *model.GameState) {
	sim.UpdateStable(s, m.opts.Sim)
	m.state = s
	m.history = history.New(s)
	m.marks = []mark{{user: true}}
	m.recorded = false
}

// Init schedules auto-advance if the level starts in motion.
func (m PlayModel) Init() tea.Cmd {
	if !m.state.Stable && !m.state.Finished() {
		return stepCmd(m.opts.AutoStep, m.stepGen)
	}
	return nil
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case StepMsg:
		if msg.Gen != m.stepGen || m.state.Stable || m.state.Finished() {
			return m, nil
		}
		return m, m.play(model.InputSkip, false)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.back = true
		if m.opts.Standalone {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		return m, m.play(model.InputLeft, true)
	case key.Matches(msg, m.keys.Right):
		return m, m.play(model.InputRight, true)
	case key.Matches(msg, m.keys.Skip):
		return m, m.play(model.InputSkip, true)

	case key.Matches(msg, m.keys.NextPlayer):
		m.switchPlayer(1)
	case key.Matches(msg, m.keys.PrevPlayer):
		m.switchPlayer(-1)

	case key.Matches(msg, m.keys.Undo):
		return m, m.undo()
	case key.Matches(msg, m.keys.Redo):
		return m, m.redo()

	case key.Matches(msg, m.keys.Restart):
		m.stepGen++
		m.reset(m.level.NewState())
		m.status = "Restarted"
		return m, m.schedule()

	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Load):
		return m, m.load()
	}

	return m, nil
}

// play resolves one turn. A key press while the state is still moving is
// played instead of the pending Skip.
func (m *PlayModel) play(input model.Input, user bool) tea.Cmd {
	if m.state.Finished() {
		return nil
	}
	m.stepGen++

	moves := sim.ProcessTurn(m.state, m.opts.Sim, input)
	if moves != nil {
		in := input
		mk := mark{user: user}
		if user {
			mk.input = &in
		}
		m.record(moves, mk)
	}
	if user {
		m.status = ""
	}

	if m.state.Finished() {
		m.complete()
		return nil
	}
	return m.schedule()
}

// schedule starts auto-advance when the state is still moving.
func (m *PlayModel) schedule() tea.Cmd {
	if m.state.Stable || m.state.Finished() {
		return nil
	}
	return stepCmd(m.opts.AutoStep, m.stepGen)
}

func (m *PlayModel) record(moves *model.Moves, mk mark) {
	m.history.Record(m.state, moves)
	m.marks = append(m.marks[:m.history.Cursor()], mk)
}

func (m *PlayModel) switchPlayer(delta int) {
	if m.state.Finished() {
		return
	}
	if !m.state.ChangePlayerSelection(m.opts.Sim, delta) {
		if !m.state.Stable && !m.opts.Sim.AllowUnstablePlayerSelection {
			m.status = "Wait until everything stops moving"
		}
		return
	}
	m.record(nil, mark{user: true})
	m.status = ""
}

// undo steps back to the state before the last key press, skipping the
// auto-advanced turns that followed it.
func (m *PlayModel) undo() tea.Cmd {
	if !m.history.CanUndo() {
		m.status = "Nothing to undo"
		return nil
	}
	m.stepGen++
	for m.history.CanUndo() {
		undone := m.history.Cursor()
		state, _ := m.history.Undo()
		m.state = state
		if m.marks[undone].user {
			break
		}
	}
	m.status = ""
	return m.schedule()
}

// redo replays one key press and the auto-advanced turns that followed it.
func (m *PlayModel) redo() tea.Cmd {
	if !m.history.CanRedo() {
		m.status = "Nothing to redo"
		return nil
	}
	m.stepGen++
	state, _ := m.history.Redo()
	for m.history.CanRedo() && !m.marks[m.history.Cursor()+1].user {
		state, _ = m.history.Redo()
	}
	m.state = state
	m.status = ""
	if m.state.Finished() {
		return nil
	}
	return m.schedule()
}

func (m *PlayModel) save() {
	if m.opts.Store == nil {
		m.status = "Saving is unavailable"
		return
	}
	data, err := formats.EncodeSave(m.state)
	if err == nil {
		err = m.opts.Store.SaveSlot(m.level.ID, QuickSlot, data)
	}
	if err != nil {
		m.opts.Logger.Warn("save failed", "level", m.level.ID, "error", err)
		m.status = "Save failed"
		return
	}
	m.status = "Saved"
}

// load replaces the session with the quick slot. The loaded state starts a
// new timeline.
func (m *PlayModel) load() tea.Cmd {
	if m.opts.Store == nil {
		m.status = "Loading is unavailable"
		return nil
	}
	s, err := m.loadSlot()
	if err != nil {
		m.opts.Logger.Warn("load failed", "level", m.level.ID, "error", err)
		m.status = "Nothing to load"
		return nil
	}
	m.stepGen++
	m.reset(s)
	m.status = "Loaded"
	return m.schedule()
}

func (m *PlayModel) loadSlot() (*model.GameState, error) {
	slot, err := m.opts.Store.LoadSlot(m.level.ID, QuickSlot)
	if err != nil {
		return nil, err
	}
	save, err := formats.DecodeSave(slot.Data)
	if err != nil {
		return nil, err
	}
	return save.ToState()
}

// complete stores the finished run once.
func (m *PlayModel) complete() {
	turns := m.history.Turns()
	m.status = fmt.Sprintf("Level complete in %d turns!", turns)
	if m.recorded {
		return
	}
	m.recorded = true
	m.opts.Logger.Info("level complete", "level", m.level.ID, "turns", turns)

	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.RecordCompletion(m.level.ID, turns, m.Inputs()); err != nil {
		m.opts.Logger.Warn("cannot record completion", "level", m.level.ID, "error", err)
	}
}

// Inputs returns the keys played up to the current point of the timeline.
func (m PlayModel) Inputs() string {
	var inputs []model.Input
	for _, mk := range m.marks[1 : m.history.Cursor()+1] {
		if mk.input != nil {
			inputs = append(inputs, *mk.input)
		}
	}
	return model.FormatInputs(inputs)
}

// State returns the current game state.
func (m PlayModel) State() *model.GameState {
	return m.state
}

// Status returns the last status line.
func (m PlayModel) Status() string {
	return m.status
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the level picker.
func (m PlayModel) BackToMenu() bool {
	return m.back
}

// View renders the session.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	title := m.theme.Title.Render(m.level.Name)
	if m.level.Name == "" {
		title = m.theme.Title.Render(m.level.ID)
	}

	hud := []string{
		m.hudItem("Turns", fmt.Sprint(m.history.Turns())),
		m.hudItem("Goals", fmt.Sprint(len(m.state.Goals))),
	}
	if !m.state.Stable && !m.state.Finished() {
		hud = append(hud, m.theme.Moving.Render("moving"))
	}

	lo, hi := m.level.Bounds()
	if slo, shi := render.Bounds(m.state); len(m.state.Entities) > 0 {
		lo = geom.V(min(lo.X, slo.X), min(lo.Y, slo.Y))
		hi = geom.V(max(hi.X, shi.X), max(hi.Y, shi.Y))
	}
	board := m.theme.Board.Render(render.Board(m.state, lo, hi).Styled())

	var b strings.Builder
	b.WriteString(title + "  " + strings.Join(hud, "  "))
	b.WriteString("\n")
	b.WriteString(board)
	b.WriteString("\n")
	b.WriteString(m.sidesLine())
	b.WriteString("\n")
	switch {
	case m.state.Finished():
		b.WriteString(m.theme.Win.Render(m.status))
	case m.status != "":
		b.WriteString(m.theme.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	if m.width > 0 {
		return lipgloss.NewStyle().Width(m.width).Render(b.String())
	}
	return b.String()
}

func (m PlayModel) hudItem(label, value string) string {
	return m.theme.HUDLabel.Render(label+":") + " " + m.theme.HUDValue.Render(value)
}

// sidesLine lists the effects on the selected player's sides by the direction
// each side currently faces.
func (m PlayModel) sidesLine() string {
	e := m.state.SelectedEntity()
	if e == nil {
		return ""
	}
	arrows := map[geom.Angle]string{geom.Right: "→", geom.Up: "↑", geom.Left: "←", geom.Down: "↓"}

	parts := make([]string, 0, model.SideCount)
	for _, dir := range []geom.Angle{geom.Right, geom.Up, geom.Left, geom.Down} {
		side := e.SideAtAngle(dir)
		if !side.HasEffect() {
			parts = append(parts, m.theme.SideEmpty.Render(arrows[dir]+" -"))
			continue
		}
		effect := *side.Effect
		parts = append(parts, arrows[dir]+" "+effectStyle(effect).Render(effect.String()))
	}
	return m.theme.HUDLabel.Render("Sides:") + " " + strings.Join(parts, "  ")
}

// effectStyle renders an effect name in its board color.
func effectStyle(e model.Effect) lipgloss.Style {
	return render.StyleFor(render.EffectColor(e))
}

// RunPlay runs a standalone play session for one level.
func RunPlay(level levels.Level, opts PlayOptions) error {
	opts.Standalone = true
	p := tea.NewProgram(NewPlayModel(level, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
