package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sideways/internal/levels"
	"github.com/vovakirdan/sideways/internal/storage"
)

// PickerModel is the Bubble Tea model for choosing a level.
type PickerModel struct {
	levels   []levels.Level
	progress map[string]storage.LevelProgress
	table    table.Model
	help     help.Model
	keys     PickerKeyMap
	width    int
	height   int
	selected *levels.Level
	quitting bool
}

// NewPickerModel creates a level picker. store may be nil.
func NewPickerModel(all []levels.Level, store *storage.Store, width, height int) PickerModel {
	m := PickerModel{
		levels:   all,
		progress: map[string]storage.LevelProgress{},
		help:     help.New(),
		keys:     DefaultPickerKeyMap(),
		width:    width,
		height:   height,
	}
	if store != nil {
		if progress, err := store.Progress(); err == nil {
			m.progress = progress
		}
	}
	m.table = m.createTable()
	return m
}

// createTable builds the level table.
func (m *PickerModel) createTable() table.Model {
	nameWidth := 24
	if m.width > 60 {
		nameWidth = min(m.width-36, 40)
	}
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: nameWidth},
		{Title: "Goals", Width: 6},
		{Title: "Best", Width: 6},
	}

	rows := make([]table.Row, len(m.levels))
	for i, l := range m.levels {
		best := "-"
		if p, ok := m.progress[l.ID]; ok {
			best = fmt.Sprint(p.BestTurns)
		}
		rows[i] = table.Row{l.ID, l.Name, fmt.Sprint(len(l.Goals)), best}
	}

	height := 10
	if m.height > 8 {
		height = m.height - 8
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if len(m.levels) > 0 {
				selected := m.levels[m.table.Cursor()]
				m.selected = &selected
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		cursor := m.table.Cursor()
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("213")).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("S I D E W A Y S"))
	b.WriteString("\n")
	if len(m.levels) == 0 {
		b.WriteString("No levels found\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the chosen level, or nil.
func (m PickerModel) Selected() *levels.Level {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}
