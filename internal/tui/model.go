package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/stats"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateAnalytics
	StateAddHabit
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

type HabitFormModel struct {
	Name        string
	Periodicity models.Periodicity
}

type Model struct {
	store       storage.Provider
	clock       models.Clock
	state       SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habits.Model
	statsModel  stats.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	// habitToDelete is set while StateConfirmDelete is shown
	habitToDelete *models.Habit
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(store storage.Provider, clock models.Clock) Model {
	if clock == nil {
		clock = time.Now
	}

	m := Model{
		store:       store,
		clock:       clock,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, 0, 0),
		statsModel:  stats.New(nil, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every habit and hands them to both tabs.
func (m *Model) refresh() {
	loaded, err := m.store.LoadAllHabits()
	if err != nil {
		m.status = "Failed to load habits: " + err.Error()
		return
	}
	for _, h := range loaded {
		h.SetClock(m.clock)
	}
	m.habitsModel.SetHabits(loaded)
	m.statsModel.SetHabits(loaded)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateHabits {
		keys = append(keys, m.keys.Add, m.keys.Complete, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}

	var actions []key.Binding
	if m.state == StateHabits {
		actions = []key.Binding{m.keys.Add, m.keys.Complete, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.habitsModel.Init()
}
