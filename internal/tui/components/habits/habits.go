package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit *models.Habit
}

func (i Item) Title() string {
	if i.Habit.IsBroken() {
		return "○ " + i.Habit.Name()
	}
	return "✓ " + i.Habit.Name()
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · streak %d · %s", i.Habit.Periodicity(), i.Habit.Streak(), i.Habit.Status())
}

func (i Item) FilterValue() string { return i.Habit.Name() }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []*models.Habit, width, height int) Model {
	l := list.New(items(habits), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Delete}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func items(habits []*models.Habit) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h}
	}
	return out
}

func (m *Model) SetHabits(habits []*models.Habit) {
	m.list.SetItems(items(habits))
}

// Selected returns the highlighted habit, or nil for an empty list.
func (m Model) Selected() *models.Habit {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit
	}
	return nil
}

// Filtering reports whether keystrokes are going to the filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if h := m.Selected(); h != nil {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: h.ID()} }
			}
		case key.Matches(msg, m.keys.Delete):
			if h := m.Selected(); h != nil {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID()} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
