package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

// chromeHeight is the space taken by the tabs, padding and help line.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-chromeHeight)
		m.statsModel.SetSize(msg.Width-4, msg.Height-chromeHeight)
		return m, nil

	case tea.KeyMsg:
		if m.state == StateHabits && m.habitsModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.state = (m.state + tabCount - 1) % tabCount
			return m, nil
		}

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{Periodicity: models.Daily}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habits.CompleteHabitMsg:
		m.completeHabit(msg.ID)
		return m, nil

	case habits.DeleteHabitMsg:
		if h := m.habitsModel.Selected(); h != nil && h.ID() == msg.ID {
			m.habitToDelete = h
			m.state = StateConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.state == StateHabits {
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.addHabit(); err != nil {
			// Stay in the form so the user can retry or cancel with esc
			m.status = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = StateHabits
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.DeleteHabit(m.habitToDelete.ID()); err != nil {
			m.status = fmt.Sprintf("Failed to delete %q: %v", m.habitToDelete.Name(), err)
		} else {
			m.status = fmt.Sprintf("Deleted %q", m.habitToDelete.Name())
			m.refresh()
		}
		m.habitToDelete = nil
		m.state = StateHabits
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDelete = nil
		m.state = StateHabits
	}
	return m, nil
}

// addHabit saves the habit described by the add form.
func (m *Model) addHabit() error {
	name := strings.TrimSpace(m.habitForm.Name)
	if name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	h, err := models.NewHabitWithClock(name, m.habitForm.Periodicity, m.clock)
	if err != nil {
		return err
	}
	if err := m.store.SaveHabit(h); err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}

	m.status = fmt.Sprintf("Created %q", name)
	m.refresh()
	return nil
}

func (m *Model) completeHabit(id string) {
	h := m.habitsModel.Selected()
	if h == nil || h.ID() != id {
		return
	}

	h.Complete()
	if err := m.store.SaveHabit(h); err != nil {
		m.status = fmt.Sprintf("Failed to complete %q: %v", h.Name(), err)
		return
	}
	m.status = fmt.Sprintf("Completed %q (streak %d)", h.Name(), h.Streak())
	m.refresh()
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Periodicity]().
				Title("Periodicity").
				Options(
					huh.NewOption("Daily", models.Daily),
					huh.NewOption("Weekly", models.Weekly),
				).
				Value(&fm.Periodicity),
		),
	).WithTheme(huh.ThemeDracula())
}
