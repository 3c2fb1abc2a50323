package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/habita/habita/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		m.reload()
		return m, m.waitForChange()

	case tea.KeyMsg:
		if m.onboarding {
			m.dismissOnboarding()
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

// updateSearch routes keys to the search input until enter or esc.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusLine = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.PrevDay):
		m.date = m.date.AddDate(0, 0, -1)
		m.refresh()

	case key.Matches(msg, m.keys.NextDay):
		m.date = m.date.AddDate(0, 0, 1)
		m.refresh()

	case key.Matches(msg, m.keys.Today):
		m.date = m.today()
		m.refresh()

	case key.Matches(msg, m.keys.Filter):
		m.cycleFilter()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
		}

	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()
	}

	return m, nil
}

// toggleCurrent flips the completion state of the tracker under the
// cursor. Future dates are refused.
func (m *Model) toggleCurrent() {
	if len(m.rows) == 0 {
		return
	}
	evalDate := m.date
	if m.mode == models.FilterToday {
		evalDate = m.today()
	}
	if evalDate.After(m.today()) {
		m.statusLine = "Cannot mark a future date"
		return
	}
	m.led.Toggle(m.rows[m.cursor].tracker.ID, evalDate)
	m.refresh()
}

// cycleFilter advances the filter mode and persists the choice.
func (m *Model) cycleFilter() {
	m.mode = (m.mode + 1) % (models.FilterUncompleted + 1)
	m.refresh()

	settings, err := m.store.GetSettings()
	if err != nil {
		m.statusLine = fmt.Sprintf("Filter not saved: %v", err)
		return
	}
	settings.FilterMode = m.mode
	if err := m.store.SaveSettings(settings); err != nil {
		m.statusLine = fmt.Sprintf("Filter not saved: %v", err)
	}
}

// dismissOnboarding clears the first-run hint and records that it was
// shown.
func (m *Model) dismissOnboarding() {
	m.onboarding = false
	settings, err := m.store.GetSettings()
	if err != nil {
		return
	}
	settings.OnboardingCompleted = true
	if err := m.store.SaveSettings(settings); err != nil {
		m.statusLine = fmt.Sprintf("Settings not saved: %v", err)
	}
}
