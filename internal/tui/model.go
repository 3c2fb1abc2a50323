// Package tui renders the interactive day view: trackers grouped by
// category for a picked date, with toggling, date paging, filtering, and
// search.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/engine"
	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/ledger"
	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/storage"
)

// storeChangedMsg arrives when another collaborator mutated the store.
type storeChangedMsg struct{}

// row is one selectable line in the flattened day view.
type row struct {
	categoryID string
	tracker    models.Tracker
}

type Model struct {
	store  storage.Provider
	eng    *engine.Engine
	led    *ledger.Ledger
	bus    *events.Bus
	change chan struct{}

	keys   KeyMap
	help   help.Model
	search textinput.Model

	loc        *time.Location
	date       time.Time
	mode       models.FilterMode
	searching  bool
	categories []models.Category
	visible    []models.Category
	rows       []row
	cursor     int

	onboarding bool
	statusLine string
	quitting   bool
	width      int
	height     int
}

func NewModel(store storage.Provider, bus *events.Bus) Model {
	led := ledger.New(store, bus)

	settings, err := store.GetSettings()
	if err != nil {
		settings = models.Settings{Timezone: constants.DefaultTimezone}
	}

	loc := time.Local
	if settings.Timezone != "" && settings.Timezone != "Local" {
		if l, err := time.LoadLocation(settings.Timezone); err == nil {
			loc = l
		}
	}

	// The engine's clock runs in the configured zone so Today mode
	// evaluates the same calendar day as day keys and the future-date
	// guard.
	eng := engine.NewWithNow(func() time.Time { return time.Now().In(loc) })

	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := Model{
		store:      store,
		eng:        eng,
		led:        led,
		bus:        bus,
		change:     make(chan struct{}, 1),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		search:     search,
		loc:        loc,
		date:       midnight(time.Now().In(loc), loc),
		mode:       settings.FilterMode,
		onboarding: !settings.OnboardingCompleted,
	}

	// Coalesce change notifications into a single pending wake-up; the
	// Update loop re-arms the listener after each refresh.
	bus.Subscribe(func(e events.Event) {
		if e.Kind == events.RecordsChanged {
			// The ledger already reflects its own toggles.
			return
		}
		select {
		case m.change <- struct{}{}:
		default:
		}
	})

	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.change
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

// reload pulls the category set from the store and recomputes the view.
func (m *Model) reload() {
	cats, err := m.store.GetAllCategories()
	if err != nil {
		m.statusLine = err.Error()
		return
	}
	m.categories = cats
	m.refresh()
}

// refresh recomputes the visible set for the current date, filter, and
// search, and keeps the cursor on a valid row.
func (m *Model) refresh() {
	m.visible = m.eng.VisibleCategories(m.categories, m.date, m.mode, m.search.Value(), m.led.IsCompleted)
	m.rows = m.rows[:0]
	for _, cat := range m.visible {
		for _, t := range cat.Trackers {
			m.rows = append(m.rows, row{categoryID: cat.ID, tracker: t})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) today() time.Time {
	return midnight(time.Now().In(m.loc), m.loc)
}

func midnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
