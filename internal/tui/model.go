// Package tui provides the BubbleTea-based theme picker.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/refstudio/reftheme/internal/prefs"
	"github.com/refstudio/reftheme/internal/theme"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Model is the theme picker model.
type Model struct {
	store  *prefs.Store
	themes []theme.Info

	list list.Model
	help help.Model
	keys KeyMap

	statusMsg string
	statusErr bool
	width     int
	height    int
	ready     bool
}

// themeItem wraps a theme for the list component.
type themeItem struct {
	info   theme.Info
	active bool
}

func (i themeItem) Title() string {
	title := i.info.Name
	if i.active {
		title = activeStyle.Render(title + " (active)")
	}
	return title
}

func (i themeItem) Description() string {
	variant := "light"
	if i.info.Dark {
		variant = "dark"
	}
	if i.info.Builtin {
		return fmt.Sprintf("built-in, %s", variant)
	}
	return fmt.Sprintf("%s, %s", i.info.Path, variant)
}

func (i themeItem) FilterValue() string {
	return i.info.Name
}

// NewModel creates a theme picker over the given preference store and
// installed themes.
func NewModel(store *prefs.Store, themes []theme.Info) Model {
	keys := DefaultKeyMap()

	items := make([]list.Item, 0, len(themes))
	selected := store.SelectedTheme()
	for _, info := range themes {
		items = append(items, themeItem{info: info, active: info.Name == selected})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Themes"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		store:  store,
		themes: themes,
		list:   l,
		help:   help.New(),
		keys:   keys,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		m.ready = true

	case tea.KeyMsg:
		// Let the list handle keys while filtering.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Apply):
			if item, ok := m.list.SelectedItem().(themeItem); ok {
				if err := m.store.SetTheme(item.info.Name); err != nil {
					m.statusMsg = fmt.Sprintf("cannot apply %s: %v", item.info.Name, err)
					m.statusErr = true
				} else {
					m.statusMsg = fmt.Sprintf("applied %s", item.info.Name)
					m.statusErr = false
					m.markActive(item.info.Name)
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.SyncOS):
			next := !m.store.ThemeSyncOS()
			if err := m.store.SetSyncOS(next); err != nil {
				m.statusMsg = fmt.Sprintf("cannot toggle OS sync: %v", err)
				m.statusErr = true
			} else {
				m.statusMsg = fmt.Sprintf("OS sync %s", onOff(next))
				m.statusErr = false
			}
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	status := ""
	if m.statusMsg != "" {
		if m.statusErr {
			status = errorStyle.Render(m.statusMsg)
		} else {
			status = statusStyle.Render(m.statusMsg)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("reftheme"),
		m.list.View(),
		status,
		m.help.View(m.keys),
	)
}

// markActive refreshes the active marker after a theme switch.
func (m *Model) markActive(name string) {
	items := make([]list.Item, 0, len(m.themes))
	for _, info := range m.themes {
		items = append(items, themeItem{info: info, active: info.Name == name})
	}
	m.list.SetItems(items)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
