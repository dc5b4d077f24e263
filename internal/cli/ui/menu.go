package ui

import (
	"fmt"

	"assetmobile/internal/auth"
	"assetmobile/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuLoader fetches a fresh menu state; it runs off the UI loop.
type MenuLoader func() (*auth.State, error)

type menuItem struct {
	entry domain.NavigationEntry
}

func (i menuItem) Title() string { return i.entry.Label }
func (i menuItem) Description() string {
	return fmt.Sprintf("%s | access: %s", i.entry.AppID, accessName(i.entry.AccessLevel))
}
func (i menuItem) FilterValue() string { return i.entry.Label + " " + i.entry.AppID }

func accessName(level domain.AccessLevel) string {
	switch level {
	case domain.AccessDisplay:
		return "read only"
	case domain.AccessFull:
		return "full"
	case domain.AccessSuper:
		return "admin"
	default:
		return fmt.Sprintf("unknown (%s)", string(level))
	}
}

type menuKeyMap struct {
	refresh key.Binding
}

func newMenuKeyMap() *menuKeyMap {
	return &menuKeyMap{
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

type menuModel struct {
	list   list.Model
	keys   *menuKeyMap
	loader MenuLoader
	navErr error
	user   string
	choice *domain.NavigationEntry
}

type menuStateMsg struct {
	state *auth.State
	err   error
}

func newMenuModel(state *auth.State, loader MenuLoader) menuModel {
	keys := newMenuKeyMap()
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Menu"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.refresh}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.refresh}
	}

	m := menuModel{list: l, keys: keys, loader: loader}
	m.apply(state, nil)
	return m
}

func (m *menuModel) apply(state *auth.State, err error) tea.Cmd {
	if err != nil {
		m.navErr = err
		return m.list.SetItems(nil)
	}
	if state == nil {
		return nil
	}
	m.navErr = state.NavigationErr
	if name := state.Profile.Name(); name != "" {
		m.user = name
		m.list.Title = "Menu: " + name
	}
	items := make([]list.Item, 0, len(state.Menu))
	for _, e := range state.Menu {
		items = append(items, menuItem{entry: e})
	}
	return m.list.SetItems(items)
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.refresh):
			if m.loader == nil {
				return m, nil
			}
			loader := m.loader
			return m, tea.Batch(
				func() tea.Msg {
					state, err := loader()
					return menuStateMsg{state: state, err: err}
				},
				m.list.NewStatusMessage(statusStyle.Render("Refreshing...")),
			)
		case msg.String() == "q" && len(m.list.Items()) == 0:
			return m, tea.Quit
		case msg.String() == "enter":
			if i, ok := m.list.SelectedItem().(menuItem); ok {
				entry := i.entry
				m.choice = &entry
				return m, tea.Quit
			}
		}
	case menuStateMsg:
		return m, m.apply(msg.state, msg.err)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m menuModel) View() string {
	if len(m.list.Items()) == 0 {
		return docStyle.Render(m.noAccessView())
	}
	return docStyle.Render(m.list.View())
}

// noAccessView is shown instead of any default menu when the server did not
// confirm entitlements.
func (m menuModel) noAccessView() string {
	lines := []string{
		headerStyle.Render("NO ACCESS"),
		" ",
		"No modules are available for your role.",
	}
	if m.navErr != nil {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("Could not load navigation: %v", m.navErr)))
	}
	lines = append(lines, " ", footerStyle.Render("r: retry • q: quit"))
	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RunMenu shows the role-based menu and returns the chosen entry, or nil
// when the user quits.
func RunMenu(state *auth.State, loader MenuLoader) (*domain.NavigationEntry, error) {
	p := tea.NewProgram(newMenuModel(state, loader), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running menu: %w", err)
	}

	if m, ok := finalModel.(menuModel); ok {
		return m.choice, nil
	}
	return nil, nil
}
