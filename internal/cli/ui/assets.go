package ui

import (
	"fmt"
	"os"
	"time"

	"assetmobile/pkg/sdk"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type AssetFetcher func() ([]sdk.Asset, error)

type assetsModel struct {
	table    table.Model
	fetch    AssetFetcher
	source   string
	assets   []sdk.Asset
	err      error
	width    int
	height   int
	interval time.Duration
}

type assetsMsg []sdk.Asset
type assetsErrMsg struct{ err error }
type assetsTickMsg time.Time

func newAssetsModel(fetch AssetFetcher, source string, interval time.Duration) assetsModel {
	columns := []table.Column{
		{Title: "ID", Width: 12},
		{Title: "Description", Width: 28},
		{Title: "Type", Width: 14},
		{Title: "Serial", Width: 16},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return assetsModel{table: t, fetch: fetch, source: source, interval: interval}
}

func (m assetsModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

func (m assetsModel) fetchCmd() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		assets, err := fetch()
		if err != nil {
			return assetsErrMsg{err: err}
		}
		return assetsMsg(assets)
	}
}

func (m assetsModel) tickCmd() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return assetsTickMsg(t)
	})
}

func (m assetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 10)
		m.table.SetHeight(msg.Height - 10)
	case assetsMsg:
		m.err = nil
		m.assets = msg
		m.updateTable()
		return m, nil
	case assetsErrMsg:
		m.err = msg.err
		return m, nil
	case assetsTickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *assetsModel) updateTable() {
	rows := make([]table.Row, 0, len(m.assets))
	for _, a := range m.assets {
		rows = append(rows, table.Row{a.ID, a.Description, a.Type, a.SerialNumber, a.Status})
	}
	m.table.SetRows(rows)
}

func (m assetsModel) View() string {
	title := headerStyle.Render("ASSETS")
	info := subHeaderStyle.Render(fmt.Sprintf("Server: %s  |  Assets: %d", m.source, len(m.assets)))

	body := m.table.View()
	if m.err != nil {
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + body
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		baseStyle.Render(lipgloss.JoinVertical(lipgloss.Center, title, info)),
		baseStyle.Render(body),
		footerStyle.Render("↑/↓: navigate • r: refresh • q: quit"),
	)
}

func RunAssetTable(fetch AssetFetcher, source string, interval time.Duration) error {
	p := tea.NewProgram(newAssetsModel(fetch, source, interval), tea.WithAltScreen(), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}
