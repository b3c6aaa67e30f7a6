package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/shell"
)

const (
	listWidth    = 28
	minCanvasRow = 6
)

// windowItem is a list item representing one open window.
type windowItem struct {
	w      desktop.Window
	active bool
}

func (i windowItem) Title() string {
	title := i.w.Title
	if title == "" {
		title = i.w.ID
	}
	if i.active {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " " + title
	}
	if !i.w.Visible() {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("_") + " " + title
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("·") + " " + title
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%s · %s", i.w.Kind(), i.w.State)
}

func (i windowItem) FilterValue() string { return i.w.Title }

// model is the root bubbletea model for the desktop TUI.
type model struct {
	client    *ipc.Client
	keys      keyMap
	help      help.Model
	list      list.Model
	renderers desktop.Dispatch

	windows  []desktop.Window // ascending z
	active   string
	viewport desktop.Size
	dock     []shell.DockItem
	icons    []shell.Icon
	err      string

	// Rename overlay
	renaming bool
	renameID string
	form     *huh.Form

	width  int
	height int
}

func newModel(client *ipc.Client) model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	m := model{
		client:    client,
		keys:      defaultKeyMap(),
		help:      help.New(),
		list:      l,
		renderers: contentRenderers(),
	}
	m.refresh()
	return m
}

// refresh pulls the current desktop state and reselects the active window.
func (m *model) refresh() {
	data, err := m.client.ListWindows()
	if err != nil {
		m.err = err.Error()
		return
	}
	m.windows = data.Windows
	m.active = data.Active
	m.viewport = data.Viewport

	if apps, err := m.client.ListApps(); err == nil {
		m.dock = apps.Dock
	}
	if icons, err := m.client.ListIcons(); err == nil {
		m.icons = icons.Icons
	}

	// Front-most first.
	ordered := make([]desktop.Window, len(m.windows))
	copy(ordered, m.windows)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ZIndex > ordered[j].ZIndex })

	items := make([]list.Item, 0, len(ordered))
	selected := 0
	for i, w := range ordered {
		items = append(items, windowItem{w: w, active: w.ID == m.active})
		if w.ID == m.active {
			selected = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(selected)
	}
}

func (m model) selected() (desktop.Window, bool) {
	item, ok := m.list.SelectedItem().(windowItem)
	if !ok {
		return desktop.Window{}, false
	}
	return item.w, true
}

// run applies a window command to the selected window.
func (m *model) run(cmd func(id string) (*ipc.WindowData, error)) {
	w, ok := m.selected()
	if !ok {
		return
	}
	m.do(func() error {
		_, err := cmd(w.ID)
		return err
	})
}

func (m *model) do(fn func() error) {
	if err := fn(); err != nil {
		m.err = err.Error()
	} else {
		m.err = ""
	}
	m.refresh()
}

// cycle brings the back-most visible window to the front.
func (m *model) cycle() {
	for _, w := range m.windows {
		if w.Visible() && w.ID != m.active {
			id := w.ID
			m.do(func() error {
				_, err := m.client.BringToFront(id)
				return err
			})
			return
		}
	}
}

func (m *model) launchDock(n int) {
	if n < 0 || n >= len(m.dock) {
		return
	}
	app := m.dock[n].ID
	m.do(func() error {
		_, err := m.client.LaunchApp(app)
		return err
	})
}

func (m *model) startRename() tea.Cmd {
	w, ok := m.selected()
	if !ok {
		return nil
	}
	m.renameID = w.ID
	title := w.Title

	width := m.width - listWidth - 4
	if width < 30 {
		width = 30
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Window Title").
				Description("Shown in the title bar and menu bar").
				Value(&title),
		),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)
	m.renaming = true
	return m.form.Init()
}

func (m model) updateRenaming(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.renaming = false
			m.form = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.resize(msg)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		title := strings.TrimSpace(m.form.GetString("title"))
		id := m.renameID
		m.renaming = false
		m.form = nil
		if title != "" {
			m.do(func() error {
				_, err := m.client.UpdateTitle(id, title)
				return err
			})
		}
		return m, nil
	}
	return m, cmd
}

func (m *model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.list.SetSize(listWidth, m.bodyHeight())
	m.help.Width = msg.Width
}

// bodyHeight is the space between the menu bar and the dock/help lines.
func (m model) bodyHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.renaming {
		return m.updateRenaming(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Launch):
			m.launchDock(int(msg.String()[0] - '1'))
			return m, nil
		case key.Matches(msg, m.keys.Focus):
			if w, ok := m.selected(); ok && !w.Visible() {
				m.run(m.client.RestoreWindow)
			} else {
				m.run(m.client.BringToFront)
			}
			return m, nil
		case key.Matches(msg, m.keys.Cycle):
			m.cycle()
			return m, nil
		case key.Matches(msg, m.keys.Minimize):
			m.run(m.client.MinimizeWindow)
			return m, nil
		case key.Matches(msg, m.keys.Zoom):
			m.run(m.client.ToggleMaximize)
			return m, nil
		case key.Matches(msg, m.keys.Restore):
			m.run(m.client.RestoreWindow)
			return m, nil
		case key.Matches(msg, m.keys.Close):
			m.run(m.client.CloseWindow)
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.run(m.client.NavigateBack)
			return m, nil
		case key.Matches(msg, m.keys.Forward):
			m.run(m.client.NavigateForward)
			return m, nil
		case key.Matches(msg, m.keys.Rename):
			return m, m.startRename()
		case key.Matches(msg, m.keys.Reload):
			if m.client.Local() {
				m.refresh()
				return m, nil
			}
			m.do(m.client.Reload)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

var (
	menuBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	dockActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	dockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	menuBar := m.renderMenuBar()
	dock := m.renderDock()
	helpBar := lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(m.keys))

	bodyHeight := m.height - lipgloss.Height(menuBar) - lipgloss.Height(dock) - lipgloss.Height(helpBar)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	left := lipgloss.NewStyle().Width(listWidth).Height(bodyHeight).Render(m.list.View())
	right := m.renderMain(m.width-listWidth-1, bodyHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left, menuBar, body, dock, helpBar)
}

func (m model) renderMenuBar() string {
	title := "Finder"
	for _, w := range m.windows {
		if w.ID == m.active && w.Title != "" {
			title = w.Title
		}
	}
	mode := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " daemon"
	if m.client.Local() {
		mode = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●") + " offline"
	}
	left := " folio  " + menuTitleStyle.Render(title) + "  File  View  Window"
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(mode) - 2
	if gap < 1 {
		gap = 1
	}
	return menuBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + mode)
}

func (m model) renderDock() string {
	if len(m.dock) == 0 {
		return dockStyle.Render("(empty dock)")
	}
	items := make([]string, 0, len(m.dock))
	for i, d := range m.dock {
		label := fmt.Sprintf("%d %s", i+1, d.Title)
		if d.Open {
			label += " •"
		}
		if d.Active {
			items = append(items, dockActiveStyle.Render(label))
		} else {
			items = append(items, dockStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(items, " ")...)
	if m.err != "" {
		row += "  " + errorStyle.Render(m.err)
	}
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(row)
}

func (m model) renderMain(width, height int) string {
	if width < 10 {
		width = 10
	}
	canvasH := height / 2
	if canvasH < minCanvasRow {
		canvasH = minCanvasRow
	}
	canvas := strings.Join(renderDesktop(m.windows, m.icons, m.viewport, m.active, width, canvasH), "\n")

	paneH := height - canvasH
	if paneH < 1 {
		paneH = 1
	}
	var pane string
	if m.renaming && m.form != nil {
		pane = m.form.View()
	} else {
		pane = m.renderContent(width)
	}
	pane = lipgloss.NewStyle().Width(width).Height(paneH).MaxHeight(paneH).Render(pane)

	return lipgloss.JoinVertical(lipgloss.Left, canvas, pane)
}

// renderContent mounts the selected window's content.
func (m model) renderContent(width int) string {
	w, ok := m.selected()
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("No open windows. Press 1-9 to open an app.")
	}
	header := paneTitleStyle.Render(fmt.Sprintf("%s  [%s]", w.Title, w.State))
	body, err := m.renderers.Render(w)
	if err != nil {
		body = errorStyle.Render(err.Error())
	}
	return header + "\n\n" + lipgloss.NewStyle().Width(width).Render(body)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}
