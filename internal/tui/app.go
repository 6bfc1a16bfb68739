package tui

import (
	"trackme/internal/service"
	"trackme/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenPEM
	ScreenExperiments
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard   DashboardModel
	pem         PEMModel
	experiments ExperimentsModel
	help        HelpModel

	// Services
	store        *store.Store
	queryService *service.QueryService

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(st *store.Store, queryService *service.QueryService, defaultMetric, defaultRange string) *App {
	return &App{
		screen:       ScreenDashboard,
		store:        st,
		queryService: queryService,
		dashboard:    NewDashboardModel(queryService, defaultMetric, defaultRange),
		pem:          NewPEMModel(queryService),
		experiments:  NewExperimentsModel(queryService),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.screen = ScreenDashboard
			return a, a.dashboard.Init()
		case "2":
			a.screen = ScreenPEM
			return a, a.pem.Init()
		case "3":
			a.screen = ScreenExperiments
			return a, a.experiments.Init()
		case "?":
			a.prevScreen = a.screen
			a.screen = ScreenHelp
			return a, nil
		case "esc":
			if a.screen == ScreenHelp {
				a.screen = a.prevScreen
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenPEM:
		var m tea.Model
		m, cmd = a.pem.Update(msg)
		a.pem = m.(PEMModel)
	case ScreenExperiments:
		var m tea.Model
		m, cmd = a.experiments.Update(msg)
		a.experiments = m.(ExperimentsModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenPEM:
		content = a.pem.View()
	case ScreenExperiments:
		content = a.experiments.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := statusStyle.Render("Press '?' for help, 'q' to quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Track-ME Health Analyzer")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Crash Cycles", ScreenPEM},
		{"3", "Experiments", ScreenExperiments},
	}

	nav := ""
	for i, item := range items {
		if i > 0 {
			nav += navInactiveStyle.Render("  |  ")
		}
		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	return navStyle.Render(nav)
}
