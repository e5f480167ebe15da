package tui

import (
	"tricoach/internal/analysis"
	"tricoach/internal/service"
	"tricoach/internal/strava"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenFatigue
	ScreenPredictions
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard   DashboardModel
	activities  ActivitiesModel
	fatigue     FatigueModel
	predictions PredictionsModel
	syncScreen  SyncModel
	help        HelpModel

	// Services
	queryService *service.QueryService
	syncService  *service.SyncService
	stravaClient *strava.Client
	zones        analysis.AthleteZones
	units        Units

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(stravaClient *strava.Client, syncService *service.SyncService, queryService *service.QueryService, zones analysis.AthleteZones, units Units) *App {
	return &App{
		screen:       ScreenDashboard,
		queryService: queryService,
		syncService:  syncService,
		stravaClient: stravaClient,
		zones:        zones,
		units:        units,
		dashboard:    NewDashboardModel(queryService, units, zones),
		activities:   NewActivitiesModel(queryService, units),
		fatigue:      NewFatigueModel(queryService, zones, 0, 0),
		predictions:  NewPredictionsModel(queryService, 0, 0),
		syncScreen:   NewSyncModel(syncService, stravaClient),
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
		// Global keybindings, suspended while a sync is running
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.queryService, a.units, a.zones)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "3":
				a.screen = ScreenFatigue
				a.fatigue = NewFatigueModel(a.queryService, a.zones, a.width, a.height)
				return a, a.fatigue.Init()
			case "4":
				a.screen = ScreenPredictions
				a.predictions = NewPredictionsModel(a.queryService, a.width, a.height)
				return a, a.predictions.Init()
			case "5", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to the sync screen when already there
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
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		// Back to the dashboard with fresh data after a sync
		a.screen = ScreenDashboard
		a.dashboard = NewDashboardModel(a.queryService, a.units, a.zones)
		return a, a.dashboard.Init()
	}

	// Delegate to the current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenFatigue:
		var m tea.Model
		m, cmd = a.fatigue.Update(msg)
		a.fatigue = m.(FatigueModel)
	case ScreenPredictions:
		var m tea.Model
		m, cmd = a.predictions.Update(msg)
		a.predictions = m.(PredictionsModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
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
	case ScreenActivities:
		content = a.activities.View()
	case ScreenFatigue:
		content = a.fatigue.View()
	case ScreenPredictions:
		content = a.predictions.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("TriCoach Training Load Analyzer")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activities", ScreenActivities},
		{"3", "Fatigue", ScreenFatigue},
		{"4", "Predictions", ScreenPredictions},
		{"5", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
