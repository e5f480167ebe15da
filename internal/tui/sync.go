package tui

import (
	"context"
	"fmt"
	"strings"

	"tricoach/internal/service"
	"tricoach/internal/strava"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService  *service.SyncService
	stravaClient *strava.Client
	syncing      bool
	result       *service.SyncResult
	err          error
	done         bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.SyncService, client *strava.Client) SyncModel {
	return SyncModel{
		syncService:  ss,
		stravaClient: client,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if !m.syncing {
			switch msg.String() {
			case "enter", "s":
				m.syncing = true
				m.done = false
				m.err = nil
				m.result = nil
				return m, m.runSync
			}
		}
	}
	return m, nil
}

func (m SyncModel) runSync() tea.Msg {
	// No progress channel; an unread channel would block the pipeline.
	result, syncErr := m.syncService.SyncAll(context.Background(), nil)

	return SyncDoneMsg{Result: result, Err: syncErr}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Sync")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to the dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Syncing will:")
	lines = append(lines, "")
	lines = append(lines, "  1. Fetch new activities from Strava")
	lines = append(lines, "  2. Recompute the daily training load series")
	lines = append(lines, "  3. Scan for fatigue warning signs")
	lines = append(lines, "  4. Refresh race predictions")
	lines = append(lines, "")

	short, daily := m.stravaClient.RateLimitStatus()
	lines = append(lines, statusStyle.Render(fmt.Sprintf("  API budget left: %d (15min), %d (daily)", short, daily)))
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Syncing...")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Fetching activities and recomputing analysis."))
	lines = append(lines, statusStyle.Render("  This may take a moment on first sync."))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	var lines []string
	r := m.result
	lines = append(lines, "")

	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d activities synced", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new activities"))
	}

	if r.DaysComputed > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d days of training load computed", r.DaysComputed)))
	}

	if r.AlertsRaised > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d fatigue alerts raised", r.AlertsRaised)))
	}

	if r.PredictionsComputed > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d race predictions refreshed", r.PredictionsComputed)))
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}
