package tui

import (
	"fmt"
	"strings"
	"time"

	"tricoach/internal/analysis"
	"tricoach/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FatigueModel is the fatigue analysis screen model
type FatigueModel struct {
	queryService *service.QueryService
	zones        analysis.AthleteZones
	data         *service.FatigueData
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewFatigueModel creates a new fatigue model
func NewFatigueModel(qs *service.QueryService, zones analysis.AthleteZones, width, height int) FatigueModel {
	m := FatigueModel{
		queryService: qs,
		zones:        zones,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the fatigue screen
func (m FatigueModel) Init() tea.Cmd {
	return m.loadData
}

type fatigueLoadedMsg struct {
	data *service.FatigueData
	err  error
}

func (m FatigueModel) loadData() tea.Msg {
	data, err := m.queryService.GetFatigueData(m.zones, time.Now())
	return fatigueLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m FatigueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fatigueLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.data != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the fatigue screen
func (m FatigueModel) View() string {
	if m.loading {
		return "\n  Analyzing recent training..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m FatigueModel) renderContent() string {
	if m.data == nil {
		return "\n  No data available."
	}

	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Fatigue Analysis"))
	sections = append(sections, "")
	sections = append(sections, m.renderScore())
	sections = append(sections, m.renderIndicators())
	sections = append(sections, m.renderRecommendations())
	sections = append(sections, m.renderHistory())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m FatigueModel) renderScore() string {
	var lines []string

	bar := RenderScoreBar(float64(m.data.Score)/100.0, 30)
	lines = append(lines, fmt.Sprintf("  Fatigue score  %s  %d/100 (%s)", bar, m.data.Score, m.data.Level))

	if m.data.NeedsRecovery {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render("  Recovery week recommended"))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m FatigueModel) renderIndicators() string {
	var lines []string

	lines = append(lines, sectionHeader("Warning Signs"))

	if len(m.data.Indicators) == 0 {
		lines = append(lines, mutedStyle.Render("  No warning signs detected. Keep it up."))
		lines = append(lines, "")
		return strings.Join(lines, "\n")
	}

	for _, ind := range m.data.Indicators {
		sev := severityStyle(ind.Severity.String()).Render(fmt.Sprintf("[%s]", ind.Severity))
		lines = append(lines, fmt.Sprintf("  %s %s", sev, ind.Description))
		lines = append(lines, mutedStyle.Render("        "+ind.Recommendation))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (m FatigueModel) renderRecommendations() string {
	if len(m.data.Recommendations) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, sectionHeader("Recommendations"))

	for _, rec := range m.data.Recommendations {
		lines = append(lines, "  • "+rec)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m FatigueModel) renderHistory() string {
	var lines []string

	lines = append(lines, sectionHeader("Alert History"))

	if len(m.data.AlertHistory) == 0 {
		lines = append(lines, mutedStyle.Render("  No past alerts."))
		return strings.Join(lines, "\n")
	}

	for _, alert := range m.data.AlertHistory {
		sev := severityStyle(alert.Severity).Render(fmt.Sprintf("%-6s", alert.Severity))
		lines = append(lines, fmt.Sprintf("  %s  %s  %s", alert.DetectedDate, sev, alert.Description))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func sectionHeader(title string) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(secondaryColor)
	rule := strings.Repeat("─", 50-len(title))
	return style.Render(fmt.Sprintf("── %s %s", title, rule))
}
