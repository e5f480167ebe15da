package tui

import (
	"fmt"

	"tricoach/internal/analysis"
	"tricoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        Units
	scorer       *analysis.ThresholdScorer
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units, zones analysis.AthleteZones) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        units,
		scorer:       analysis.NewThresholdScorer(zones),
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.TotalActivities == 0 {
		return "\n  No activities yet. Press 's' to sync."
	}

	var sections []string

	sections = append(sections, m.renderFormCard())

	if len(m.data.CTLHistory) > 2 {
		sections = append(sections, m.renderChart())
	}

	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render("Press 'r' to refresh, 's' to sync, '3' for fatigue, '4' for predictions")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFormCard() string {
	title := cardTitleStyle.Render("Training Load")

	if !m.data.HasMetrics {
		empty := mutedStyle.Render("No training load yet. Sync to compute it.")
		return cardStyle.Width(46).Render(lipgloss.JoinVertical(lipgloss.Left, title, empty))
	}

	ramp := fmt.Sprintf("%+.1f", m.data.RampRate)

	lines := []string{
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", m.data.Fitness), ""),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", m.data.Fatigue), ""),
		RenderMetric("Form (TSB)", fmt.Sprintf("%+.1f", m.data.Form), ""),
		RenderMetric("Ramp rate", ramp, "CTL/week"),
		RenderMetric("This week", fmt.Sprintf("%.0f", m.data.WeekTSS), "TSS"),
		"",
		mutedStyle.Render(m.data.FormDescription),
		mutedStyle.Render("as of " + m.data.AsOf),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(46).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Fitness and Fatigue - last %d days", len(m.data.CTLHistory)))

	graph := asciigraph.PlotMany(
		[][]float64{m.data.CTLHistory, m.data.ATLHistory},
		asciigraph.Height(8),
		asciigraph.Width(64),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.SkyBlue, asciigraph.Red),
	)

	legend := mutedStyle.Render("CTL (blue) vs ATL (red). Gap between them is your form.")

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, legend))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %-8s  %9s  %7s  %5s",
		"Date", "Name", "Sport", "Distance", "Time", "TSS"))

	rows := []string{header}
	for i, a := range m.data.RecentActivities {
		if i >= 5 {
			break
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %-8s  %9s  %7s  %5.0f",
			a.StartDateLocal.Format("Jan 02"),
			truncateName(a.Name, 24),
			a.Type,
			m.units.FormatDistance(a.Distance),
			formatElapsed(a.MovingTime),
			m.scorer.Score(a),
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func formatElapsed(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
