package tui

import (
	"fmt"
	"strings"

	"tricoach/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PredictionsModel is the race predictions screen model
type PredictionsModel struct {
	queryService *service.QueryService
	data         *service.PredictionsData
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewPredictionsModel creates a new predictions model
func NewPredictionsModel(qs *service.QueryService, width, height int) PredictionsModel {
	m := PredictionsModel{
		queryService: qs,
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

// Init initializes the predictions screen
func (m PredictionsModel) Init() tea.Cmd {
	return m.loadPredictions
}

type predictionsLoadedMsg struct {
	data *service.PredictionsData
	err  error
}

func (m PredictionsModel) loadPredictions() tea.Msg {
	data, err := m.queryService.GetPredictionsData()
	return predictionsLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m PredictionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case predictionsLoadedMsg:
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
			return m, m.loadPredictions
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the predictions screen
func (m PredictionsModel) View() string {
	if m.loading {
		return "\n  Loading race predictions..."
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

func (m PredictionsModel) renderContent() string {
	if m.data == nil || !m.data.HasPredictions {
		return m.renderEmptyState()
	}

	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Race Time Predictions"))
	sections = append(sections, "")
	sections = append(sections, m.renderPredictionsTable())
	sections = append(sections, m.renderGoals())
	sections = append(sections, m.renderAboutSection())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PredictionsModel) renderEmptyState() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, cardTitleStyle.Render("Race Time Predictions"))
	lines = append(lines, "")
	lines = append(lines, mutedStyle.Render("  No race predictions available yet."))
	lines = append(lines, "")
	lines = append(lines, mutedStyle.Render("  Predictions need at least one race-distance run from the last year."))
	lines = append(lines, mutedStyle.Render("  Run a sync to analyze your activities and generate predictions."))
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m PredictionsModel) renderPredictionsTable() string {
	var lines []string

	lines = append(lines, sectionHeader("Predicted Times"))

	header := fmt.Sprintf("  %-14s  %10s  %9s  %10s", "Distance", "Predicted", "Pace", "Confidence")
	lines = append(lines, tableHeaderStyle.Render(header))

	for _, pred := range m.data.Predictions {
		lines = append(lines, m.formatPredictionRow(pred))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m PredictionsModel) formatPredictionRow(pred service.PredictionDisplay) string {
	confStyle := confidenceStyle(pred.Confidence)

	return fmt.Sprintf("  %-14s  %10s  %9s  %s",
		pred.Label,
		pred.PredictedTime,
		pred.Pace,
		confStyle.Render(fmt.Sprintf("%d%%", pred.Confidence)),
	)
}

func (m PredictionsModel) renderGoals() string {
	var rows []string

	for _, pred := range m.data.Predictions {
		if pred.TargetTime == "" {
			continue
		}

		chanceStyle := confidenceStyle(pred.SuccessChance)
		rows = append(rows, fmt.Sprintf("  %-14s  goal %s  %s chance  %s",
			pred.Label,
			pred.TargetTime,
			chanceStyle.Render(fmt.Sprintf("%d%%", pred.SuccessChance)),
			mutedStyle.Render(pred.SourceLabel),
		))
	}

	if len(rows) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, sectionHeader("Goal Races"))
	lines = append(lines, rows...)
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m PredictionsModel) renderAboutSection() string {
	var lines []string

	lines = append(lines, sectionHeader("About These Predictions"))
	lines = append(lines, mutedStyle.Render("  Times are projected from your best recent race-distance efforts"))
	lines = append(lines, mutedStyle.Render("  using Riegel's endurance model, adjusted for current form."))
	lines = append(lines, mutedStyle.Render("  Confidence drops as the projection stretches further from the"))
	lines = append(lines, mutedStyle.Render("  source distance (a marathon projected from a 5K is a guess)."))
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func confidenceStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 80:
		return successStyle
	case pct >= 60:
		return warningStyle
	default:
		return errorStyle
	}
}
