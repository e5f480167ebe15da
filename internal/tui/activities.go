package tui

import (
	"fmt"

	"tricoach/internal/service"
	"tricoach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivitiesModel is the activities list screen model
type ActivitiesModel struct {
	queryService *service.QueryService
	units        Units
	activities   []store.Activity
	cursor       int
	page         int
	hasNext      bool
	loading      bool
	err          error
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(qs *service.QueryService, units Units) ActivitiesModel {
	return ActivitiesModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadPage
}

type activitiesLoadedMsg struct {
	activities []store.Activity
	err        error
}

func (m ActivitiesModel) loadPage() tea.Msg {
	activities, err := m.queryService.ActivityPage(m.page)
	return activitiesLoadedMsg{activities: activities, err: err}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.activities = msg.activities
		// A short page means there is nothing after it
		m.hasNext = len(msg.activities) == service.ActivityPageSize
		if m.cursor >= len(m.activities) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			}
		case "pgup", "h":
			if m.page > 0 {
				m.page--
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown", "l":
			if m.hasNext {
				m.page++
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.activities) == 0 {
		if m.page > 0 {
			return "\n  No more activities. Press 'pgup' to go back."
		}
		return "\n  No activities found. Press 's' to sync."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Activities - page %d", m.page+1))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-26s  %-8s  %9s  %6s  %6s",
		"Date", "Name", "Sport", "Distance", "Pace", "HR"))
	sections = append(sections, header)

	for i, a := range m.activities {
		hr := "-"
		if a.AverageHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *a.AverageHeartrate)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-26s  %-8s  %9s  %6s  %6s",
			cursor,
			a.StartDateLocal.Format("Jan 02"),
			truncateName(a.Name, 26),
			a.Type,
			m.units.FormatDistance(a.Distance),
			m.units.FormatPace(a.MovingTime, a.Distance),
			hr,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
