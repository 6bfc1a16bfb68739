package tui

import (
	"fmt"
	"time"

	"trackme/internal/service"
	"trackme/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ExperimentsModel is the experiments screen model
type ExperimentsModel struct {
	queryService *service.QueryService

	results []service.ExperimentWithResult
	loading bool
	err     error
}

// NewExperimentsModel creates a new experiments screen model
func NewExperimentsModel(qs *service.QueryService) ExperimentsModel {
	return ExperimentsModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the screen
func (m ExperimentsModel) Init() tea.Cmd {
	return m.loadData
}

func (m ExperimentsModel) loadData() tea.Msg {
	results, err := m.queryService.GetExperimentResults(time.Now())
	return experimentsDataMsg{results: results, err: err}
}

type experimentsDataMsg struct {
	results []service.ExperimentWithResult
	err     error
}

// Update handles messages
func (m ExperimentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case experimentsDataMsg:
		m.loading = false
		m.err = msg.err
		m.results = msg.results
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the experiments screen
func (m ExperimentsModel) View() string {
	if m.loading {
		return "\n  Loading experiments..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.results) == 0 {
		return "\n  No experiments yet. Add one with 'trackme experiment add'."
	}

	title := cardTitleStyle.Render("Experiments")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-20s  %-10s  %-10s  %8s  %8s  %8s",
		"Name", "Start", "End", "Before", "After", "Change"))

	rows := []string{header}
	for _, ewr := range m.results {
		rows = append(rows, tableRowStyle.Render(m.renderRow(ewr)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	help := statusStyle.Render("Change compares composite health score against the same-length window before the start. Press 'r' to refresh")

	return lipgloss.JoinVertical(lipgloss.Left,
		cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content)), help)
}

func (m ExperimentsModel) renderRow(ewr service.ExperimentWithResult) string {
	exp := ewr.Experiment

	end := "ongoing"
	if exp.EndDate != nil {
		end = exp.EndDate.Format(store.DateLayout)
	}

	before, after, change := "-", "-", "too few days"
	if r := ewr.Result; r != nil {
		before = fmt.Sprintf("%d", r.BaselineMean)
		after = fmt.Sprintf("%d", r.TreatmentMean)
		change = fmt.Sprintf("%+.1f%%", r.ChangePercent)
		if r.IsSignificant {
			change += " *"
		}
	}

	return fmt.Sprintf("%-20s  %-10s  %-10s  %8s  %8s  %8s",
		truncate(exp.Name, 20),
		exp.StartDate.Format(store.DateLayout),
		end, before, after, change)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
