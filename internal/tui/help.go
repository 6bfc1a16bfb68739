package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Crash cycle analysis"},
		{"3", "Experiments"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	dashSection := m.renderSection("Dashboard", []keyHelp{
		{"m / tab", "Next metric"},
		{"t", "Next time range"},
		{"r", "Refresh data"},
	})
	sections = append(sections, dashSection)

	pemSection := m.renderSection("Crash Cycles", []keyHelp{
		{"m / tab", "Next profile metric"},
		{"r", "Re-run analysis"},
	})
	sections = append(sections, pemSection)

	metricsSection := m.renderMetricsHelp()
	sections = append(sections, metricsSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"Adjusted Score", "Symptom composite discounted by step activity. Lower = better day relative to effort."},
		{"Symptom Score", "Sum of the day's logged symptom severities. Lower is better."},
		{"HRV", "Heart rate variability in ms. Higher generally means better recovery."},
		{"Crash type A (Dip)", "Short sharp crashes: under 3 days with a strong symptom spike."},
		{"Crash type B (Burnout)", "Prolonged crashes lasting 3 days or more."},
		{"Hysteresis", "HRV normalizes before symptoms do. Risky window for overexertion."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
