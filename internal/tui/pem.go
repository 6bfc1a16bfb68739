package tui

import (
	"fmt"
	"strings"
	"time"

	"trackme/internal/analysis"
	"trackme/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// profileMetrics are the z-score profiles the PEM screen can chart.
var profileMetrics = []struct {
	key   string
	label string
}{
	{analysis.MetricComposite, "Symptoms"},
	{analysis.MetricExertion, "Exertion"},
	{analysis.MetricHRV, "HRV"},
	{analysis.MetricSteps, "Steps"},
}

// PEMModel is the crash-cycle analysis screen model
type PEMModel struct {
	queryService *service.QueryService

	result      *analysis.CycleAnalysis
	metricIndex int
	loading     bool
	err         error
}

// NewPEMModel creates a new crash-cycle screen model
func NewPEMModel(qs *service.QueryService) PEMModel {
	return PEMModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the screen
func (m PEMModel) Init() tea.Cmd {
	return m.loadData
}

func (m PEMModel) loadData() tea.Msg {
	result, err := m.queryService.GetCycleAnalysis(service.RangeAll, nil, time.Now())
	return pemDataMsg{result: result, err: err}
}

type pemDataMsg struct {
	result *analysis.CycleAnalysis
	err    error
}

// Update handles messages
func (m PEMModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pemDataMsg:
		m.loading = false
		m.err = msg.err
		m.result = msg.result
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "m", "tab":
			m.metricIndex = (m.metricIndex + 1) % len(profileMetrics)
		}
	}
	return m, nil
}

// View renders the crash-cycle screen
func (m PEMModel) View() string {
	if m.loading {
		return "\n  Analyzing crash cycles..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.result == nil || m.result.NoCrashes {
		return successStyle.Render("\n  No crash episodes detected. Log crash days as a custom 'Crash' metric to enable cycle analysis.")
	}

	var sections []string
	sections = append(sections, m.renderSummaryCard())
	sections = append(sections, m.renderProfileChart())

	if findings := m.renderDeltaFindings(); findings != "" {
		sections = append(sections, findings)
	}

	help := statusStyle.Render("Press 'm' to switch profile metric, 'r' to refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PEMModel) renderSummaryCard() string {
	r := m.result
	title := cardTitleStyle.Render("Crash Cycle Summary")

	trigger := "none detected"
	if r.PreCrash.DelayedTriggerDetected {
		trigger = fmt.Sprintf("acute spike %d days before onset", -r.PreCrash.TriggerLag)
	} else if r.PreCrash.CumulativeLoadDetected {
		trigger = "cumulative load build-up"
	}

	recovery := fmt.Sprintf("%d days", r.Recovery.AvgRecoveryDays)
	if r.Recovery.HysteresisDetected {
		recovery += warningStyle.Render("  (HRV recovers first: pacing risk)")
	}

	lines := []string{
		RenderMetric("Episodes", fmt.Sprintf("%d (avg %.1f days)", r.EpisodeCount, r.AvgEpisodeLen), ""),
		RenderMetric("Crash type", r.Crash.Type, ""),
		RenderMetric("Avg duration", fmt.Sprintf("%.1f days", r.Crash.AvgDuration), ""),
		RenderMetric("Trigger pattern", trigger, ""),
		RenderMetric("Symptom recovery", recovery, ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(72).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m PEMModel) renderProfileChart() string {
	metric := profileMetrics[m.metricIndex]
	title := cardTitleStyle.Render(fmt.Sprintf("%s z-score, day -7 to +14 around crash onset", metric.label))

	series := make([]float64, 0, len(m.result.Profile))
	for _, point := range m.result.Profile {
		series = append(series, point.Metrics[metric.key].Mean)
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(2),
	)

	axis := statusStyle.Render("-7        onset        +7              +14")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, axis))
}

func (m PEMModel) renderDeltaFindings() string {
	r := m.result
	if len(r.TriggerFindings)+len(r.DuringFindings)+len(r.RecoveryFindings) == 0 {
		return ""
	}

	title := cardTitleStyle.Render("Shifts vs. Baseline")
	var lines []string

	appendGroup := func(label string, findings []analysis.DeltaFinding) {
		if len(findings) == 0 {
			return
		}
		lines = append(lines, helpKeyStyle.Render(label))
		for _, f := range findings {
			lag := ""
			if f.Lag > 0 {
				lag = fmt.Sprintf(" (%dd prior)", f.Lag)
			}
			lines = append(lines, fmt.Sprintf("  %-20s %s%s",
				metricDisplayName(f.Metric), formatDelta(f.Delta), lag))
		}
	}

	appendGroup("Triggers", r.TriggerFindings)
	appendGroup("During crash", r.DuringFindings)
	appendGroup("Recovery", r.RecoveryFindings)

	content := strings.Join(lines, "\n")
	return cardStyle.Width(52).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func formatDelta(delta float64) string {
	s := fmt.Sprintf("%+.0f%%", delta)
	if delta > 0 {
		return trendUpStyle.Render(s)
	}
	return trendDownStyle.Render(s)
}

func metricDisplayName(key string) string {
	switch key {
	case analysis.MetricSteps:
		return "Steps"
	case analysis.MetricExertion:
		return "Exertion"
	case analysis.MetricHRV:
		return "HRV"
	case analysis.MetricRestingHR:
		return "Resting HR"
	}
	return key
}
