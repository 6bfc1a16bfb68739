package tui

import (
	"fmt"
	"time"

	"trackme/internal/analysis"
	"trackme/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ranges the dashboard cycles through with 't'
var dashboardRanges = []service.TimeRange{
	service.Range7d,
	service.Range30d,
	service.Range90d,
	service.RangeAll,
}

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService

	options       []service.MetricOption
	metricIndex   int
	rangeIndex    int
	defaultMetric string

	stats   *service.MetricStats
	loading bool
	err     error
}

// NewDashboardModel creates a new dashboard model seeded with the
// configured default metric and range.
func NewDashboardModel(qs *service.QueryService, defaultMetric, defaultRange string) DashboardModel {
	m := DashboardModel{
		queryService: qs,
		loading:      true,
	}
	for i, r := range dashboardRanges {
		if string(r) == defaultRange {
			m.rangeIndex = i
		}
	}
	m.defaultMetric = defaultMetric
	return m
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	options, err := m.queryService.MetricOptions()
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	metricIndex := m.metricIndex
	if len(m.options) == 0 {
		// First load: find the configured default metric.
		for i, opt := range options {
			if opt.Key == m.defaultMetric {
				metricIndex = i
			}
		}
	}
	if metricIndex >= len(options) {
		metricIndex = 0
	}

	stats, err := m.queryService.GetMetricStats(
		options[metricIndex].Key, dashboardRanges[m.rangeIndex], nil, time.Now())
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	return dashboardDataMsg{options: options, metricIndex: metricIndex, stats: stats}
}

type dashboardDataMsg struct {
	options     []service.MetricOption
	metricIndex int
	stats       *service.MetricStats
	err         error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.options = msg.options
			m.metricIndex = msg.metricIndex
			m.stats = msg.stats
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "m", "tab":
			if len(m.options) > 0 {
				m.metricIndex = (m.metricIndex + 1) % len(m.options)
				m.loading = true
				return m, m.loadData
			}
		case "t":
			m.rangeIndex = (m.rangeIndex + 1) % len(dashboardRanges)
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

	if m.stats == nil || m.stats.SampleCount == 0 {
		return "\n  No data for this range. Import data with 'trackme import csv <file>'."
	}

	var sections []string
	sections = append(sections, m.renderStatsCard())

	if len(m.stats.History) > 2 {
		sections = append(sections, m.renderChart())
	}

	help := statusStyle.Render("Press 'm' to switch metric, 't' to switch range, 'r' to refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStatsCard() string {
	rangeLabel := string(dashboardRanges[m.rangeIndex])
	title := cardTitleStyle.Render(fmt.Sprintf("%s (%s)", m.stats.Label, rangeLabel))

	avg := fmt.Sprintf("%.1f", m.stats.Average)
	if m.stats.Unit != "" {
		avg += " " + m.stats.Unit
	}

	lines := []string{
		RenderMetric("Average", avg, ""),
		RenderMetric("Days with data", fmt.Sprintf("%d", m.stats.SampleCount), ""),
		RenderMetric("Period trend", formatTrend(m.stats.PeriodTrend), ""),
		RenderMetric("Vs. previous", formatTrend(m.stats.CompareTrend), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(52).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render("History")

	graph := asciigraph.Plot(m.stats.History,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	var span string
	if len(m.stats.Dates) > 0 {
		span = statusStyle.Render(fmt.Sprintf("%s .. %s",
			m.stats.Dates[0].Format("Jan 02"),
			m.stats.Dates[len(m.stats.Dates)-1].Format("Jan 02")))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, span))
}

// formatTrend renders a trend result as an arrowed percentage.
func formatTrend(t analysis.TrendResult) string {
	switch t.Status {
	case analysis.TrendInsufficientData:
		return "not enough history"
	case analysis.TrendStable:
		return fmt.Sprintf("→ stable (%+.1f%%)", t.Percent)
	case analysis.TrendImproving:
		return fmt.Sprintf("↑ %+.1f%% improving", t.Percent)
	default:
		return fmt.Sprintf("↓ %+.1f%% worsening", t.Percent)
	}
}
