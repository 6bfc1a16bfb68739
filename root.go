package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"trackme/internal/config"
	"trackme/internal/service"
	"trackme/internal/store"
	"trackme/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "trackme",
	Short: "Personal health time-series analyzer",
	Long: `Track-ME analyzes a personal health diary: symptom scores, HRV,
resting heart rate, exertion, and step counts.

Run with no arguments to open the interactive dashboard.

QUICK START:

  $ trackme import csv export.csv       # Import a long-format tracker CSV
  $ trackme import health export.xml    # Merge Apple Health step counts
  $ trackme                             # Open the dashboard
  $ trackme stats hrv --range 30d       # Print stats for one metric
  $ trackme cycles                      # Analyze crash cycles
  $ trackme experiment add "Magnesium" --start 2026-08-01

Data lives in ~/.trackme/data.db; preferences in ~/.trackme/config.json.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		querySvc := service.NewQueryService(st, cfg.Subject.ID)

		app := tui.NewApp(st, querySvc, cfg.Display.DefaultMetric, cfg.Display.DefaultRange)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config and opens the database. The caller owns the
// returned store.
func setup() (*config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, nil, fmt.Errorf("creating example config: %w", err)
		}
		cfg, err = config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		return nil, nil, fmt.Errorf("invalid config (edit %s/config.json): %w", configDir, err)
	}

	st, err := store.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, st, nil
}
