package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trackme/internal/analysis"
	"trackme/internal/service"
)

var cyclesRange string

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Analyze crash cycles",
	Long: `Superpose the days around every crash onset and report the shared
pattern: trigger behavior before crashes, crash type and duration, and
how long recovery takes. Crash days are custom metrics named "Crash"
with value 1.

The range selects which crash episodes to include; the surrounding days
always come from the full history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		rng, ok := service.ParseTimeRange(cyclesRange)
		if !ok {
			return fmt.Errorf("invalid range %q (use 7d, 30d, 90d, or all)", cyclesRange)
		}

		querySvc := service.NewQueryService(st, cfg.Subject.ID)
		result, err := querySvc.GetCycleAnalysis(rng, nil, time.Now())
		if err != nil {
			return err
		}

		if result.NoCrashes {
			if result.FilterApplied {
				fmt.Println("No crash episodes in this range.")
			} else {
				fmt.Println("No crash episodes found. Log crash days as a custom 'Crash' metric to enable cycle analysis.")
			}
			return nil
		}

		fmt.Printf("Crash cycles (%s)\n", cyclesRange)
		fmt.Printf("  Episodes:         %d, avg %.1f days\n", result.EpisodeCount, result.AvgEpisodeLen)
		fmt.Printf("  Crash type:       %s (avg duration %.1f days, peak z %.1f)\n",
			result.Crash.Type, result.Crash.AvgDuration, result.Crash.AvgPeakZ)
		fmt.Printf("  Trigger pattern:  %s\n", describeTrigger(result.PreCrash))
		fmt.Printf("  Symptom recovery: %d days\n", result.Recovery.AvgRecoveryDays)
		if result.Recovery.HysteresisDetected {
			fmt.Println("  Warning: HRV recovers before symptoms do. Feeling-based pacing may restart activity too early.")
		}

		printFindings("Triggers", result.TriggerFindings)
		printFindings("During crash", result.DuringFindings)
		printFindings("Recovery", result.RecoveryFindings)
		return nil
	},
}

func describeTrigger(pc analysis.PreCrashFindings) string {
	switch {
	case pc.DelayedTriggerDetected:
		return fmt.Sprintf("acute exertion spike %d days before onset (confidence %.0f%%)",
			-pc.TriggerLag, pc.Confidence*100)
	case pc.CumulativeLoadDetected:
		return fmt.Sprintf("cumulative load build-up (confidence %.0f%%)", pc.Confidence*100)
	}
	return "none detected"
}

func printFindings(label string, findings []analysis.DeltaFinding) {
	if len(findings) == 0 {
		return
	}
	fmt.Printf("\n  %s:\n", label)
	for _, f := range findings {
		lag := ""
		if f.Lag > 0 {
			lag = fmt.Sprintf(", %d days prior", f.Lag)
		}
		fmt.Printf("    %-20s %+.0f%% vs baseline (%.0f vs %.0f%s)\n",
			f.Metric, f.Delta, f.Value, f.Baseline, lag)
	}
}

func init() {
	cyclesCmd.Flags().StringVar(&cyclesRange, "range", "all", "episode range (7d, 30d, 90d, all)")
	rootCmd.AddCommand(cyclesCmd)
}
