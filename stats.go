package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trackme/internal/analysis"
	"trackme/internal/service"
)

var statsRange string

var statsCmd = &cobra.Command{
	Use:   "stats [metric]",
	Short: "Print dashboard statistics for a metric",
	Long: `Print the average, in-period trend, and against-previous-period
comparison for one metric. Defaults to the configured default metric.

Run 'trackme stats list' to see every available metric key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		querySvc := service.NewQueryService(st, cfg.Subject.ID)

		metric := cfg.Display.DefaultMetric
		if len(args) > 0 {
			metric = args[0]
		}
		if metric == "list" {
			return printMetricList(querySvc)
		}

		rng, ok := service.ParseTimeRange(statsRange)
		if !ok {
			return fmt.Errorf("invalid range %q (use 7d, 30d, 90d, or all)", statsRange)
		}

		stats, err := querySvc.GetMetricStats(metric, rng, nil, time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", stats.Label, statsRange)
		if stats.SampleCount == 0 {
			fmt.Println("  no data in range")
			return nil
		}

		unit := ""
		if stats.Unit != "" {
			unit = " " + stats.Unit
		}
		fmt.Printf("  Average:        %.1f%s over %d days\n", stats.Average, unit, stats.SampleCount)
		fmt.Printf("  Period trend:   %s\n", describeTrend(stats.PeriodTrend))
		fmt.Printf("  Vs. previous:   %s\n", describeTrend(stats.CompareTrend))
		return nil
	},
}

func printMetricList(querySvc *service.QueryService) error {
	options, err := querySvc.MetricOptions()
	if err != nil {
		return err
	}
	for _, opt := range options {
		fmt.Printf("  %-24s %s\n", opt.Key, opt.Label)
	}
	return nil
}

func describeTrend(t analysis.TrendResult) string {
	switch t.Status {
	case analysis.TrendInsufficientData:
		return "not enough history"
	case analysis.TrendStable:
		return fmt.Sprintf("stable (%+.1f%%)", t.Percent)
	case analysis.TrendImproving:
		return fmt.Sprintf("improving (%+.1f%%)", t.Percent)
	default:
		return fmt.Sprintf("worsening (%+.1f%%)", t.Percent)
	}
}

func init() {
	statsCmd.Flags().StringVar(&statsRange, "range", "30d", "time range (7d, 30d, 90d, all)")
	rootCmd.AddCommand(statsCmd)
}
