package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trackme/internal/service"
	"trackme/internal/store"
)

var (
	experimentStart    string
	experimentEnd      string
	experimentCategory string
)

var experimentCmd = &cobra.Command{
	Use:     "experiment",
	Aliases: []string{"exp"},
	Short:   "Track and analyze interventions",
	Long: `Track interventions (medications, supplements, lifestyle changes)
and compare the composite health score during each one against the
equal-length period before it.

  $ trackme experiment add "Magnesium" --start 2026-08-01
  $ trackme experiment list
  $ trackme experiment delete <id>`,
}

var experimentAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		start := time.Now()
		if experimentStart != "" {
			start, err = time.Parse(store.DateLayout, experimentStart)
			if err != nil {
				return fmt.Errorf("invalid start date %q (use YYYY-MM-DD)", experimentStart)
			}
		}

		var end *time.Time
		if experimentEnd != "" {
			e, err := time.Parse(store.DateLayout, experimentEnd)
			if err != nil {
				return fmt.Errorf("invalid end date %q (use YYYY-MM-DD)", experimentEnd)
			}
			if e.Before(start) {
				return fmt.Errorf("end date %s is before start date %s", experimentEnd, experimentStart)
			}
			end = &e
		}

		exp := &store.Experiment{
			ID:        uuid.NewString(),
			SubjectID: cfg.Subject.ID,
			Name:      args[0],
			StartDate: start,
			EndDate:   end,
			Category:  experimentCategory,
		}
		if err := st.CreateExperiment(exp); err != nil {
			return fmt.Errorf("creating experiment: %w", err)
		}

		fmt.Printf("Added experiment %q starting %s\n", exp.Name, exp.StartDate.Format(store.DateLayout))
		fmt.Printf("  id: %s\n", exp.ID)
		return nil
	},
}

var experimentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiments with their analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		querySvc := service.NewQueryService(st, cfg.Subject.ID)
		results, err := querySvc.GetExperimentResults(time.Now())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No experiments yet. Add one with 'trackme experiment add'.")
			return nil
		}

		for _, ewr := range results {
			exp := ewr.Experiment

			end := "ongoing"
			if exp.EndDate != nil {
				end = exp.EndDate.Format(store.DateLayout)
			}
			fmt.Printf("%s  %s to %s\n", exp.Name, exp.StartDate.Format(store.DateLayout), end)
			fmt.Printf("  id: %s\n", exp.ID)

			r := ewr.Result
			if r == nil {
				fmt.Println("  too few scored days to analyze")
				continue
			}

			marker := ""
			if r.IsSignificant {
				marker = "  (significant)"
			}
			fmt.Printf("  health score %d before, %d during (%+.1f%%)%s\n",
				r.BaselineMean, r.TreatmentMean, r.ChangePercent, marker)
			fmt.Printf("  samples: %d baseline, %d treatment\n",
				r.SampleSizeBaseline, r.SampleSizeTreatment)
		}
		return nil
	},
}

var experimentAnalyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Analyze one experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		querySvc := service.NewQueryService(st, cfg.Subject.ID)
		ewr, err := querySvc.GetExperimentResult(args[0], time.Now())
		if err != nil {
			return err
		}

		exp := ewr.Experiment
		end := "ongoing"
		if exp.EndDate != nil {
			end = exp.EndDate.Format(store.DateLayout)
		}
		fmt.Printf("%s  %s to %s\n", exp.Name, exp.StartDate.Format(store.DateLayout), end)

		r := ewr.Result
		if r == nil {
			fmt.Println("  too few scored days to analyze (need 3 on each side)")
			return nil
		}

		fmt.Printf("  health score before: %d (%d days scored)\n", r.BaselineMean, r.SampleSizeBaseline)
		fmt.Printf("  health score during: %d (%d days scored)\n", r.TreatmentMean, r.SampleSizeTreatment)
		fmt.Printf("  change: %+.1f%%\n", r.ChangePercent)
		if r.IsSignificant {
			fmt.Println("  change exceeds the 5% reporting threshold")
		} else {
			fmt.Println("  change is within the 5% noise band")
		}
		return nil
	},
}

var experimentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteExperiment(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	experimentAddCmd.Flags().StringVar(&experimentStart, "start", "", "start date (YYYY-MM-DD, default today)")
	experimentAddCmd.Flags().StringVar(&experimentEnd, "end", "", "end date (YYYY-MM-DD, default open-ended)")
	experimentAddCmd.Flags().StringVar(&experimentCategory, "category", "", "free-form category (supplement, medication, ...)")

	experimentCmd.AddCommand(experimentAddCmd)
	experimentCmd.AddCommand(experimentListCmd)
	experimentCmd.AddCommand(experimentAnalyzeCmd)
	experimentCmd.AddCommand(experimentDeleteCmd)
	rootCmd.AddCommand(experimentCmd)
}
