package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trackme/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import health data files",
}

var importCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import a long-format tracker CSV",
	Long: `Import a long-format tracker export: one observation per row, with
date, metric name, value, and category columns. Common column name
variants (date/day, name/metric/type, value/score/rating) are accepted.

Re-importing a day replaces that day's data entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		importSvc := service.NewImportService(st, cfg.Subject.ID)
		result, err := importSvc.ImportCSV(f)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d days (%s to %s)\n",
			result.RecordsImported, result.FirstDate, result.LastDate)
		return nil
	},
}

var importHealthCmd = &cobra.Command{
	Use:   "health <export.xml>",
	Short: "Merge step counts from an Apple Health export",
	Long: `Read daily step counts out of an Apple Health export.xml and merge
them into days that already have tracker data. Steps alone never create
a day, so import the tracker CSV first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		importSvc := service.NewImportService(st, cfg.Subject.ID)
		result, err := importSvc.ImportHealthExport(f)
		if err != nil {
			return err
		}

		fmt.Printf("Parsed steps for %d days, matched %d existing days\n",
			result.DaysParsed, result.DaysMatched)
		if result.DaysParsed > 0 && result.DaysMatched == 0 {
			fmt.Println("No days matched. Import your tracker CSV first with 'trackme import csv'.")
		}
		return nil
	},
}

func init() {
	importCmd.AddCommand(importCSVCmd)
	importCmd.AddCommand(importHealthCmd)
	rootCmd.AddCommand(importCmd)
}
