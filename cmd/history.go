package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alias1177/astrokit/internal/history"
)

var (
	historyStatus string
	historySort   string
	historyJSON   bool
	exportFormat  string
	exportOut     string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect, export or clear the prediction history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored predictions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		filter, order, err := parseView()
		if err != nil {
			return err
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		records := history.View(a.Store.List(ctx), filter, order)
		out := cmd.OutOrStdout()
		if historyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"records": records, "summary": history.Summarize(records)})
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tMODEL\tRESULT\tCONFIDENCE\tID")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n",
				r.Timestamp.Local().Format(time.DateTime), r.ModelName, r.Result.Status, r.Result.Confidence, r.ID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		s := history.Summarize(records)
		fmt.Fprintf(out, "\n%d records: %d candidates, %d false positives, %d unknown, mean confidence %.2f\n",
			s.Total, s.Candidates, s.FalsePositives, s.Unknown, s.MeanConfidence)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored predictions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Store.Clear(ctx)
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the history to a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		filter, order, err := parseView()
		if err != nil {
			return err
		}
		format, err := history.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		path := exportOut
		if path == "" {
			path = history.ExportFilename(format, time.Now())
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()

		records := history.View(a.Store.List(ctx), filter, order)
		if err := history.Write(f, format, records); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close export file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), path)
		return nil
	},
}

func parseView() (history.StatusFilter, history.SortOrder, error) {
	filter, err := history.ParseStatusFilter(historyStatus)
	if err != nil {
		return "", "", err
	}
	order, err := history.ParseSortOrder(historySort)
	if err != nil {
		return "", "", err
	}
	return filter, order, nil
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().StringVar(&historyStatus, "status", "all", "filter: all, candidate, false_positive, unknown")
		c.Flags().StringVar(&historySort, "sort", "newest", "order: newest, oldest, confidence")
	}
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
	historyExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	historyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default astrokit-predictions-<ms>.<format>)")

	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
