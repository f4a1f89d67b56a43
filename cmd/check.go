package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsite/internal/site"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every documentation section loads",
	Long: `Loads every configured section and reports the ones that fail, then lists
Markdown documents under the docs directory that no section references.
Exits non-zero when any section fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		report, err := site.Check(context.Background(), cfg, p.loader)
		if err != nil {
			return fmt.Errorf("checking docs: %w", err)
		}

		for _, r := range report.Results {
			status := "ok"
			if !r.OK() {
				status = r.Outcome()
			}
			fmt.Printf("  %-18s %-40s %s\n", r.Section.ID, r.Section.URL, status)
		}
		if len(report.Orphans) > 0 {
			fmt.Println("\nDocuments not referenced by any section:")
			for _, o := range report.Orphans {
				fmt.Printf("  %s\n", o)
			}
		}

		failed := report.Failed()
		fmt.Printf("\n%d sections checked, %d failed in %s\n",
			len(report.Results), len(failed), time.Since(start).Round(time.Millisecond))
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d sections failed to load", len(failed), len(report.Results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
