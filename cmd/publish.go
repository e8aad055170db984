package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"patstat/cpctree/internal/bq"
	"patstat/cpctree/internal/config"
	"patstat/cpctree/internal/db"
	"patstat/cpctree/internal/hierarchy"
)

var (
	publishTarget string
	publishDryRun bool
)

var publishCmd = &cobra.Command{
	Use:   "publish [db]",
	Short: "Load the local hierarchy table into the configured BigQuery table",
	Long: `Reads the hierarchy from a local database built by "cpctree build" and
bulk-loads it into the warehouse table named by the target config, replacing
the table's previous contents. Use --dry-run to preview without writing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := DefaultDBName
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("database not found: %s", path)
		}

		target, err := config.LoadTarget(publishTarget)
		if err != nil {
			return err
		}

		d, err := db.Open(path)
		if err != nil {
			return err
		}
		defer d.Close()

		entries, err := d.AllEntries()
		if err != nil {
			return fmt.Errorf("reading hierarchy table: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("%s: hierarchy table is empty; run \"cpctree build\" first", path)
		}

		exporter := bq.New(target, logger)

		if publishDryRun {
			return exporter.DryRun(os.Stdout, entries, hierarchy.RootSymbol)
		}

		loaded, err := exporter.Publish(cmd.Context(), entries, hierarchy.RootSymbol)
		if err != nil {
			return err
		}

		fmt.Printf("Loaded %d rows into %s\n", loaded, target.TableID())
		fmt.Println("\nValidation queries:")
		for _, q := range exporter.ValidationQueries() {
			fmt.Printf("\n%s\n", q)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishTarget, "target", "publish.yaml", "Path to the publish target config")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Preview row count and sample without uploading")
	rootCmd.AddCommand(publishCmd)
}
