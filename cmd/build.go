package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"patstat/cpctree/internal/db"
	"patstat/cpctree/internal/hierarchy"
	"patstat/cpctree/internal/release"
)

// DefaultDBName is the conventional output file name inside the release directory.
const DefaultDBName = "cpc-classification.db"

var (
	buildOut       string
	buildBatchSize int
	buildFloor     int
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Build the hierarchy table from a CPC release directory",
	Long: `Locates the symbol list (CPCSymbolList*.csv or .zip) and title archive
(CPCTitleList*.zip) in the given directory, builds the classification tree,
composes full breadcrumb titles, and writes the result to a SQLite table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		rows, err := release.ReadSymbols(dir, logger)
		if err != nil {
			return err
		}
		logger.Info("symbols loaded", zap.Int("count", len(rows)))

		titles, err := release.ReadTitles(dir, logger)
		if err != nil {
			return err
		}

		tree, err := hierarchy.Build(rows, titles, logger)
		if err != nil {
			return fmt.Errorf("building hierarchy: %w", err)
		}
		tree.ComposeTitles(buildFloor)
		if err := tree.Validate(); err != nil {
			return fmt.Errorf("validating hierarchy: %w", err)
		}

		out := buildOut
		if out == "" {
			out = filepath.Join(dir, DefaultDBName)
		}
		d, err := db.Open(out)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.ReplaceHierarchy(tree.Nodes, buildBatchSize, logger); err != nil {
			return fmt.Errorf("writing hierarchy table: %w", err)
		}

		total, err := d.Count()
		if err != nil {
			return err
		}
		titled, err := d.CountTitled()
		if err != nil {
			return err
		}
		dist, err := d.LevelDistribution()
		if err != nil {
			return err
		}

		fmt.Printf("\n  Total rows: %d\n", total)
		fmt.Printf("  With titles: %d\n", titled)
		fmt.Println("\n  Level distribution:")
		for _, lc := range dist {
			fmt.Printf("    Level %d: %d\n", lc.Level, lc.Count)
		}
		fmt.Printf("\n  Database saved to: %s\n", out)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Output database path (default: <dir>/"+DefaultDBName+")")
	buildCmd.Flags().IntVar(&buildBatchSize, "batch-size", db.DefaultBatchSize, "Rows per insert transaction")
	buildCmd.Flags().IntVar(&buildFloor, "title-floor", hierarchy.TitleFloorLevel, "Shallowest level included in full breadcrumb titles")
	rootCmd.AddCommand(buildCmd)
}
