package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"patstat/cpctree/internal/db"
	"patstat/cpctree/internal/hierarchy"
)

var statsCmd = &cobra.Command{
	Use:   "stats [db]",
	Short: "Show row counts and level distribution for a built database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := DefaultDBName
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("database not found: %s", path)
		}

		d, err := db.Open(path)
		if err != nil {
			return err
		}
		defer d.Close()

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
		sections, err := d.ChildrenOf(hierarchy.RootSymbol)
		if err != nil {
			return err
		}

		fmt.Println("\n  HIERARCHY")
		fmt.Println("  ────────────────────────────────────────")
		fmt.Printf("  Rows: %d  With titles: %d  Sections: %d\n", total, titled, len(sections))

		fmt.Println("\n  Level distribution:")
		maxCount := 0
		for _, lc := range dist {
			if lc.Count > maxCount {
				maxCount = lc.Count
			}
		}
		for _, lc := range dist {
			barWidth := 1
			if maxCount > 0 {
				barWidth = lc.Count * 40 / maxCount
				if barWidth < 1 {
					barWidth = 1
				}
			}
			fmt.Printf("    %2d: %7d  %s\n", lc.Level, lc.Count, strings.Repeat("=", barWidth))
		}

		if len(sections) > 0 {
			fmt.Println("\n  Sections:")
			for _, s := range sections {
				fmt.Printf("    %s  %s\n", s.SymbolShort, s.TitleEN)
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
