package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidpulse/vidpulse/internal/timeslot"
)

var (
	trendingCategory string
	trendingMax      int
	trendingSort     string
	trendingDir      string
)

// trendingCmd fetches the trending chart for a category
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending videos for a category",
	Long: `Fetch the region's trending chart, optionally constrained to one category.
Use --list to print the category table.

Examples:
  vidpulse trending
  vidpulse trending --category 10
  vidpulse trending --category 24 --sort engagementRate --dir desc`,
	RunE: runTrending,
}

var trendingList bool

func init() {
	rootCmd.AddCommand(trendingCmd)

	trendingCmd.Flags().StringVar(&trendingCategory, "category", "all", "Category ID or 'all'")
	trendingCmd.Flags().IntVar(&trendingMax, "max", 50, "Maximum results to fetch")
	trendingCmd.Flags().BoolVar(&trendingList, "list", false, "List known categories and exit")
	addSortFlags(trendingCmd.Flags(), &trendingSort, &trendingDir)
}

func runTrending(cmd *cobra.Command, args []string) error {
	if trendingList {
		for _, c := range timeslot.Categories {
			fmt.Printf("%-4s %s\n", c.ID, c.Name)
		}
		return nil
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	records, err := rt.provider.Trending(context.Background(), trendingCategory, trendingMax)
	if err != nil {
		return fmt.Errorf("trending fetch failed: %w", err)
	}

	records = sortForFlags(records, trendingSort, trendingDir)
	printVideoTable(records)
	return nil
}
