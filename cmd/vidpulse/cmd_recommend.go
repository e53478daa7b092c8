package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidpulse/vidpulse/internal/format"
	"github.com/vidpulse/vidpulse/internal/timeslot"
)

// recommendCmd is the parent command for the recommendation strategies
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a recommendation strategy",
	Long: `Run one of the recommendation strategies over fresh provider data.

Examples:
  vidpulse recommend timeslot
  vidpulse recommend keywords
  vidpulse recommend gems
  vidpulse recommend rising`,
}

var timeslotCmd = &cobra.Command{
	Use:   "timeslot",
	Short: "Show the recommended category for the current hour",
	Run: func(cmd *cobra.Command, args []string) {
		slot := timeslot.Now(nil)
		fmt.Printf("카테고리: %s (%s)\n", slot.Name, slot.CategoryID)
		fmt.Println(slot.Description)
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Aggregate top videos across the keyword shortlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}

		digests := rt.engine.Keywords(context.Background(), rt.cfg.Strategies.Keywords)
		if len(digests) == 0 {
			fmt.Println("no results")
			return nil
		}

		for _, d := range digests {
			fmt.Printf("\n── %s  (총 조회수 %s, 평균 참여도 %.4f)\n",
				d.Keyword, format.Count(d.TotalViews), d.AvgEngagement)
			printVideoTable(d.Videos)
		}
		return nil
	},
}

var gemsCmd = &cobra.Command{
	Use:   "gems",
	Short: "Discover high-engagement videos from mid-tier channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}

		printVideoTable(rt.engine.HiddenGems(context.Background(), rt.cfg.Strategies.GemTerms))
		return nil
	},
}

var risingCmd = &cobra.Command{
	Use:   "rising",
	Short: "Predict rising videos by view velocity",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}

		printVideoTable(rt.engine.Rising(context.Background()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.AddCommand(timeslotCmd)
	recommendCmd.AddCommand(keywordsCmd)
	recommendCmd.AddCommand(gemsCmd)
	recommendCmd.AddCommand(risingCmd)
}
