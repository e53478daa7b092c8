package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vidpulse/vidpulse/internal/format"
	"github.com/vidpulse/vidpulse/internal/metrics"
	"github.com/vidpulse/vidpulse/internal/rank"
	"github.com/vidpulse/vidpulse/internal/recommend"
	"github.com/vidpulse/vidpulse/internal/video"
)

var (
	searchMax  int
	searchSort string
	searchDir  string
)

// searchCmd runs a keyword search and prints a ranked table
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search videos and rank them by any derived metric",
	Long: `Search the metadata provider for a keyword and print the enriched results
as a sortable table.

Examples:
  vidpulse search "여행 vlog"
  vidpulse search "AI 인공지능" --sort viewSubscriberRatio --dir desc
  vidpulse search "요리 레시피" --max 25 --sort engagementRate`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchMax, "max", 50, "Maximum results to fetch")
	addSortFlags(searchCmd.Flags(), &searchSort, &searchDir)
}

// addSortFlags registers the shared sort/dir flag pair.
func addSortFlags(fs *pflag.FlagSet, sortVar, dirVar *string) {
	fs.StringVar(sortVar, "sort", "", "Sort field (title|channelTitle|subscriberCount|publishedAt|duration|viewCount|likeCount|commentCount|viewSubscriberRatio|engagementRate|type)")
	fs.StringVar(dirVar, "dir", "desc", "Sort direction (asc|desc)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	records, err := rt.provider.Search(context.Background(), recommend.Query{
		Query:      args[0],
		MaxResults: searchMax,
		Order:      recommend.OrderViewCount,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	records = sortForFlags(records, searchSort, searchDir)
	printVideoTable(records)
	return nil
}

func sortForFlags(records []video.Record, sortName, dirName string) []video.Record {
	if sortName == "" {
		return records
	}
	field, ok := rank.ParseField(sortName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown sort field %q, leaving fetch order\n", sortName)
		return records
	}
	return rank.Sort(records, field, rank.ParseDirection(dirName))
}

func printVideoTable(records []video.Record) {
	if len(records) == 0 {
		fmt.Println("no results")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\t제목\t채널\t구독자수\t게시일\t재생시간\t조회수\t좋아요\t댓글수\t성과지표\t성과레벨\t참여율\t참여레벨\t유형")

	for i, r := range records {
		perf := metrics.ViewSubscriberRatio(r.ViewCount, subscriberOrZero(r))
		engage := metrics.EngagementLevel(r.LikeCount, r.CommentCountOrZero())

		kind := "롱폼"
		if r.IsShort() {
			kind = "쇼츠"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			truncate(r.Title, 40),
			truncate(r.ChannelTitle, 20),
			format.Count(subscriberOrZero(r)),
			format.PublishedAt(r.PublishedAt),
			format.Duration(r.DurationSeconds),
			format.Count(r.ViewCount),
			format.Count(r.LikeCount),
			format.Count(r.CommentCountOrZero()),
			format.Ratio(perf.Ratio),
			perf.Level.String(),
			format.Ratio(engage.Ratio),
			engage.Level.String(),
			kind,
		)
	}
	w.Flush()

	fmt.Printf("\n총 %d개의 동영상\n", len(records))
}

func subscriberOrZero(r video.Record) int64 {
	if !r.HasSubscriberCount {
		return 0
	}
	return r.SubscriberCount
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
