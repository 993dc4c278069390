package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"legalcase_app_go/services/docstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	limit int
}

var similarFlags struct {
	threshold float64
}

var searchCmd = &cobra.Command{
	Use:   "search <terms...>",
	Short: "Full-text search over research documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var similarCmd = &cobra.Command{
	Use:   "similar <case text...>",
	Short: "Find research related to a case description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSimilar,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document counts per type",
	RunE:  runStats,
}

func init() {
	searchCmd.Flags().IntVar(&searchFlags.limit, "limit", docstore.DefaultResearchLimit, "Maximum results")
	similarCmd.Flags().Float64Var(&similarFlags.threshold, "threshold", 0.7, "Minimum relevance score")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	docs, err := store.Research().SearchText(ctx, strings.Join(args, " "), searchFlags.limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	renderResearch(cmd.OutOrStdout(), docs)
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	docs, err := store.Research().FindSimilar(ctx, strings.Join(args, " "), similarFlags.threshold)
	if err != nil {
		return fmt.Errorf("similar: %w", err)
	}
	renderResearch(cmd.OutOrStdout(), docs)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	stats, err := store.Research().GetStats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	types := make([]string, 0, len(stats))
	for k := range stats {
		if k != docstore.StatsTotalKey {
			types = append(types, k)
		}
	}
	sort.Strings(types)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Documents"})
	for _, k := range types {
		t.AppendRow(table.Row{k, stats[k]})
	}
	t.AppendFooter(table.Row{docstore.StatsTotalKey, stats[docstore.StatsTotalKey]})
	t.Render()
	return nil
}
