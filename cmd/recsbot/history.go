package main

import (
	"context"
	"fmt"

	"github.com/glrecs/recsbot/internal/config"
	"github.com/glrecs/recsbot/internal/db"
	"github.com/spf13/cobra"
)

var historyLimit int64

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded posts",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int64Var(&historyLimit, "limit", 20, "Maximum number of posts to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	posts, err := store.ListRecentPosts(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	if len(posts) == 0 {
		fmt.Println("No posts recorded yet.")
		return nil
	}

	total, err := store.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("count posts: %w", err)
	}

	fmt.Printf("=== Recent posts (%d of %d) ===\n", len(posts), total)
	fmt.Println()
	for _, p := range posts {
		fmt.Printf("%s  %-30s %s\n", p.CreatedAt.Format("2006-01-02 15:04"), p.FolderName, p.ImageFile)
		if p.PostURL.Valid {
			fmt.Printf("    %s\n", p.PostURL.String)
		}
	}

	return nil
}
