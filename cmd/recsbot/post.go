package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glrecs/recsbot/internal/app"
	"github.com/glrecs/recsbot/internal/config"
	"github.com/glrecs/recsbot/internal/db"
	"github.com/glrecs/recsbot/internal/selector"
	"github.com/spf13/cobra"
)

var postDryRun bool

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Pick a folder and post it",
	Long: `Select a random usable content folder from Drive, download its image and
description, and publish to Twitter.

Examples:
  recsbot post            # Actually post
  recsbot post --dry-run  # Show what would be posted without posting`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show what would be posted without actually posting")
	rootCmd.AddCommand(postCmd)
}

// selectionError maps a failed run to the command's exit behavior. An
// exhausted library is a normal outcome of a run, not a process failure,
// so it is reported and the command exits zero. Everything else fails
// the command.
func selectionError(err error) error {
	if errors.Is(err, selector.ErrNoUsableFolder) {
		slog.Error("no usable folder found, nothing posted")
		fmt.Println("No usable folder found.")
		return nil
	}
	return fmt.Errorf("run selection: %w", err)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForDrive(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if !postDryRun {
		if err := cfg.ValidateForPosting(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}

	a, err := app.New(ctx, cfg, app.Options{DryRun: postDryRun})
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	slog.Info("starting post workflow", "dry_run", postDryRun)

	result, err := a.Selector.Run(ctx)
	if err != nil {
		return selectionError(err)
	}
	if result == nil {
		fmt.Println("No candidate folders found.")
		return nil
	}

	fmt.Println()
	fmt.Println("=== Post Content ===")
	fmt.Println()
	fmt.Printf("Folder:   %s\n", result.Folder.Name)
	fmt.Printf("Image:    %s\n", result.Image.Name)
	fmt.Printf("Alt text: %s\n", result.Text.AltText)
	fmt.Printf("Caption:  %s\n", cfg.PostCaption)
	fmt.Println()
	fmt.Println(result.Text.FullText)
	fmt.Println()

	if postDryRun {
		fmt.Println("=== DRY RUN - Not posting ===")
		return nil
	}

	fmt.Printf("Posted successfully!\nURL: %s\n", result.Post.PostURL)

	// Record the post
	replyID := sql.NullString{}
	if len(result.Post.ReplyIDs) > 0 {
		replyID = sql.NullString{String: result.Post.ReplyIDs[0], Valid: true}
	}

	_, err = a.Store.CreatePost(ctx, db.CreatePostParams{
		FolderID:        result.Folder.ID,
		FolderName:      result.Folder.Name,
		ImageFile:       result.Image.Name,
		DescriptionFile: result.Description.Name,
		Platform:        a.Poster.Platform(),
		PlatformPostID:  result.Post.PostID,
		ReplyPostID:     replyID,
		PostURL:         sql.NullString{String: result.Post.PostURL, Valid: result.Post.PostURL != ""},
		AltText:         result.Text.AltText,
	})
	if err != nil {
		slog.Warn("failed to record post", "error", err)
	}

	return nil
}
