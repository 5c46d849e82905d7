package main

import (
	"context"
	"fmt"

	"github.com/glrecs/recsbot/internal/config"
	"github.com/glrecs/recsbot/internal/drive"
	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List candidate folders and their usability",
	Long: `List the content folders under the configured Drive parent and report
whether each one is usable (at least one image and exactly one description file).`,
	RunE: runFolders,
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForDrive(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	client, err := drive.NewClient(ctx, drive.Config{
		CredentialsFile:   cfg.ServiceAccountFile,
		RequestsPerSecond: cfg.DriveRateLimit,
	})
	if err != nil {
		return fmt.Errorf("create drive client: %w", err)
	}

	folders, err := client.ListFolders(ctx, cfg.DriveFolderID)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	if len(folders) == 0 {
		fmt.Println("No folders found.")
		return nil
	}

	var usable int
	for _, folder := range folders {
		files, err := client.ListFiles(ctx, folder.ID)
		if err != nil {
			fmt.Printf("  %-40s error: %v\n", folder.Name, err)
			continue
		}

		images, descriptions := drive.ClassifyFiles(files)

		status := "usable"
		switch {
		case len(images) == 0:
			status = "no images"
		case len(descriptions) == 0:
			status = "no description file"
		case len(descriptions) > 1:
			status = fmt.Sprintf("%d description files", len(descriptions))
		default:
			usable++
		}

		fmt.Printf("  %-40s %3d images  %s\n", folder.Name, len(images), status)
	}

	fmt.Println()
	fmt.Printf("%d of %d folders usable\n", usable, len(folders))

	return nil
}
