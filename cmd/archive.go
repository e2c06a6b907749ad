/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/

// The archive command captures the pages behind stored bookmarks.
//
// Features:
//   - Archive a single bookmark by specifying its ID.
//   - Archive multiple bookmarks by limiting the number processed.
//   - Customize the Chrome/Chromium executable path used for capturing.
//   - Choose between headless or headful Chrome execution.
//   - Configure a timeout for each archive job.
//   - Wait for a specified CSS selector before capturing, helpful for dynamic JS-rendered pages.
//
// Bookmarks whose href is not http(s), such as place: queries or
// bookmarklets, are never picked up in batch mode.
//
// Example usage:
//
//	bookmarkt archive --id=123 --timeout=30s --wait-selector=".loaded" --chrome-path="/path/to/chrome" --headful
//	bookmarkt archive --limit=10
package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seckatie/bookmarkt/internal/core"
	"github.com/spf13/cobra"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive (capture) the pages of stored bookmarks",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runArchive(cmd); err != nil {
			log.Fatalf("Archive failed: %v", err)
		}
	},
}

// archiveBatch runs the archive jobs; tests replace it to avoid a browser.
var archiveBatch = core.RunArchive

// runArchive is the main function for the archive command.
func runArchive(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return fmt.Errorf("failed to read --id: %w", err)
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to read --timeout: %w", err)
	}
	waitSelector, err := cmd.Flags().GetString("wait-selector")
	if err != nil {
		return fmt.Errorf("failed to read --wait-selector: %w", err)
	}

	database, err := initDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	res, err := archiveBatch(context.Background(), database, core.ArchiveRunOptions{
		ID:      id,
		Limit:   limit,
		Options: archiveOptions(cfg, timeout, waitSelector),
	})
	if res.Attempted > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "archived %d of %d bookmark(s), %d failed\n", res.Succeeded, res.Attempted, res.Failed)
	}
	return err
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().Int64("id", 0, "Archive a specific bookmark id")
	archiveCmd.Flags().Int("limit", 0, "Limit the number of bookmarks to archive (0 = all unarchived)")
	archiveCmd.Flags().Duration("timeout", 40*time.Second, "Per-bookmark archive timeout")
	archiveCmd.Flags().String("wait-selector", "", "Optional CSS selector to wait for (useful for JS-heavy pages)")
	archiveCmd.Flags().String("chrome-path", "", "Path to Chrome/Chromium executable")
	archiveCmd.Flags().Bool("headful", false, "Run Chrome with a visible window (not headless)")
}
