/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/seckatie/bookmarkt/internal/core"
	"github.com/seckatie/bookmarkt/internal/netscape"
	"github.com/spf13/cobra"
)

// iconsCmd downloads each bookmark's ICON_URI and embeds it as ICON, so the
// file shows favicons in browsers that import it offline.
var iconsCmd = &cobra.Command{
	Use:   "icons FILE",
	Short: "Embed favicons into a bookmark file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runIcons(cmd, args[0]); err != nil {
			log.Fatalf("Embedding icons failed: %v", err)
		}
	},
}

func runIcons(cmd *cobra.Command, path string) error {
	doc, err := netscape.ParseFile(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	timeout := cfg.IconTimeout
	if cmd.Flags().Changed("timeout") {
		if timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return fmt.Errorf("failed to read --timeout: %w", err)
		}
	}
	overwrite, err := cmd.Flags().GetBool("overwrite")
	if err != nil {
		return fmt.Errorf("failed to read --overwrite: %w", err)
	}

	out, report, err := core.EmbedIcons(context.Background(), doc, core.IconOptions{
		Timeout:   timeout,
		Overwrite: overwrite,
	})
	if err != nil {
		return err
	}
	log.Printf("Embedded %d of %d icons, %d failed", report.Embedded, report.Candidates, report.Failed)

	rendered, err := out.HTML()
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return writeOutput(cmd, []byte(rendered))
}

func init() {
	rootCmd.AddCommand(iconsCmd)

	iconsCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	iconsCmd.Flags().Duration("timeout", core.DefaultIconTimeout, "Per-icon download timeout")
	iconsCmd.Flags().Bool("overwrite", false, "Replace icons that are already embedded")
}
