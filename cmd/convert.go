/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/seckatie/bookmarkt/internal/netscape"
	"github.com/spf13/cobra"
)

// jsonCmd prints the JSON projection of a bookmark file.
var jsonCmd = &cobra.Command{
	Use:   "json FILE",
	Short: "Convert a bookmark file to JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runJSON(cmd, args[0]); err != nil {
			log.Fatalf("JSON conversion failed: %v", err)
		}
	},
}

// renderCmd re-renders a bookmark file as normalised markup.
var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a bookmark file back to normalised bookmark markup",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRender(cmd, args[0]); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats FILE",
	Short: "Count the bookmarks and folders of a bookmark file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStats(cmd, args[0]); err != nil {
			log.Fatalf("Stats failed: %v", err)
		}
	},
}

func runJSON(cmd *cobra.Command, path string) error {
	doc, err := netscape.ParseFile(path)
	if err != nil {
		return err
	}

	pretty, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return fmt.Errorf("failed to read --pretty: %w", err)
	}

	var data []byte
	if pretty {
		data, err = doc.JSONIndent("", "  ")
	} else {
		data, err = doc.JSON()
	}
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return writeOutput(cmd, append(data, '\n'))
}

func runRender(cmd *cobra.Command, path string) error {
	doc, err := netscape.ParseFile(path)
	if err != nil {
		return err
	}
	out, err := doc.HTML()
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return writeOutput(cmd, []byte(out))
}

func runStats(cmd *cobra.Command, path string) error {
	doc, err := netscape.ParseFile(path)
	if err != nil {
		return err
	}
	stats := doc.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "title:     %s\nbookmarks: %d\nfolders:   %d\ndepth:     %d\n",
		doc.Title, stats.Bookmarks, stats.Folders, stats.MaxDepth)
	return nil
}

// writeOutput writes data to the file named by --output, or to the command's
// output when the flag is empty.
func writeOutput(cmd *cobra.Command, data []byte) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to read --output: %w", err)
	}
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Wrote %s", path)
	return nil
}

func init() {
	rootCmd.AddCommand(jsonCmd, renderCmd, statsCmd)

	jsonCmd.Flags().Bool("pretty", false, "Indent the JSON output")
	jsonCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	renderCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
