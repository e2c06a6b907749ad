/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/seckatie/bookmarkt/internal/netscape"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Parse a bookmark file and store it in the database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd, args[0]); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored bookmark files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(cmd); err != nil {
			log.Fatalf("List failed: %v", err)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Rebuild a stored bookmark file as markup or JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(cmd, args[0]); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	},
}

func runImport(cmd *cobra.Command, path string) error {
	doc, err := netscape.ParseFile(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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

	id, err := database.SaveDocument(doc, filepath.Base(path))
	if err != nil {
		return err
	}

	stats := doc.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "imported document %d: %d bookmarks in %d folders\n", id, stats.Bookmarks, stats.Folders)
	return nil
}

func runList(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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

	documents, err := database.ListDocuments()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSOURCE\tBOOKMARKS\tIMPORTED")
	for _, d := range documents {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", d.ID, d.Title, d.Source, d.Bookmarks, d.ImportedAt)
	}
	return tw.Flush()
}

func runExport(cmd *cobra.Command, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid document id %q", rawID)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read --format: %w", err)
	}
	if format != "html" && format != "json" {
		return fmt.Errorf("unknown format %q, want html or json", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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

	doc, err := database.GetDocument(id)
	if err != nil {
		return err
	}

	if format == "json" {
		data, err := doc.JSONIndent("", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return writeOutput(cmd, append(data, '\n'))
	}

	out, err := doc.HTML()
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return writeOutput(cmd, []byte(out))
}

func init() {
	rootCmd.AddCommand(importCmd, listCmd, exportCmd)

	exportCmd.Flags().String("format", "html", "Output format: html or json")
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
