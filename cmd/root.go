/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/seckatie/bookmarkt/internal/config"
	"github.com/seckatie/bookmarkt/internal/core/db"
	"github.com/seckatie/bookmarkt/internal/core/web"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookmarkt",
	Short: "Read, store and serve Netscape bookmark files",
	Long: `bookmarkt works with the NETSCAPE-Bookmark-file-1 format that every
browser exports. It converts bookmark files to JSON, renders them back to
normalised markup, keeps imported files in SQLite and archives the pages
they point to.

Run without a subcommand to start the web interface together with the
background archive workers.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := config.Default()

	rootCmd.PersistentFlags().StringP("db", "d", defaults.DBPath, "Path to the SQLite database file")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.Flags().IntP("port", "p", defaults.Port, "Port to listen on")
	rootCmd.Flags().String("host", defaults.Host, "Host to listen on")

	// Archive workers flags
	rootCmd.Flags().IntP("archive-workers", "w", defaults.ArchiveWorkers, "Number of archive workers to run (0 disables archiving)")
}

func runServe(cmd *cobra.Command) error {
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

	if cfg.ArchiveWorkers > 0 {
		queue := newArchiveQueue(cfg.ArchiveWorkers)
		registerArchiveListeners(database, queue)
		startArchiveWorkers(database, queue, cfg.ArchiveWorkers, archiveOptions(cfg, 0, ""))
		go queueUnarchived(database, queue)
	}

	web.StartServer(cfg.Addr(), database)
	return nil
}

// loadConfig layers explicitly set flags over the file and environment
// settings read by config.Load, then validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	// Persistent flags only join cmd.Flags() once cobra has parsed them.
	flags := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	flags.AddFlagSet(cmd.Flags())
	flags.AddFlagSet(cmd.PersistentFlags())
	flags.AddFlagSet(cmd.InheritedFlags())

	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read --config: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("db") {
		if cfg.DBPath, err = flags.GetString("db"); err != nil {
			return config.Config{}, fmt.Errorf("failed to read --db: %w", err)
		}
	}
	if changed("host") {
		if cfg.Host, err = flags.GetString("host"); err != nil {
			return config.Config{}, fmt.Errorf("failed to read --host: %w", err)
		}
	}
	if changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return config.Config{}, fmt.Errorf("failed to read --port: %w", err)
		}
	}
	if changed("archive-workers") {
		if cfg.ArchiveWorkers, err = flags.GetInt("archive-workers"); err != nil {
			return config.Config{}, fmt.Errorf("failed to read --archive-workers: %w", err)
		}
	}
	if changed("chrome-path") {
		if cfg.ChromePath, err = flags.GetString("chrome-path"); err != nil {
			return config.Config{}, fmt.Errorf("failed to read --chrome-path: %w", err)
		}
	}
	if changed("headful") {
		if cfg.Headful, err = flags.GetBool("headful"); err != nil {
			return config.Config{}, fmt.Errorf("failed to read --headful: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initDB(cfg config.Config) (*db.DB, error) {
	database, err := db.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database migrated successfully")

	return database, nil
}
