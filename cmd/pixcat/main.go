package main

import (
	"fmt"
	"os"
	"os/signal"

	"pixcat/internal/app"
	"pixcat/internal/catalog"
	"pixcat/internal/config"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a CatalogApp. The caller must
// defer a.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.CatalogApp, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewCatalogApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "pixcat",
	Short: "Local photo asset catalog",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Println("Add your photo folders to the roots list before running sync.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Batch Size: %d\n", cfg.BatchSize)
		fmt.Printf("Database:   %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Thumbnails: %s\n", cfg.Thumbnails.Type)
		fmt.Println("Roots:")
		for _, root := range cfg.Roots {
			fmt.Printf("  %s\n", root)
		}
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify database and thumbnail storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CheckSetup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckSetup(); err != nil {
			return err
		}
		fmt.Println("Setup OK.")
		return nil
	},
}

// folders command
var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List cataloged folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Folders")
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, err := a.Folders()
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("No folders cataloged.")
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%6d  %s\n", s.AssetCount, s.Path)
		}
		return nil
	},
}

// sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the catalog with the file system",
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetInt("batch")

		cfg, err := readConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("batch") {
			cfg.BatchSize = batch
		}

		a, err := app.NewCatalogApp(cfg, "Sync")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		bar := progressbar.Default(-1, "syncing")
		counts := map[catalog.Reason]int{}
		var terminal catalog.Event

		for event := range a.Sync(ctx) {
			if event.Reason.Terminal() {
				terminal = event
				break
			}
			counts[event.Reason]++
			if event.Asset != nil {
				bar.Describe(event.Asset.FileName)
			} else if event.Message != "" {
				bar.Describe(event.Message)
			}
			bar.Add(1)
		}
		bar.Finish()
		fmt.Println()

		fmt.Printf("Added %d, updated %d, deleted %d\n",
			counts[catalog.ReasonCreated], counts[catalog.ReasonUpdated], counts[catalog.ReasonDeleted])

		switch terminal.Reason {
		case catalog.ReasonCancelled:
			fmt.Println("Sync cancelled; progress so far is saved.")
		case catalog.ReasonFailed:
			return fmt.Errorf("sync failed: %w", terminal.Err)
		}
		return nil
	},
}

// dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "List duplicate images",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Duplicates")
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := a.Duplicates()
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}
		for _, group := range groups {
			fmt.Println(group.Description())
			for _, asset := range group.Assets {
				fmt.Printf("  %s (%d bytes)\n", asset.FullPath(), asset.FileSize)
			}
		}
		return nil
	},
}

// move command
var moveCmd = &cobra.Command{
	Use:   "move SRC DESTDIR",
	Short: "Move a cataloged image to another folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		preserve, _ := cmd.Flags().GetBool("copy")

		a, err := newApp("Move")
		if err != nil {
			return err
		}
		defer a.Close()

		moved, err := a.Move(args[0], args[1], preserve)
		if err != nil {
			return err
		}
		if !moved {
			fmt.Println("Source and destination are the same; nothing to do.")
			return nil
		}
		if preserve {
			fmt.Printf("Copied %s to %s\n", args[0], args[1])
		} else {
			fmt.Printf("Moved %s to %s\n", args[0], args[1])
		}
		return nil
	},
}

// rename command
var renameCmd = &cobra.Command{
	Use:   "rename DIR TEMPLATE",
	Short: "Batch rename a folder's cataloged images",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		a, err := newApp("Rename")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Rename(args[0], args[1], overwrite)
		if err != nil {
			return err
		}

		for i, asset := range result.SourceAssets {
			fmt.Printf("%s -> %s\n", asset.FileName, result.TargetPaths[i])
		}
		fmt.Printf("Renamed %d file(s). Run sync to refresh the catalog.\n", result.Len())
		return nil
	},
}

// recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent move targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Recent")
		if err != nil {
			return err
		}
		defer a.Close()

		paths, err := a.Recent()
		if err != nil {
			return err
		}

		if len(paths) == 0 {
			fmt.Println("No recent targets.")
			return nil
		}
		for _, path := range paths {
			fmt.Println(path)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configCheckCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().IntP("batch", "b", 0, "Maximum catalog changes this run (0 = unlimited)")
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().BoolP("copy", "c", false, "Copy instead of move, keeping the original")
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().BoolP("overwrite", "f", false, "Overwrite existing files instead of adding a numeric suffix")
	rootCmd.AddCommand(recentCmd)
}
