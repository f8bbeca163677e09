package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driveops/sharesync/internal/config"
	"github.com/driveops/sharesync/internal/graph"
	"github.com/driveops/sharesync/internal/sync"
	"github.com/driveops/sharesync/internal/version"
	"github.com/driveops/sharesync/internal/workspace"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "sharesync",
	Short:   "Mirror a local directory into a SharePoint document library",
	Version: version.Detailed(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// config is good, anything past this point is operational
		cmd.SilenceUsage = true
		showHeader(cfg)

		return runSync(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().String("tenant-id", "", "Azure AD tenant ID")
	rootCmd.Flags().String("client-id", "", "App registration client ID")
	rootCmd.Flags().String("client-secret", "", "App registration client secret")
	rootCmd.Flags().String("site-id", "", "SharePoint site ID")
	rootCmd.Flags().String("drive-id", "", "Document library drive ID")
	rootCmd.Flags().StringP("local-dir", "d", "", "Local directory to mirror")
	rootCmd.Flags().StringP("base-folder", "b", "", "Destination folder inside the drive")
	rootCmd.Flags().Bool("sync-deletions", false, "Delete remote files that no longer exist locally")
	rootCmd.Flags().Bool("dry-run", false, "Log planned operations without touching the drive")
	rootCmd.Flags().Int64("chunk-size", config.DefaultChunkSize, "Upload chunk size in bytes")
	rootCmd.Flags().StringSliceP("exclude", "x", nil, "Extra exclude globs on top of the ignore file")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (json or yaml)")
}

// loadConfig assembles the config from the env file, the environment, an
// optional config file and the flags. Flags beat env vars beat file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(""); err != nil {
		return nil, err
	}

	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	// Bind flags to viper
	viper.BindPFlag("tenant_id", cmd.Flags().Lookup("tenant-id"))
	viper.BindPFlag("client_id", cmd.Flags().Lookup("client-id"))
	viper.BindPFlag("client_secret", cmd.Flags().Lookup("client-secret"))
	viper.BindPFlag("site_id", cmd.Flags().Lookup("site-id"))
	viper.BindPFlag("drive_id", cmd.Flags().Lookup("drive-id"))
	viper.BindPFlag("local_dir", cmd.Flags().Lookup("local-dir"))
	viper.BindPFlag("base_folder", cmd.Flags().Lookup("base-folder"))
	viper.BindPFlag("sync_deletions", cmd.Flags().Lookup("sync-deletions"))
	viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("chunk_size", cmd.Flags().Lookup("chunk-size"))
	viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))

	// Set up environment variables
	viper.SetEnvPrefix("SHARESYNC")
	viper.AutomaticEnv()

	return &config.Config{
		TenantID:      viper.GetString("tenant_id"),
		ClientID:      viper.GetString("client_id"),
		ClientSecret:  viper.GetString("client_secret"),
		SiteID:        viper.GetString("site_id"),
		DriveID:       viper.GetString("drive_id"),
		LocalDir:      viper.GetString("local_dir"),
		BaseFolder:    viper.GetString("base_folder"),
		SyncDeletions: viper.GetBool("sync_deletions"),
		DryRun:        viper.GetBool("dry_run"),
		ChunkSize:     viper.GetInt64("chunk_size"),
		Exclude:       viper.GetStringSlice("exclude"),
	}, nil
}

func runSync(ctx context.Context, cfg *config.Config) error {
	slog.Info("sharesync", "version", version.Version, "revision", version.Revision, "build", version.BuildDate, "config", cfg)

	ws, err := workspace.New(cfg.LocalDir)
	if err != nil {
		return err
	}
	if err := ws.Lock(); err != nil {
		if errors.Is(err, workspace.ErrRootLocked) {
			return fmt.Errorf("%w: another sync is running on %q", err, ws.Root)
		}
		return err
	}
	defer ws.Unlock()

	client, err := graph.New(&graph.ClientConfig{
		SiteID:  cfg.SiteID,
		DriveID: cfg.DriveID,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	engine := sync.NewEngine(&sync.EngineConfig{
		Workspace: ws,
		Drive:     client.Drive,
		Ignore:    sync.NewIgnoreList(ws.Root, cfg.Exclude),
		Login: func(ctx context.Context) error {
			token, err := graph.AcquireToken(ctx, &graph.AuthParams{
				TenantID:     cfg.TenantID,
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
			})
			if err != nil {
				return err
			}
			client.Login(token)
			return nil
		},
		BaseFolder:    cfg.BaseFolder,
		SyncDeletions: cfg.SyncDeletions,
		DryRun:        cfg.DryRun,
		ChunkSize:     cfg.ChunkSize,
	})

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	// per-file failures show up in the summary, only a fatal error flips
	// the exit status
	printSummary(report)
	return nil
}

func showHeader(cfg *config.Config) {
	color.New(color.FgHiCyan, color.Bold).Printf("ShareSync %s\n", version.Version)
	fmt.Printf("%s %s\n", gray("Site  "), green(cfg.SiteID))
	fmt.Printf("%s %s\n", gray("Drive "), green(cfg.DriveID))
	fmt.Printf("%s %s\n", gray("Local "), green(cfg.LocalDir))
	fmt.Printf("%s %s\n", gray("Remote"), green(cfg.BaseFolder))
	fmt.Println()
}

func printSummary(report *sync.SyncReport) {
	status := green("ok")
	if report.HasFailures() {
		status = red("failed")
	}
	if report.DryRun {
		status += cyan(" (dry run)")
	}

	fmt.Printf("\nsync %s in %s\n", status, report.Duration.Round(time.Millisecond))
	fmt.Printf("  uploaded %d/%d files\n", report.Uploaded, report.Scanned)
	if report.Deleted > 0 || report.DeleteErrors > 0 {
		fmt.Printf("  deleted  %d stale files\n", report.Deleted)
	}
	if report.HasFailures() {
		fmt.Printf("  %s %d uploads, %d deletes\n", red("failed:"), report.UploadErrors, report.DeleteErrors)
	}
}
